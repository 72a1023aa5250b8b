package core

import (
	"errors"
)

var (
	ErrTessellationFailed = errors.New("tessellation failed")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrUnknownAsset       = errors.New("unknown asset")
	ErrNotInitialized     = errors.New("subsystem not initialized")
	ErrUnknown            = errors.New("unknown")
)
