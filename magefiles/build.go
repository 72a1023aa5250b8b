//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the testbed application.
func (Build) Engine() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/anima-vector", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds the headless shape renderer.
func (Build) Render() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/shaperender", "./cmd/shaperender"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go mod tidy and the whole test suite.
func Test() error {
	if err := goModTidy(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
