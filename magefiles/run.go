//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed sketch pad.
func (Run) Engine() error {
	fmt.Println("Run engine...")
	if _, err := executeCmd("go", withArgs("run", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Renders every shape file in assets/ to a PNG next to it.
func (Run) Render() error {
	mg.Deps(Build.Render)
	files, err := shapeFiles("assets")
	if err != nil {
		return err
	}
	for _, f := range files {
		if _, err := executeCmd("bin/shaperender", withArgs("-in", f)); err != nil {
			return err
		}
	}
	return nil
}
