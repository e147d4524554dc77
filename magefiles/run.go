//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Run groups targets that start ethereal-canvas from source.
type Run mg.Namespace

// Relay serves the capture relay on the configured address.
func (Run) Relay() error {
	return sh.RunV("go", "run", cmdPkg, "relay", "serve")
}

// Watch polls the relay and adds captures to the canvas.
func (Run) Watch() error {
	return sh.RunV("go", "run", cmdPkg, "canvas", "watch")
}

// Up runs the relay and the watcher in one process.
func (Run) Up() error {
	return sh.RunV("go", "run", cmdPkg, "up")
}
