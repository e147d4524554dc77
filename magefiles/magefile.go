//go:build mage

// Package main contains Mage build targets for ethereal-canvas developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

const (
	binDir     = "bin"
	binName    = "ethereal-canvas"
	cmdPkg     = "./cmd/ethereal-canvas"
	configFile = "ethereal-canvas.yaml"
)

// Init writes ethereal-canvas.yaml with the default settings, unless it
// already exists.
func Init() error {
	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("%s already exists, leaving it alone.\n", configFile)
		return nil
	}
	data, err := yaml.Marshal(types.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}
	if err := os.WriteFile(configFile, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}
	fmt.Printf("Wrote %s\n", configFile)
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Check builds the binary after the tests pass.
func Check() {
	mg.SerialDeps(Test, Build)
}

// Stats prints the number of Go source and test files per package.
func Stats() error {
	type counts struct{ src, test int }
	pkgs := map[string]*counts{}

	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "_") || (d.Name() != "." && strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		dir := filepath.Dir(path)
		c, ok := pkgs[dir]
		if !ok {
			c = &counts{}
			pkgs[dir] = c
		}
		if strings.HasSuffix(path, "_test.go") {
			c.test++
		} else {
			c.src++
		}
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(pkgs))
	for d := range pkgs {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	fmt.Printf("%-32s  %6s  %6s\n", "Package", "Source", "Tests")
	for _, d := range dirs {
		fmt.Printf("%-32s  %6d  %6d\n", d, pkgs[d].src, pkgs[d].test)
	}
	return nil
}
