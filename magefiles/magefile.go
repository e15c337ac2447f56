//go:build mage

// Package main contains Mage build targets for peakqc.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "peakqc"
	cmdPkg  = "./cmd/peakqc"
	runsDir = "hek_stored_runs"
)

// Init creates the stored runs directory.
func Init() error {
	if err := os.MkdirAll(runsDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", runsDir, err)
	}
	fmt.Println("  ", runsDir)
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// All runs the tests, then builds.
func All() {
	mg.SerialDeps(Test, Build)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}
