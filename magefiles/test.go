// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// cliPkg holds the end-to-end command tests.
const cliPkg = modulePath + "/internal/cli"

// Test groups test targets (all, unit, cli, postgres, cover).
type Test mg.Namespace

// All runs all tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Unit runs the package tests, excluding the end-to-end command tests.
func (Test) Unit() error {
	pkgs, err := sh.Output(binGo, "list", "./...")
	if err != nil {
		return err
	}
	var unitPkgs []string
	for pkg := range strings.SplitSeq(pkgs, "\n") {
		if pkg != "" && pkg != cliPkg {
			unitPkgs = append(unitPkgs, pkg)
		}
	}
	if len(unitPkgs) == 0 {
		fmt.Println("No unit test packages found.")
		return nil
	}
	args := append([]string{"test", "-v"}, unitPkgs...)
	return sh.RunV(binGo, args...)
}

// CLI runs the end-to-end command tests.
func (Test) CLI() error {
	return sh.RunV(binGo, "test", "-v", cliPkg)
}

// Postgres runs the store tests of the PostgreSQL dialect.
func (Test) Postgres() error {
	return sh.RunV(binGo, "test", "-v", "-run", "Postgres", modulePath+"/internal/store")
}

// Cover writes a coverage profile to bin/ and prints the per-function
// summary.
func (Test) Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, "coverage.out")
	if err := sh.RunV(binGo, "test", "-coverprofile", profile, "./..."); err != nil {
		return err
	}
	out, err := sh.Output(binGo, "tool", "cover", "-func", profile)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
