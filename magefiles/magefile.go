//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir     = "bin"
	binName    = "contratorpa"
	mainPkg    = "./cmd/contratorpa"
	binLint    = "golangci-lint"
	distPrefix = "ContratoRPA"
)

var Default = Build

// Build compiles the contratorpa binary into bin/.
func Build() error {
	name := binName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	out := filepath.Join(binDir, name)
	fmt.Printf("build: go build -o %s %s\n", out, mainPkg)
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return sh.RunV("go", "build", "-o", out, mainPkg)
}

// Windows cross-compiles the operator build.
func Windows() error {
	out := filepath.Join(binDir, distPrefix+".exe")
	env := map[string]string{"GOOS": "windows", "GOARCH": "amd64"}
	return sh.RunWithV(env, "go", "build", "-ldflags", "-s -w", "-o", out, mainPkg)
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs go vet and golangci-lint.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV(binLint, "run", "./...")
}

// Check runs lint and tests.
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Clean removes build output.
func Clean() error {
	fmt.Println("clean: removing", binDir)
	return sh.Rm(binDir)
}
