// umock/umockgen is a tool to generate typed mock proxies for Go interfaces.
// To use it, install it with `go install github.com/ntoll/umock/umockgen@latest`
// and add a `//go:generate umockgen <interface>` comment next to the interface
// you want mocked. By default the proxy struct is named <interface>Mock. Add a
// `--name <proxyname>` flag to pick a different name. The generated proxy is
// written to <proxyname>_umock.go in the same package.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ntoll/umock/umockgen/run"
)

// main is the entry point of the umockgen tool.
func main() {
	err := run.Run(os.Args, &realFileSystem{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements FileSystem using the os package.
type realFileSystem struct{}

// Glob returns the names of all files matching pattern.
func (fs *realFileSystem) Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob failed for pattern %s: %w", pattern, err)
	}

	return matches, nil
}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}
