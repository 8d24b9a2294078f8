package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/atelier-tools/atelier/internal/branding"
	"github.com/spf13/viper"
)

// Directory and file name constants for the on-disk layout.
const (
	PackagesDirName = "packages"
	ModelsDirName   = "models"
	OutputsDirName  = "outputs"
	RegistryFile    = "packages.json"
)

// PackagesRoot returns the directory that holds one install directory per
// installed package. The ATELIER_PACKAGES environment variable overrides it.
func PackagesRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("PACKAGES")); v != "" {
		return v, nil
	}
	return filepath.Join(Dir(), PackagesDirName), nil
}

// LibraryDir returns the central model library that installed packages share
// via symlinks or rewritten config files. Resolution order: config key
// library_dir, ATELIER_LIBRARY env, then the XDG data directory
// ($XDG_DATA_HOME/atelier/models).
func LibraryDir() (string, error) {
	if v := viper.GetString(KeyLibraryDir); v != "" {
		return v, nil
	}
	if v := os.Getenv(branding.EnvVar("LIBRARY")); v != "" {
		return v, nil
	}
	return filepath.Join(xdg.DataHome, branding.CLIName(), ModelsDirName), nil
}

// OutputsDir returns the central shared-output directory.
func OutputsDir() (string, error) {
	lib, err := LibraryDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(lib), OutputsDirName), nil
}

// RegistryPath returns the path to the installed-package registry file.
func RegistryPath() (string, error) {
	return filepath.Join(Dir(), RegistryFile), nil
}

// EnsureLayout creates the package root and central library directories.
func EnsureLayout() error {
	if err := EnsureDir(); err != nil {
		return err
	}
	pkgRoot, err := PackagesRoot()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(pkgRoot, 0755); err != nil {
		return fmt.Errorf("creating packages root %s: %w", pkgRoot, err)
	}
	lib, err := LibraryDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(lib, 0755); err != nil {
		return fmt.Errorf("creating model library %s: %w", lib, err)
	}
	return nil
}
