package sharedfolders

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/atelier-tools/atelier/internal/packages"
	"github.com/atelier-tools/atelier/internal/platform"
	"github.com/atelier-tools/atelier/internal/settings"
)

// Linker applies and removes shared-folder strategies for installed
// packages.
type Linker struct {
	// LibraryDir is the central model library root; one subdirectory per
	// folder kind.
	LibraryDir string

	// OutputsDir is the central generated-output directory.
	OutputsDir string

	Platform platform.OS
	Logger   zerolog.Logger
}

// Apply wires the package at installPath to the central library using the
// given strategy. Strategies the package does not support are skipped.
func (l *Linker) Apply(meta packages.Metadata, installPath string, strategy settings.SharedFolderStrategy) error {
	if !meta.SupportsStrategy(strategy) {
		l.Logger.Debug().
			Str("package", meta.Type).
			Str("strategy", string(strategy)).
			Msg("shared-folder strategy not supported, skipping")
		return nil
	}

	switch strategy {
	case settings.StrategyNone:
		return nil
	case settings.StrategySymlink:
		return l.applySymlinks(meta, installPath)
	case settings.StrategyConfig:
		return l.applyConfig(meta, installPath)
	}
	return fmt.Errorf("unknown shared-folder strategy %q", strategy)
}

// Remove undoes Apply for the given strategy. Like Apply, unsupported
// strategies are a no-op.
func (l *Linker) Remove(meta packages.Metadata, installPath string, strategy settings.SharedFolderStrategy) error {
	if !meta.SupportsStrategy(strategy) {
		return nil
	}

	switch strategy {
	case settings.StrategyNone:
		return nil
	case settings.StrategySymlink:
		return l.removeSymlinks(meta, installPath)
	case settings.StrategyConfig:
		return l.resetConfig(meta, installPath)
	}
	return fmt.Errorf("unknown shared-folder strategy %q", strategy)
}
