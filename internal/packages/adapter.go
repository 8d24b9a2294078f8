package packages

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier-tools/atelier/internal/platform"
	"github.com/atelier-tools/atelier/internal/process"
	"github.com/atelier-tools/atelier/internal/progress"
	"github.com/atelier-tools/atelier/internal/release"
	"github.com/atelier-tools/atelier/internal/settings"
)

// FolderKind names one class of shared model folder that packages can map
// onto the central library.
type FolderKind string

const (
	FolderCheckpoints FolderKind = "checkpoints"
	FolderDiffusers   FolderKind = "diffusers"
	FolderLora        FolderKind = "lora"
	FolderVAE         FolderKind = "vae"
	FolderControlNet  FolderKind = "controlnet"
	FolderEmbeddings  FolderKind = "embeddings"
	FolderUpscalers   FolderKind = "upscalers"
	FolderCLIP        FolderKind = "clip"
)

// Difficulty is a rough install-complexity tier shown to the user.
type Difficulty int

const (
	DifficultySimple Difficulty = iota
	DifficultyIntermediate
	DifficultyAdvanced
)

func (d Difficulty) String() string {
	switch d {
	case DifficultySimple:
		return "simple"
	case DifficultyIntermediate:
		return "intermediate"
	case DifficultyAdvanced:
		return "advanced"
	}
	return "unknown"
}

// Metadata describes one package type. It is fixed at compile time: one
// value per adapter, never per installation.
type Metadata struct {
	// Type is the registry key stored in the installed-package record.
	Type string

	DisplayName string

	// Repo is the canonical "owner/name" GitHub identity.
	Repo string

	// RepoURL is the canonical clone URL.
	RepoURL string

	DefaultBranch string
	License       string
	Difficulty    Difficulty

	// Prerequisites lists binaries that must be on PATH before install.
	Prerequisites []string

	// IgnoreReleases marks packages whose tags do not track usable
	// versions; they install and update from the default branch head.
	IgnoreReleases bool

	// StartupMarker is the output substring that signals the service is
	// ready to accept connections.
	StartupMarker string

	// CheckInterval rate-limits update checks for this package. Zero
	// falls back to release.DefaultCheckInterval.
	CheckInterval time.Duration

	// Accelerators lists supported torch variants, first entry preferred.
	Accelerators []Accelerator

	LaunchOptions []LaunchOption

	// SharedFolders maps folder kinds to install-relative paths that the
	// symlink strategy links into the central library.
	SharedFolders map[FolderKind][]string

	// SharedOutputs lists install-relative output directories linked into
	// the central outputs folder.
	SharedOutputs []string

	// SharedFolderStrategies lists the strategies this package supports,
	// first entry preferred.
	SharedFolderStrategies []settings.SharedFolderStrategy
}

// SupportsStrategy reports whether the package supports the given
// shared-folder strategy. Every package supports StrategyNone.
func (m Metadata) SupportsStrategy(s settings.SharedFolderStrategy) bool {
	if s == settings.StrategyNone {
		return true
	}
	for _, cand := range m.SharedFolderStrategies {
		if cand == s {
			return true
		}
	}
	return false
}

// EffectiveCheckInterval returns the package's update-check window.
func (m Metadata) EffectiveCheckInterval() time.Duration {
	if m.CheckInterval > 0 {
		return m.CheckInterval
	}
	return release.DefaultCheckInterval
}

// VersionSpec selects the version to install: a release tag, a branch
// head, or an exact commit. Empty means the adapter default (latest
// release, or the default branch head for release-ignoring packages).
type VersionSpec struct {
	Tag    string
	Branch string
	Commit string
}

// InstallRequest carries everything an adapter needs to install.
type InstallRequest struct {
	InstallPath string
	Version     VersionSpec
	Accelerator Accelerator
	Reporter    *progress.Reporter
}

// UpdateRequest carries the installed record being updated.
type UpdateRequest struct {
	Installed settings.InstalledPackage
	Reporter  *progress.Reporter
}

// RunRequest describes one launch of an installed package.
type RunRequest struct {
	InstallPath string

	// LaunchValues holds user-chosen launch option values by option name;
	// missing options use their defaults.
	LaunchValues map[string]string

	// OnOutput receives every merged output line. May be nil.
	OnOutput func(line string)

	// OnReady is invoked exactly once when the startup marker is seen,
	// with the served URL (empty if extraction failed). May be nil.
	OnReady func(url string)

	Logger zerolog.Logger
}

// Adapter is the capability interface every package type implements.
type Adapter interface {
	Metadata() Metadata

	// Install provisions the package at req.InstallPath: resolve the
	// target version, clone/checkout, install dependencies, write
	// package configuration. It reports progress through req.Reporter
	// and returns the installed version descriptor. Registration in the
	// settings store is the orchestrator's job, after Install succeeds.
	Install(ctx context.Context, req InstallRequest) (version string, err error)

	// Update refreshes an existing install to the latest target version
	// and returns the new version descriptor. Safe to retry after a
	// failed attempt.
	Update(ctx context.Context, req UpdateRequest) (version string, err error)

	// Run launches the package's entry process and returns its handle.
	Run(ctx context.Context, req RunRequest) (*process.Handle, error)

	// CheckForUpdate performs the cheap remote check. Rate limiting is
	// the caller's job; this always does the I/O.
	CheckForUpdate(ctx context.Context, installed settings.InstalledPackage) (bool, string, error)
}

// Deps are the shared collaborators injected into every adapter.
type Deps struct {
	Runner   process.Runner
	Resolver *release.Resolver
	Platform platform.OS
	Logger   zerolog.Logger
}
