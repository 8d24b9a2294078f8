package orchestrator

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier-tools/atelier/internal/packages"
	"github.com/atelier-tools/atelier/internal/process"
	"github.com/atelier-tools/atelier/internal/progress"
	"github.com/atelier-tools/atelier/internal/release"
	"github.com/atelier-tools/atelier/internal/settings"
	"github.com/atelier-tools/atelier/internal/sharedfolders"
)

// ErrInstallInProgress is returned when a mutating operation is attempted
// on a package that already has one running.
var ErrInstallInProgress = errors.New("another operation is already running for this package")

// ErrNotInstalled is returned when an operation names a package the
// registry does not contain.
var ErrNotInstalled = errors.New("package is not installed")

// Options wires the orchestrator's collaborators.
type Options struct {
	Store           settings.Store
	Hub             *progress.Hub
	Deps            packages.Deps
	Linker          *sharedfolders.Linker
	Cache           *release.CheckCache
	ShutdownTimeout time.Duration
	Logger          zerolog.Logger
}

// Orchestrator coordinates adapters, the settings store, the shared-folder
// linker, and running process handles.
type Orchestrator struct {
	store           settings.Store
	hub             *progress.Hub
	deps            packages.Deps
	linker          *sharedfolders.Linker
	cache           *release.CheckCache
	shutdownTimeout time.Duration
	log             zerolog.Logger

	mu      sync.Mutex
	busy    map[string]bool
	running map[string]*process.Handle
}

// New creates an orchestrator from its collaborators.
func New(opts Options) *Orchestrator {
	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = process.DefaultShutdownTimeout
	}
	return &Orchestrator{
		store:           opts.Store,
		hub:             opts.Hub,
		deps:            opts.Deps,
		linker:          opts.Linker,
		cache:           opts.Cache,
		shutdownTimeout: timeout,
		log:             opts.Logger,
		busy:            make(map[string]bool),
		running:         make(map[string]*process.Handle),
	}
}

// adapterFor resolves the adapter for an installed record. An unresolvable
// type name is a configuration error, never a crash.
func (o *Orchestrator) adapterFor(pkg settings.InstalledPackage) (packages.Adapter, error) {
	return packages.New(pkg.PackageType, o.deps)
}

// find resolves an installed package by ID, display name, or type name.
func (o *Orchestrator) find(idOrName string) (settings.InstalledPackage, error) {
	reg, err := o.store.All()
	if err != nil {
		return settings.InstalledPackage{}, err
	}
	if pkg, ok := reg.Find(idOrName); ok {
		return pkg, nil
	}
	if pkg, ok := reg.FindByName(idOrName); ok {
		return pkg, nil
	}
	return settings.InstalledPackage{}, fmt.Errorf("%w: %q", ErrNotInstalled, idOrName)
}

// acquire takes the per-package mutation lock. Concurrent mutating
// operations on the same package are rejected, never interleaved; the
// install directory has exactly one writer at a time.
func (o *Orchestrator) acquire(key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy[key] {
		return fmt.Errorf("%w: %s", ErrInstallInProgress, key)
	}
	o.busy[key] = true
	return nil
}

func (o *Orchestrator) release(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.busy, key)
}

// Installed returns the current registry contents.
func (o *Orchestrator) Installed() ([]settings.InstalledPackage, error) {
	reg, err := o.store.All()
	if err != nil {
		return nil, err
	}
	return reg.Packages, nil
}
