package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-tools/atelier/internal/packages"
	"github.com/atelier-tools/atelier/internal/progress"
	"github.com/atelier-tools/atelier/internal/settings"
)

// InstallSpec describes one install request.
type InstallSpec struct {
	// Type is the package type identifier (see packages.Types).
	Type string

	// InstallPath is the absolute directory to install into.
	InstallPath string

	Version     packages.VersionSpec
	Accelerator packages.Accelerator

	// Strategy is the shared-folder strategy; empty selects the package's
	// preferred one.
	Strategy settings.SharedFolderStrategy

	// LaunchArgs are persisted launch option values.
	LaunchArgs map[string]string
}

// Install provisions a package end to end: prerequisite check, version
// resolution, clone, dependency install, shared-folder wiring, and only
// then registration. A failure at any step leaves the registry untouched.
func (o *Orchestrator) Install(ctx context.Context, spec InstallSpec) (settings.InstalledPackage, error) {
	adapter, err := packages.New(spec.Type, o.deps)
	if err != nil {
		return settings.InstalledPackage{}, err
	}
	meta := adapter.Metadata()

	if err := o.checkPrerequisites(meta); err != nil {
		return settings.InstalledPackage{}, err
	}

	if err := o.acquire(spec.InstallPath); err != nil {
		return settings.InstalledPackage{}, err
	}
	defer o.release(spec.InstallPath)

	strategy := spec.Strategy
	if strategy == "" {
		strategy = preferredStrategy(meta)
	} else if !settings.IsValidStrategy(strategy) {
		return settings.InstalledPackage{}, fmt.Errorf("unknown shared-folder strategy %q", strategy)
	}
	if !meta.SupportsStrategy(strategy) {
		o.log.Warn().
			Str("package", meta.DisplayName).
			Str("strategy", string(strategy)).
			Msg("shared-folder strategy not supported by this package, folders left alone")
		strategy = settings.StrategyNone
	}

	id := uuid.NewString()
	rep := o.hub.Reporter(id, progress.KindInstall)

	version, err := adapter.Install(ctx, packages.InstallRequest{
		InstallPath: spec.InstallPath,
		Version:     spec.Version,
		Accelerator: spec.Accelerator,
		Reporter:    rep,
	})
	if err != nil {
		rep.Fail(fmt.Sprintf("Installing %s failed: %v", meta.DisplayName, err))
		rep.End()
		return settings.InstalledPackage{}, fmt.Errorf("installing %s: %w", meta.DisplayName, err)
	}

	rep.Send(95, "Applying shared folders")
	if err := o.linker.Apply(meta, spec.InstallPath, strategy); err != nil {
		rep.Fail(fmt.Sprintf("Linking shared folders failed: %v", err))
		rep.End()
		return settings.InstalledPackage{}, fmt.Errorf("applying shared folders: %w", err)
	}

	pkg := settings.InstalledPackage{
		ID:                   id,
		PackageType:          meta.Type,
		DisplayName:          meta.DisplayName,
		InstallPath:          spec.InstallPath,
		LibraryPath:          filepath.Base(spec.InstallPath),
		Version:              version,
		Branch:               trackedBranch(meta, spec.Version),
		SharedFolderStrategy: strategy,
		Accelerator:          string(defaultedAccelerator(meta, spec.Accelerator)),
		LaunchArgs:           spec.LaunchArgs,
		InstalledAt:          time.Now().UTC(),
	}

	// Registration is the last step: a crash before this point leaves no
	// half-registered package.
	if err := o.store.Mutate(func(r *settings.Registry) error {
		r.Upsert(pkg)
		return nil
	}); err != nil {
		rep.Fail(fmt.Sprintf("Recording install failed: %v", err))
		rep.End()
		return settings.InstalledPackage{}, err
	}

	rep.Done(fmt.Sprintf("%s %s installed", meta.DisplayName, version))
	return pkg, nil
}

// checkPrerequisites verifies every required binary is on PATH before any
// disk mutation happens.
func (o *Orchestrator) checkPrerequisites(meta packages.Metadata) error {
	for _, bin := range meta.Prerequisites {
		if _, err := o.deps.Runner.LookPath(bin); err != nil {
			return fmt.Errorf("%s requires %q on PATH: %w", meta.DisplayName, bin, err)
		}
	}
	return nil
}

func preferredStrategy(meta packages.Metadata) settings.SharedFolderStrategy {
	if len(meta.SharedFolderStrategies) > 0 {
		return meta.SharedFolderStrategies[0]
	}
	return settings.StrategyNone
}

// trackedBranch records the branch an install follows, if any.
func trackedBranch(meta packages.Metadata, spec packages.VersionSpec) string {
	if spec.Branch != "" {
		return spec.Branch
	}
	if spec.Tag == "" && spec.Commit == "" && meta.IgnoreReleases {
		return meta.DefaultBranch
	}
	return ""
}

func defaultedAccelerator(meta packages.Metadata, a packages.Accelerator) packages.Accelerator {
	if a != "" {
		return a
	}
	if len(meta.Accelerators) > 0 {
		return meta.Accelerators[0]
	}
	return packages.AccelCPU
}
