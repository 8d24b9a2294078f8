package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/atelier-tools/atelier/internal/packages"
	"github.com/atelier-tools/atelier/internal/progress"
	"github.com/atelier-tools/atelier/internal/settings"
)

// Update brings an installed package to its latest target version. The
// shared-folder strategy is left exactly as installed: updates never
// re-apply or reset folder wiring. Retrying a failed update is safe.
func (o *Orchestrator) Update(ctx context.Context, idOrName string) (settings.InstalledPackage, error) {
	pkg, err := o.find(idOrName)
	if err != nil {
		return settings.InstalledPackage{}, err
	}
	adapter, err := o.adapterFor(pkg)
	if err != nil {
		return settings.InstalledPackage{}, err
	}

	if err := o.acquire(pkg.InstallPath); err != nil {
		return settings.InstalledPackage{}, err
	}
	defer o.release(pkg.InstallPath)

	rep := o.hub.Reporter(pkg.ID, progress.KindUpdate)

	version, err := adapter.Update(ctx, packages.UpdateRequest{
		Installed: pkg,
		Reporter:  rep,
	})
	if err != nil {
		rep.Fail(fmt.Sprintf("Updating %s failed: %v", pkg.DisplayName, err))
		rep.End()
		return settings.InstalledPackage{}, fmt.Errorf("updating %s: %w", pkg.DisplayName, err)
	}

	pkg.Version = version
	pkg.UpdateAvailable = false
	pkg.LastUpdateCheck = time.Now().UTC()

	if err := o.store.Mutate(func(r *settings.Registry) error {
		r.Upsert(pkg)
		return nil
	}); err != nil {
		rep.Fail(fmt.Sprintf("Recording update failed: %v", err))
		rep.End()
		return settings.InstalledPackage{}, err
	}

	// The cached check predates the update.
	if o.cache != nil {
		o.cache.Forget(pkg.ID)
	}

	rep.Done(fmt.Sprintf("%s updated to %s", pkg.DisplayName, version))
	return pkg, nil
}
