package orchestrator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/atelier-tools/atelier/internal/release"
	"github.com/atelier-tools/atelier/internal/settings"
)

// checkConcurrency bounds parallel remote checks in CheckAll.
const checkConcurrency = 4

// CheckForUpdates reports whether a newer version exists for one package.
// Results are cached per package for the adapter's check interval; within
// the window the cached result is returned with no I/O. Failures are
// advisory: they degrade to "no update" and never propagate, so a dead
// network cannot block a launch.
func (o *Orchestrator) CheckForUpdates(ctx context.Context, idOrName string) release.CheckResult {
	pkg, err := o.find(idOrName)
	if err != nil {
		o.log.Warn().Err(err).Str("package", idOrName).Msg("update check skipped")
		return release.CheckResult{PackageID: idOrName}
	}
	adapter, err := o.adapterFor(pkg)
	if err != nil {
		o.log.Warn().Err(err).Str("package", pkg.DisplayName).Msg("update check skipped")
		return release.CheckResult{PackageID: pkg.ID}
	}
	meta := adapter.Metadata()

	if o.cache != nil {
		if cached, ok := o.cache.Get(pkg.ID, meta.EffectiveCheckInterval()); ok {
			return cached
		}
	}

	available, latest, err := adapter.CheckForUpdate(ctx, pkg)
	if err != nil {
		o.log.Warn().Err(err).Str("package", pkg.DisplayName).Msg("update check failed")
		return release.CheckResult{PackageID: pkg.ID, CheckedAt: time.Now().UTC()}
	}

	result := release.CheckResult{
		PackageID:       pkg.ID,
		UpdateAvailable: available,
		LatestVersion:   latest,
		CheckedAt:       time.Now().UTC(),
	}
	if o.cache != nil {
		if err := o.cache.Put(result); err != nil {
			o.log.Warn().Err(err).Msg("persisting update check failed")
		}
	}

	if err := o.store.Mutate(func(r *settings.Registry) error {
		if current, ok := r.Find(pkg.ID); ok {
			current.UpdateAvailable = available
			current.LastUpdateCheck = result.CheckedAt
			r.Upsert(current)
		}
		return nil
	}); err != nil {
		o.log.Warn().Err(err).Msg("recording update check failed")
	}
	return result
}

// CheckAll runs update checks for every installed package, a few at a
// time. Per-package failures are already absorbed by CheckForUpdates, so
// the aggregate never fails; the error return exists for registry reads.
func (o *Orchestrator) CheckAll(ctx context.Context) ([]release.CheckResult, error) {
	installed, err := o.Installed()
	if err != nil {
		return nil, err
	}

	results := make([]release.CheckResult, len(installed))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)

	for i, pkg := range installed {
		g.Go(func() error {
			results[i] = o.CheckForUpdates(ctx, pkg.ID)
			return nil
		})
	}
	g.Wait()
	return results, nil
}
