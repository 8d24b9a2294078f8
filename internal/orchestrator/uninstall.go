package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/atelier-tools/atelier/internal/progress"
	"github.com/atelier-tools/atelier/internal/settings"
)

// PartialRemovalError reports an uninstall that completed but could not
// delete every file. The registry entry is still removed.
type PartialRemovalError struct {
	Paths []string
}

func (e *PartialRemovalError) Error() string {
	return fmt.Sprintf("%d files could not be removed (first: %s)", len(e.Paths), e.Paths[0])
}

// Uninstall removes an installed package: stop it if running, undo the
// shared-folder strategy, delete the install tree, drop the registry
// entry. Locked files do not abort the deletion; they are collected and
// reported as a PartialRemovalError after everything else succeeded.
func (o *Orchestrator) Uninstall(ctx context.Context, idOrName string) error {
	pkg, err := o.find(idOrName)
	if err != nil {
		return err
	}
	adapter, err := o.adapterFor(pkg)
	if err != nil {
		return err
	}

	if err := o.acquire(pkg.InstallPath); err != nil {
		return err
	}
	defer o.release(pkg.InstallPath)

	o.Stop(pkg.ID)

	rep := o.hub.Reporter(pkg.ID, progress.KindUninstall)
	rep.Indeterminate(fmt.Sprintf("Removing %s", pkg.DisplayName))

	// Links first, so deleting the tree cannot follow one into the
	// library.
	if err := o.linker.Remove(adapter.Metadata(), pkg.InstallPath, pkg.SharedFolderStrategy); err != nil {
		rep.Fail(fmt.Sprintf("Unlinking shared folders failed: %v", err))
		rep.End()
		return fmt.Errorf("removing shared folders: %w", err)
	}

	leftover := removeTree(pkg.InstallPath)

	if err := o.store.Mutate(func(r *settings.Registry) error {
		r.Remove(pkg.ID)
		return nil
	}); err != nil {
		rep.Fail(fmt.Sprintf("Recording uninstall failed: %v", err))
		rep.End()
		return err
	}
	if o.cache != nil {
		o.cache.Forget(pkg.ID)
	}

	rep.Done(fmt.Sprintf("%s removed", pkg.DisplayName))

	if len(leftover) > 0 {
		sort.Strings(leftover)
		return &PartialRemovalError{Paths: leftover}
	}
	return nil
}

// removeTree deletes a directory tree bottom-up, collecting the paths it
// could not remove instead of aborting on the first locked file.
func removeTree(root string) []string {
	if err := os.RemoveAll(root); err == nil {
		return nil
	}

	var failed []string
	var walk func(dir string)
	walk = func(dir string) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			failed = append(failed, dir)
			return
		}
		for _, entry := range entries {
			p := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				walk(p)
				continue
			}
			if err := os.Remove(p); err != nil {
				failed = append(failed, p)
			}
		}
		if err := os.Remove(dir); err != nil {
			failed = append(failed, dir)
		}
	}
	walk(root)
	return failed
}
