package sharedfolders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atelier-tools/atelier/internal/packages"
	"github.com/atelier-tools/atelier/internal/platform"
)

// applySymlinks links every adapter-declared model folder into the
// central library, and declared output folders into the central outputs
// directory. Library subdirectories are created on demand.
func (l *Linker) applySymlinks(meta packages.Metadata, installPath string) error {
	for kind, rels := range meta.SharedFolders {
		target := filepath.Join(l.LibraryDir, string(kind))
		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("creating library folder %s: %w", target, err)
		}
		for _, rel := range rels {
			if err := l.link(target, filepath.Join(installPath, filepath.FromSlash(rel))); err != nil {
				return err
			}
		}
	}

	for _, rel := range meta.SharedOutputs {
		if err := os.MkdirAll(l.OutputsDir, 0755); err != nil {
			return fmt.Errorf("creating outputs folder: %w", err)
		}
		if err := l.link(l.OutputsDir, filepath.Join(installPath, filepath.FromSlash(rel))); err != nil {
			return err
		}
	}
	return nil
}

func (l *Linker) link(target, linkPath string) error {
	if isLink, err := platform.IsSymlink(linkPath); err == nil && isLink {
		// Already linked; refresh in case the library moved.
		if err := platform.RemoveSymlink(linkPath); err != nil {
			return fmt.Errorf("refreshing link %s: %w", linkPath, err)
		}
	} else if info, err := os.Stat(linkPath); err == nil && info.IsDir() {
		empty, err := dirIsEmpty(linkPath)
		if err != nil {
			return err
		}
		if !empty {
			// Never shadow user data behind a link.
			l.Logger.Warn().Str("path", linkPath).Msg("folder not empty, leaving unlinked")
			return nil
		}
		if err := os.Remove(linkPath); err != nil {
			return fmt.Errorf("removing empty folder %s: %w", linkPath, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
		return fmt.Errorf("creating parent of %s: %w", linkPath, err)
	}
	if err := platform.CreateSymlink(target, linkPath); err != nil {
		return fmt.Errorf("linking %s -> %s: %w", linkPath, target, err)
	}
	return nil
}

// removeSymlinks deletes the links created by applySymlinks. Only links
// are removed; targets and ordinary folders are never touched.
func (l *Linker) removeSymlinks(meta packages.Metadata, installPath string) error {
	var paths []string
	for _, rels := range meta.SharedFolders {
		for _, rel := range rels {
			paths = append(paths, filepath.Join(installPath, filepath.FromSlash(rel)))
		}
	}
	for _, rel := range meta.SharedOutputs {
		paths = append(paths, filepath.Join(installPath, filepath.FromSlash(rel)))
	}

	for _, p := range paths {
		isLink, err := platform.IsSymlink(p)
		if err != nil || !isLink {
			continue
		}
		if err := platform.RemoveSymlink(p); err != nil {
			return fmt.Errorf("removing link %s: %w", p, err)
		}
	}
	return nil
}

func dirIsEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return len(entries) == 0, nil
}
