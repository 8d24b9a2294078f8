package settings

import "time"

// SharedFolderStrategy names how a package's model folders map onto the
// central library. Chosen at install time and stored so update/uninstall
// can re-derive it without re-prompting.
type SharedFolderStrategy string

const (
	// StrategySymlink links adapter-declared model paths to the library.
	StrategySymlink SharedFolderStrategy = "symlink"
	// StrategyConfig rewrites the package's own settings file to point
	// its model-path fields at the library.
	StrategyConfig SharedFolderStrategy = "config"
	// StrategyNone leaves the package's folders alone.
	StrategyNone SharedFolderStrategy = "none"
)

// ValidStrategies contains all persistable strategy values.
var ValidStrategies = []SharedFolderStrategy{StrategySymlink, StrategyConfig, StrategyNone}

// IsValidStrategy reports whether s is one of ValidStrategies.
func IsValidStrategy(s SharedFolderStrategy) bool {
	for _, cand := range ValidStrategies {
		if cand == s {
			return true
		}
	}
	return false
}

// InstalledPackage is the persisted record of one installed package.
// Created on successful install, mutated on update or launch-arg change,
// removed on uninstall.
type InstalledPackage struct {
	ID          string `json:"id"`
	PackageType string `json:"package_type"`
	DisplayName string `json:"display_name"`

	// InstallPath is the absolute install root.
	InstallPath string `json:"install_path"`

	// LibraryPath is the install directory relative to the packages root.
	LibraryPath string `json:"library_path"`

	// Version is the current tag or commit descriptor.
	Version string `json:"version"`

	// Branch is set when the package tracks a branch rather than releases.
	Branch string `json:"branch,omitempty"`

	SharedFolderStrategy SharedFolderStrategy `json:"shared_folder_strategy"`

	// Accelerator is the torch/accelerator variant chosen at install
	// (cpu, cuda, rocm, mps).
	Accelerator string `json:"accelerator,omitempty"`

	// LaunchArgs holds the user-chosen launch option values by option name.
	LaunchArgs map[string]string `json:"launch_args,omitempty"`

	LastUpdateCheck time.Time `json:"last_update_check,omitempty"`
	UpdateAvailable bool      `json:"update_available,omitempty"`
	InstalledAt     time.Time `json:"installed_at"`
}

// Registry is the root document of the settings store.
type Registry struct {
	Packages []InstalledPackage `json:"packages"`
}

// Find returns the package with the given ID.
func (r *Registry) Find(id string) (InstalledPackage, bool) {
	for _, p := range r.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return InstalledPackage{}, false
}

// FindByName returns the first package with the given display name or
// package type.
func (r *Registry) FindByName(name string) (InstalledPackage, bool) {
	for _, p := range r.Packages {
		if p.DisplayName == name || p.PackageType == name {
			return p, true
		}
	}
	return InstalledPackage{}, false
}

// Upsert inserts or replaces a package record by ID.
func (r *Registry) Upsert(pkg InstalledPackage) {
	for i, p := range r.Packages {
		if p.ID == pkg.ID {
			r.Packages[i] = pkg
			return
		}
	}
	r.Packages = append(r.Packages, pkg)
}

// Remove deletes a package record by ID, reporting whether it existed.
func (r *Registry) Remove(id string) bool {
	for i, p := range r.Packages {
		if p.ID == id {
			r.Packages = append(r.Packages[:i], r.Packages[i+1:]...)
			return true
		}
	}
	return false
}
