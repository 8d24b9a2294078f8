//go:build integration

package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/atelier-tools/atelier/internal/orchestrator"
	"github.com/atelier-tools/atelier/internal/packages"
	"github.com/atelier-tools/atelier/internal/settings"
)

// TestPackageLifecycle walks one package through its whole life:
// install, list, update check, update, uninstall.
func TestPackageLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	installPath := filepath.Join(env.PackagesDir, "comfyui")
	pkg, err := env.Orch.Install(ctx, orchestrator.InstallSpec{
		Type:        packages.TypeComfyUI,
		InstallPath: installPath,
		Version:     packages.VersionSpec{Branch: "master"},
		Strategy:    settings.StrategyNone,
	})
	if err != nil {
		t.Fatalf("install: %v", err)
	}

	installed, err := env.Orch.Installed()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(installed) != 1 || installed[0].ID != pkg.ID {
		t.Fatalf("expected exactly the installed package, got %v", installed)
	}

	// The faked remote head differs from the local commit.
	result := env.Orch.CheckForUpdates(ctx, pkg.ID)
	if !result.UpdateAvailable {
		t.Fatal("expected an update to be reported")
	}

	// Second check inside the window is served from the cache.
	callsBefore := len(env.Runner.GetCalls())
	env.Orch.CheckForUpdates(ctx, pkg.ID)
	if got := len(env.Runner.GetCalls()); got != callsBefore {
		t.Fatalf("cached check ran %d extra commands", got-callsBefore)
	}

	updated, err := env.Orch.Update(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.UpdateAvailable {
		t.Error("update flag should clear after updating")
	}

	if err := os.MkdirAll(installPath, 0755); err != nil {
		t.Fatal(err)
	}
	if err := env.Orch.Uninstall(ctx, pkg.ID); err != nil {
		t.Fatalf("uninstall: %v", err)
	}
	if _, err := os.Stat(installPath); !os.IsNotExist(err) {
		t.Error("install directory should be gone after uninstall")
	}
	installed, err = env.Orch.Installed()
	if err != nil {
		t.Fatal(err)
	}
	if len(installed) != 0 {
		t.Errorf("registry should be empty, has %d entries", len(installed))
	}
}
