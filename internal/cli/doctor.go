package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atelier-tools/atelier/internal/config"
	"github.com/atelier-tools/atelier/internal/packages"
	"github.com/atelier-tools/atelier/internal/process"
	"github.com/atelier-tools/atelier/internal/settings"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the atelier installation",
	Long: `Run diagnostic checks: registry schema validity, directory layout,
prerequisite binaries for installed packages, and install paths.`,
	RunE: runDoctorCmd,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctorCmd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	problems := 0

	report := func(ok bool, label string, detail string) {
		if ok {
			fmt.Fprintf(out, "  ✓ %s\n", label)
			return
		}
		problems++
		fmt.Fprintf(out, "  ✗ %s: %s\n", label, detail)
	}

	// Registry file validity.
	registryPath, err := config.RegistryPath()
	if err != nil {
		return err
	}
	result, err := settings.ValidateFile(registryPath)
	if err != nil {
		report(false, "registry schema", err.Error())
	} else if !result.Valid {
		detail := fmt.Sprintf("%d issues", len(result.Issues))
		if len(result.Issues) > 0 {
			detail = fmt.Sprintf("%s (first: %s %s)", detail, result.Issues[0].Path, result.Issues[0].Message)
		}
		report(false, "registry schema", detail)
	} else {
		report(true, "registry schema", "")
	}

	// Directory layout.
	for _, dir := range []func() (string, error){config.PackagesRoot, config.LibraryDir, config.OutputsDir} {
		path, err := dir()
		if err != nil {
			report(false, "directory layout", err.Error())
			continue
		}
		if info, err := os.Stat(path); err != nil {
			report(false, path, "missing (created on next install)")
		} else if !info.IsDir() {
			report(false, path, "not a directory")
		} else {
			report(true, path, "")
		}
	}

	// Prerequisites and install paths for everything installed.
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	installed, err := a.orch.Installed()
	if err != nil {
		return err
	}
	runner := process.NewExecRunner()
	for _, pkg := range installed {
		adapter, err := packages.New(pkg.PackageType, packages.Deps{})
		if err != nil {
			report(false, pkg.DisplayName, err.Error())
			continue
		}
		for _, bin := range adapter.Metadata().Prerequisites {
			if _, err := runner.LookPath(bin); err != nil {
				report(false, fmt.Sprintf("%s: %s", pkg.DisplayName, bin), "not on PATH")
			} else {
				report(true, fmt.Sprintf("%s: %s", pkg.DisplayName, bin), "")
			}
		}
		if _, err := os.Stat(pkg.InstallPath); err != nil {
			report(false, pkg.DisplayName, "install directory missing: "+pkg.InstallPath)
		} else {
			report(true, pkg.DisplayName+" install directory", "")
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d problems found", problems)
	}
	fmt.Fprintln(out, "All checks passed.")
	return nil
}
