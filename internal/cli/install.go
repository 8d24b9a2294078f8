package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atelier-tools/atelier/internal/config"
	"github.com/atelier-tools/atelier/internal/orchestrator"
	"github.com/atelier-tools/atelier/internal/packages"
	"github.com/atelier-tools/atelier/internal/settings"
)

var (
	installPath        string
	installBranch      string
	installTag         string
	installCommit      string
	installAccelerator string
	installStrategy    string
	installArgs        []string
)

var installCmd = &cobra.Command{
	Use:   "install <package>",
	Short: "Install a package",
	Long: `Install a package into the atelier packages directory: clone the
repository, provision its Python environment, and wire its model folders
to the shared library. Supported packages: ` + strings.Join(packages.Types(), ", ") + `.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstallCmd,
}

func init() {
	installCmd.Flags().StringVar(&installPath, "path", "", "Install directory (default: packages root / package name)")
	installCmd.Flags().StringVar(&installBranch, "branch", "", "Track a branch instead of releases")
	installCmd.Flags().StringVar(&installTag, "tag", "", "Install a specific release tag")
	installCmd.Flags().StringVar(&installCommit, "commit", "", "Install a specific commit")
	installCmd.Flags().StringVar(&installAccelerator, "accelerator", "", "Torch variant: cpu, cuda, rocm, mps (default: package preference)")
	installCmd.Flags().StringVar(&installStrategy, "shared-folders", "", "Shared-folder strategy: symlink, config, none (default: package preference)")
	installCmd.Flags().StringArrayVar(&installArgs, "set", nil, "Persist a launch option (name=value, repeatable)")
	rootCmd.AddCommand(installCmd)
}

func runInstallCmd(cmd *cobra.Command, args []string) error {
	typeName := args[0]

	path := installPath
	if path == "" {
		root, err := config.PackagesRoot()
		if err != nil {
			return err
		}
		path = filepath.Join(root, typeName)
	}

	launchArgs, err := parseLaunchArgs(installArgs)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Installing %s to %s...\n", typeName, path)
	stop := a.printProgress(cmd.OutOrStdout())

	pkg, err := a.orch.Install(cmd.Context(), orchestrator.InstallSpec{
		Type:        typeName,
		InstallPath: path,
		Version: packages.VersionSpec{
			Branch: installBranch,
			Tag:    installTag,
			Commit: installCommit,
		},
		Accelerator: packages.Accelerator(installAccelerator),
		Strategy:    settings.SharedFolderStrategy(installStrategy),
		LaunchArgs:  launchArgs,
	})
	stop()
	if err != nil {
		return fail("Installation failed", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %s installed (%s)\n", pkg.DisplayName, pkg.Version, pkg.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "  Launch it with: %s launch %s\n", rootCmd.Use, typeName)
	return nil
}

// parseLaunchArgs converts repeated name=value flags into a map.
func parseLaunchArgs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid launch option %q, expected name=value", pair)
		}
		out[name] = value
	}
	return out, nil
}
