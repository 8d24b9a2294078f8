package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateAll bool

var updateCmd = &cobra.Command{
	Use:   "update [package]",
	Short: "Update an installed package",
	Long: `Update a package to its latest release (or branch head for installs
tracking a branch) and refresh its dependencies. Shared-folder wiring is
left untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdateCmd,
}

func init() {
	updateCmd.Flags().BoolVar(&updateAll, "all", false, "Update every installed package")
	rootCmd.AddCommand(updateCmd)
}

func runUpdateCmd(cmd *cobra.Command, args []string) error {
	if !updateAll && len(args) == 0 {
		return fmt.Errorf("name a package or pass --all")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	targets := args
	if updateAll {
		installed, err := a.orch.Installed()
		if err != nil {
			return err
		}
		if len(installed) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing installed yet.")
			return nil
		}
		targets = nil
		for _, pkg := range installed {
			targets = append(targets, pkg.ID)
		}
	}

	stop := a.printProgress(cmd.OutOrStdout())
	defer stop()

	var failures int
	for _, target := range targets {
		pkg, err := a.orch.Update(cmd.Context(), target)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", target, err)
			failures++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is now %s\n", pkg.DisplayName, pkg.Version)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d updates failed", failures, len(targets))
	}
	return nil
}
