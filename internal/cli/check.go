package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check installed packages for updates",
	Long: `Query each installed package's upstream for a newer version. Results
are cached per package, so repeated checks inside the cache window do no
network I/O.`,
	RunE: runCheckCmd,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	installed, err := a.orch.Installed()
	if err != nil {
		return err
	}
	if len(installed) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No packages installed yet.")
		return nil
	}

	results, err := a.orch.CheckAll(cmd.Context())
	if err != nil {
		return err
	}

	byID := make(map[string]int, len(results))
	for i, r := range results {
		byID[r.PackageID] = i
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tCURRENT\tLATEST\tSTATUS")
	updates := 0
	for _, pkg := range installed {
		r := results[byID[pkg.ID]]
		status := "up to date"
		latest := r.LatestVersion
		if latest == "" {
			latest = "-"
		}
		if r.UpdateAvailable {
			status = "update available"
			updates++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", pkg.DisplayName, pkg.Version, latest, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if updates > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\nRun '%s update --all' to update.\n", rootCmd.Use)
	}
	return nil
}
