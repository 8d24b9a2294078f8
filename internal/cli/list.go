package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packages",
	RunE:  runListCmd,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents one installed package for display.
type listEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Version     string `json:"version"`
	Update      string `json:"update,omitempty"`
	InstalledAt string `json:"installed_at"`
	Path        string `json:"path"`
}

func runListCmd(cmd *cobra.Command, args []string) error {
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

	entries := make([]listEntry, 0, len(installed))
	for _, pkg := range installed {
		entry := listEntry{
			Name:        pkg.DisplayName,
			Type:        pkg.PackageType,
			Version:     pkg.Version,
			InstalledAt: pkg.InstalledAt.Format(time.DateOnly),
			Path:        pkg.InstallPath,
		}
		if pkg.UpdateAvailable {
			entry.Update = "available"
		}
		entries = append(entries, entry)
	}

	if listJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tVERSION\tUPDATE\tINSTALLED\tPATH")
	for _, e := range entries {
		update := e.Update
		if update == "" {
			update = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", e.Name, e.Type, e.Version, update, e.InstalledAt, e.Path)
	}
	return w.Flush()
}
