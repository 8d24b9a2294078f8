package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atelier-tools/atelier/internal/orchestrator"
)

var uninstallYes bool

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <package>",
	Short: "Remove an installed package",
	Long: `Remove a package: stop it if running, unlink its shared folders, and
delete the install directory. The shared model library is never touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstallCmd,
}

func init() {
	uninstallCmd.Flags().BoolVarP(&uninstallYes, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstallCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !uninstallYes {
		fmt.Fprintf(cmd.OutOrStdout(), "? Remove %s and its install directory? (y/N) ", args[0])
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
			if answer != "y" && answer != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}
	}

	err = a.orch.Uninstall(cmd.Context(), args[0])

	var partial *orchestrator.PartialRemovalError
	if errors.As(err, &partial) {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s removed, but %d files were left behind:\n", args[0], len(partial.Paths))
		for _, p := range partial.Paths {
			fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", p)
		}
		return nil
	}
	if err != nil {
		return fail("Uninstall failed", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s removed\n", args[0])
	return nil
}
