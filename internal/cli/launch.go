package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	launchArgs []string
	launchShow bool
)

var launchCmd = &cobra.Command{
	Use:   "launch <package>",
	Short: "Launch an installed package",
	Long: `Launch a package and stream its output. The command blocks until the
process exits or you interrupt it; on interrupt the process gets a
graceful shutdown window before being force-killed.`,
	Args: cobra.ExactArgs(1),
	RunE: runLaunchCmd,
}

func init() {
	launchCmd.Flags().StringArrayVar(&launchArgs, "set", nil, "Override a launch option for this run (name=value, repeatable)")
	launchCmd.Flags().BoolVar(&launchShow, "show-output", true, "Stream the package's own output")
	rootCmd.AddCommand(launchCmd)
}

func runLaunchCmd(cmd *cobra.Command, args []string) error {
	overrides, err := parseLaunchArgs(launchArgs)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	out := cmd.OutOrStdout()
	var onOutput func(string)
	if launchShow {
		onOutput = func(line string) { fmt.Fprintln(out, line) }
	}

	result, err := a.orch.Launch(ctx, args[0], overrides, onOutput)
	if err != nil {
		return fail("Launch failed", err)
	}

	go func() {
		if url, ok := <-result.Ready; ok {
			if url != "" {
				fmt.Fprintf(out, "\n→ Ready at %s\n\n", url)
			} else {
				fmt.Fprintf(out, "\n→ Startup complete\n\n")
			}
		}
	}()

	// Block until the process exits or the user interrupts.
	if err := result.Handle.WaitForExit(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(out, "Shutting down...")
			a.orch.Stop(result.Package)
			return nil
		}
		return fail("Package exited with an error", err)
	}

	a.orch.Stop(result.Package)
	return nil
}
