package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/atelier-tools/atelier/internal/branding"
	"github.com/atelier-tools/atelier/internal/config"
	"github.com/atelier-tools/atelier/internal/platform"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool

	// hostOS is detected once at startup; every later platform dispatch
	// can assume a supported value.
	hostOS platform.OS
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs and manages generative-art web UIs (ComfyUI,
Stable Diffusion WebUI, Fooocus, and friends): isolated Python environments,
a shared model library, update tracking, and supervised launches.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if hostOS, err = platform.Detect(); err != nil {
			return err
		}
		config.Load()
		return nil
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// newLogger builds the console logger shared by all commands.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// fail formats a user-visible failure as a short title plus detail.
func fail(title string, err error) error {
	return fmt.Errorf("%s: %w", title, err)
}
