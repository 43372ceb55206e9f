// Package cli holds the musehabit command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// BuildInfo is stamped into the binary by ldflags.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFiles []string
	Build    BuildInfo
}

// NewRootCommand creates the root command of the musehabit server binary.
func NewRootCommand(build BuildInfo) *cobra.Command {
	opts := &RootOptions{Build: build}

	cmd := &cobra.Command{
		Use:           "musehabit",
		Short:         "Musehabit server",
		Long:          "Serves the artist API, tracks every artist's 30-day posting cycle and sends the nightly reminder emails.",
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", []string{".env"}, "dotenv files loaded before reading the environment")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewNightlyCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewCadenceCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}
