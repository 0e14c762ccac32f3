package cmd

import (
	"fmt"

	"repodoc/pkg/logging"
	"repodoc/pkg/version"

	"github.com/spf13/cobra"
)

var debug bool

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "repodoc",
	Short: "Repodoc turns a source repository into a single document",
	Long: `Repodoc walks a repository, classifies every file as code, image or binary,
and renders the result as one highlighted HTML or plain-text document.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Setup(debug, version.AppName, version.Version); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable development logging")
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return RootCmd.Execute()
}
