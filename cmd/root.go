package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	configCmd "github.com/8cylinder/toolbox/cmd/config"
	"github.com/8cylinder/toolbox/cmd/db"
	"github.com/8cylinder/toolbox/cmd/file"
	"github.com/8cylinder/toolbox/cmd/util"
	versionCmd "github.com/8cylinder/toolbox/cmd/version"
	"github.com/8cylinder/toolbox/pkg/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "TOOLBOX_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	util.SetupLogging(os.Getenv(verboseLogKey) == "true")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	rootCmd := newRootCommand(&util.Globals{})
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		util.HandleFatalError(err)
	}
}

func newRootCommand(globals *util.Globals) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "toolbox",
		Short: "Tools to manage projects",
		Long: "Tools to manage projects.\n\n" +
			"Commands that work on a project look for a toolbox.yaml in the current\n" +
			"directory and its parents.",
		Version:      version.Version,
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&globals.SuppressCommands, "suppress-commands", "s", false,
		"Don't display the commands used")

	rootCmd.AddCommand(
		db.New(globals),
		file.New(globals),
		configCmd.New(globals),
		versionCmd.New(),
	)
	return rootCmd
}
