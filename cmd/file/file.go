package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/8cylinder/toolbox/cmd/util"
	"github.com/8cylinder/toolbox/pkg/config"
	"github.com/8cylinder/toolbox/pkg/errors"
	"github.com/8cylinder/toolbox/pkg/runner"
	"github.com/8cylinder/toolbox/pkg/transfer"
)

type planRunner interface {
	Run(context.Context, transfer.Plan) error
}

// Mocked out for unit testing.
var (
	stdout              io.Writer = os.Stdout
	getWorkingDirectory           = os.Getwd
	newRunner                     = func(real, echo bool) planRunner {
		r := runner.New(real, echo)
		r.Stdout = stdout
		return r
	}
)

// New creates a new `file` command.
func New(globals *util.Globals) *cobra.Command {
	var real, quiet bool
	cmd := &cobra.Command{
		Use:   "file ACTION SERVER PATH [-- RSYNC_FLAGS...]",
		Short: "Pull or put a file or directory",
		Long: "Copy a file or directory between the local project and the same\n" +
			"location on SERVER.\n\n" +
			"ACTION is pull or put. SERVER is a server name defined in toolbox.yaml.\n" +
			"PATH must be inside the project. Directories are copied recursively,\n" +
			"skipping the project's and the server's exclude patterns.\n\n" +
			"Without --real, the rsync command is only printed, with --dry-run.\n" +
			"Flags after -- are passed to rsync.",
		Example: "  toolbox file put prod src/\n" +
			"  toolbox file pull staging uploads/ --real -- --delete",
		Args:              fileArgs,
		ValidArgsFunction: util.CompleteActionAndServer(globals),
		Run: func(cmd *cobra.Command, args []string) {
			action, err := transfer.ParseAction(args[0])
			if err != nil {
				util.HandleFatalError(err)
			}

			tree, err := globals.Tree()
			if err != nil {
				util.HandleFatalError(err)
			}

			echo := !quiet && !globals.SuppressCommands
			err = runFileCommand(cmd.Context(), tree, action, args[1], args[2], real, echo, args[3:])
			if err != nil {
				util.HandleFatalError(err)
			}
		},
	}

	cmd.Flags().BoolVarP(&real, "real", "r", false, "Run the command for real")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Don't log the command before running it")
	return cmd
}

// fileArgs requires exactly three positional arguments. Anything after `--`
// is left for rsync.
func fileArgs(cmd *cobra.Command, args []string) error {
	positional := args
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		positional = args[:dash]
	}
	if len(positional) != 3 {
		return fmt.Errorf("expected ACTION, SERVER and PATH, got %d argument(s)", len(positional))
	}
	return nil
}

func runFileCommand(ctx context.Context, tree config.Tree, action transfer.Action,
	serverName, filename string, real, echo bool, extraFlags []string) error {

	project, err := tree.Project()
	if err != nil {
		return err
	}

	server, err := project.FindServer(serverName)
	if err != nil {
		return err
	}

	localPath, err := absPath(filename)
	if err != nil {
		return errors.WithContext(err, "resolve path")
	}

	plan, err := transfer.NewPlanner(project).Plan(transfer.Request{
		Action:     action,
		LocalPath:  localPath,
		Server:     server,
		DryRun:     !real,
		ExtraFlags: extraFlags,
	})
	if err != nil {
		return errors.WithContext(err, "plan transfer")
	}

	log.WithFields(log.Fields{
		"project": project.Name,
		"server":  server.Name,
		"path":    localPath,
	}).Debugf("Starting file %s", action)
	return newRunner(real, echo).Run(ctx, plan)
}

// absPath makes `filename` absolute relative to the working directory. A
// trailing separator, which marks a directory, is kept.
func absPath(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		return filename, nil
	}

	wd, err := getWorkingDirectory()
	if err != nil {
		return "", err
	}

	abs := filepath.Join(wd, filename)
	if len(filename) > 0 && os.IsPathSeparator(filename[len(filename)-1]) {
		abs += string(filepath.Separator)
	}
	return abs, nil
}
