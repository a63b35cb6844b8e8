package db

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/8cylinder/toolbox/cmd/util"
	"github.com/8cylinder/toolbox/pkg/config"
	"github.com/8cylinder/toolbox/pkg/errors"
	"github.com/8cylinder/toolbox/pkg/runner"
	"github.com/8cylinder/toolbox/pkg/transfer"
)

// dumpTimeFormat is the timestamp embedded in pulled dump names.
const dumpTimeFormat = "06-01-02_15-04-05"

const dumpExtension = ".sql.gz"

type planRunner interface {
	Run(context.Context, transfer.Plan) error
}

// Mocked out for unit testing.
var (
	fs                            = afero.NewOsFs()
	clock                         = clockwork.NewRealClock()
	stdout              io.Writer = os.Stdout
	getWorkingDirectory           = os.Getwd
	newRunner                     = func(real, echo bool, out io.Writer) planRunner {
		r := runner.New(real, echo)
		r.Stdout = out
		return r
	}
)

// New creates a new `db` command.
func New(globals *util.Globals) *cobra.Command {
	var tag string
	var quiet int
	var real bool
	cmd := &cobra.Command{
		Use:   "db ACTION SERVER [SQL-GZ]",
		Short: "Pull or put a gzipped database dump",
		Long: "Transfer a gzipped SQL dump between the project and SERVER.\n\n" +
			"ACTION is pull or put. SERVER is a server name defined in toolbox.yaml,\n" +
			"and must have a mysql section. SQL-GZ is the dump to upload when putting.\n\n" +
			"On the server, the dump lives at the mysql section's dump path. It defaults\n" +
			"to DB.sql.gz in the server's root.\n\n" +
			"When pulling, the dump is saved in the project's pulls_dir under a name\n" +
			"made from the project name, the server name, and the date and time:\n\n" +
			"    pulls_dir/projectname-servername-20-01-01_01-01-01.sql.gz",
		Args:              cobra.RangeArgs(2, 3),
		ValidArgsFunction: util.CompleteActionAndServer(globals),
		Run: func(cmd *cobra.Command, args []string) {
			action, err := transfer.ParseAction(args[0])
			if err != nil {
				util.HandleFatalError(err)
			}

			var sqlGz string
			if len(args) == 3 {
				sqlGz = args[2]
			}

			tree, err := globals.Tree()
			if err != nil {
				util.HandleFatalError(err)
			}

			echo := !globals.SuppressCommands
			err = runDatabaseCommand(cmd.Context(), tree, action, args[1], sqlGz, tag, quiet, real, echo)
			if err != nil {
				util.HandleFatalError(err)
			}
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Add a tag to the generated filename when pulling")
	cmd.Flags().CountVarP(&quiet, "quiet", "q", "-q: only output the filename, -qq: output nothing")
	cmd.Flags().BoolVarP(&real, "real", "r", false, "Run the command for real")
	return cmd
}

func runDatabaseCommand(ctx context.Context, tree config.Tree, action transfer.Action,
	serverName, sqlGzPath, tag string, quiet int, real, echo bool) error {

	project, err := tree.Project()
	if err != nil {
		return err
	}
	log.WithField("project", project.Name).Debug("Running database command")

	server, err := project.FindServer(serverName)
	if err != nil {
		return err
	}
	if len(server.MySQL) == 0 {
		return errors.MissingFieldError{Field: fmt.Sprintf("servers.%s.mysql", server.Name)}
	}

	var localPath string
	switch action {
	case transfer.Pull:
		if project.PullsDir == "" {
			return errors.MissingFieldError{Field: "project.pulls_dir"}
		}
		localPath = filepath.Join(project.PullsDir, dumpName(project.Name, server.Name, tag))

		if real {
			if err := fs.MkdirAll(project.PullsDir, 0755); err != nil {
				return errors.WithContext(err, "create pulls dir")
			}
		}
	case transfer.Put:
		if sqlGzPath == "" {
			return errors.NewFriendlyError("When ACTION is %q, SQL-GZ is required.", transfer.Put)
		}
		localPath, err = absPath(sqlGzPath)
		if err != nil {
			return errors.WithContext(err, "resolve path")
		}
	}

	plan, err := transfer.NewPlanner(project).Plan(transfer.Request{
		Action:     action,
		LocalPath:  localPath,
		RemotePath: server.MySQL[0].DumpFile(project.Name),
		Server:     server,
		DryRun:     !real,
	})
	if err != nil {
		return errors.WithContext(err, "plan transfer")
	}

	// Any amount of quiet leaves the filename as the only possible output.
	out := stdout
	if quiet > 0 {
		out = io.Discard
		echo = false
	}
	if err := newRunner(real, echo, out).Run(ctx, plan); err != nil {
		return err
	}

	if action == transfer.Pull {
		switch {
		case quiet == 1:
			fmt.Fprintln(stdout, localPath)
		case quiet == 0 && real:
			log.Infof("Saved database dump to %s", localPath)
		}
	}
	return nil
}

// dumpName returns the file name for a dump of `server` pulled now.
func dumpName(project, server, tag string) string {
	name := fmt.Sprintf("%s-%s-%s", project, server, clock.Now().Format(dumpTimeFormat))
	if tag != "" {
		name += "-" + tag
	}
	return name + dumpExtension
}

func absPath(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		return filename, nil
	}

	wd, err := getWorkingDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, filename), nil
}
