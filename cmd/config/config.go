package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/8cylinder/toolbox/cmd/util"
	"github.com/8cylinder/toolbox/pkg/config"
	"github.com/8cylinder/toolbox/pkg/errors"
)

// Mocked for unit testing.
var stdout io.Writer = os.Stdout

// New creates a new `config` command.
func New(globals *util.Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the project configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the validated config, with paths resolved",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			if err := show(globals); err != nil {
				util.HandleFatalError(err)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the path of the config file",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			tree, err := globals.Tree()
			if err == nil && !tree.InProject() {
				err = errors.ErrNotInProject
			}
			if err != nil {
				util.HandleFatalError(err)
			}
			fmt.Fprintln(stdout, tree.Path())
		},
	})

	// Setup the commands for querying single values.
	type getterSpec struct {
		use, short string
		fn         func(config.Project) string
	}

	getters := []getterSpec{
		{
			use:   "servers",
			short: "List the configured servers",
			fn: func(project config.Project) string {
				return strings.Join(project.ServerNames(), "\n")
			},
		},
		{
			use:   "get-name",
			short: "Get the project name",
			fn:    func(project config.Project) string { return project.Name },
		},
		{
			use:   "get-root",
			short: "Get the project root directory",
			fn:    func(project config.Project) string { return project.Root },
		},
		{
			use:   "get-pulls-dir",
			short: "Get the directory that database dumps are pulled into",
			fn:    func(project config.Project) string { return project.PullsDir },
		},
	}
	for _, getter := range getters {
		getter := getter
		cmd.AddCommand(&cobra.Command{
			Use:   getter.use,
			Short: getter.short,
			Args:  cobra.NoArgs,
			Run: func(_ *cobra.Command, _ []string) {
				project, err := getProject(globals)
				if err != nil {
					util.HandleFatalError(err)
				}

				fmt.Fprintln(stdout, getter.fn(project))
			},
		})
	}

	return cmd
}

func show(globals *util.Globals) error {
	project, err := getProject(globals)
	if err != nil {
		return err
	}

	out, err := config.Render(project)
	if err != nil {
		return errors.WithContext(err, "render config")
	}

	_, err = stdout.Write(out)
	return err
}

func getProject(globals *util.Globals) (config.Project, error) {
	tree, err := globals.Tree()
	if err != nil {
		return config.Project{}, err
	}
	return tree.Project()
}
