package util

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/8cylinder/toolbox/pkg/config"
	"github.com/8cylinder/toolbox/pkg/errors"
	"github.com/8cylinder/toolbox/pkg/transfer"
)

// Mocked out for unit testing.
var (
	getWorkingDirectory = os.Getwd
	loadTree            = config.Load
)

// Globals is the state shared by every command of a single invocation.
type Globals struct {
	// SuppressCommands stops command lines from being logged before they run.
	SuppressCommands bool

	tree *config.Tree
}

// NewGlobals returns globals for an already loaded config tree.
func NewGlobals(tree config.Tree) *Globals {
	return &Globals{tree: &tree}
}

// Tree returns the config tree for the working directory. It's loaded on
// first use, and the same tree is returned afterwards.
func (g *Globals) Tree() (config.Tree, error) {
	if g.tree != nil {
		return *g.tree, nil
	}

	wd, err := getWorkingDirectory()
	if err != nil {
		return config.Tree{}, errors.WithContext(err, "get working directory")
	}

	tree, err := loadTree(wd)
	if err != nil {
		return config.Tree{}, errors.WithContext(err, "load config")
	}
	g.tree = &tree
	return tree, nil
}

// CompleteActionAndServer completes the ACTION and SERVER arguments shared by
// the transfer commands.
func CompleteActionAndServer(g *Globals) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var candidates []string
		switch len(args) {
		case 0:
			for _, action := range transfer.Actions {
				candidates = append(candidates, string(action))
			}
		case 1:
			tree, err := g.Tree()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			project, err := tree.Project()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			candidates = project.ServerNames()
		default:
			return nil, cobra.ShellCompDirectiveDefault
		}

		var matches []string
		for _, candidate := range candidates {
			if strings.HasPrefix(candidate, toComplete) {
				matches = append(matches, candidate)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}
