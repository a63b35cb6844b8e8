package util

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/8cylinder/toolbox/pkg/config"
	"github.com/8cylinder/toolbox/pkg/errors"
)

func TestGlobalsTreeLoadsOnce(t *testing.T) {
	origWd, origLoad := getWorkingDirectory, loadTree
	defer func() { getWorkingDirectory, loadTree = origWd, origLoad }()

	var loadedFrom []string
	getWorkingDirectory = func() (string, error) { return "/home/u/app/src", nil }
	loadTree = func(start string) (config.Tree, error) {
		loadedFrom = append(loadedFrom, start)
		return config.NewTree("/home/u/app/toolbox.yaml", config.Project{Name: "app"}), nil
	}

	globals := &Globals{}
	for i := 0; i < 2; i++ {
		tree, err := globals.Tree()
		assert.NoError(t, err)
		assert.Equal(t, "/home/u/app/toolbox.yaml", tree.Path())
	}
	assert.Equal(t, []string{"/home/u/app/src"}, loadedFrom)
}

func TestGlobalsTreeError(t *testing.T) {
	origWd, origLoad := getWorkingDirectory, loadTree
	defer func() { getWorkingDirectory, loadTree = origWd, origLoad }()

	parseErr := errors.ParseError{Path: "/home/u/app/toolbox.yaml", Message: "bad", Line: 1}
	getWorkingDirectory = func() (string, error) { return "/home/u/app", nil }
	loadTree = func(string) (config.Tree, error) { return config.Tree{}, parseErr }

	_, err := (&Globals{}).Tree()
	assert.Equal(t, errors.WithContext(parseErr, "load config"), err)
}

func TestCompleteActionAndServer(t *testing.T) {
	project := config.Project{
		Name:    "app",
		Servers: []config.Server{{Name: "prod"}, {Name: "staging"}, {Name: "preview"}},
	}
	complete := CompleteActionAndServer(NewGlobals(config.NewTree("toolbox.yaml", project)))

	matches, directive := complete(nil, nil, "p")
	assert.Equal(t, []string{"pull", "put"}, matches)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	matches, _ = complete(nil, []string{"put"}, "pr")
	assert.Equal(t, []string{"prod", "preview"}, matches)

	_, directive = complete(nil, []string{"put", "prod"}, "")
	assert.Equal(t, cobra.ShellCompDirectiveDefault, directive)

	_, directive = CompleteActionAndServer(NewGlobals(config.NoProject()))(nil, []string{"put"}, "")
	assert.Equal(t, cobra.ShellCompDirectiveError, directive)
}
