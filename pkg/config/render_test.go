package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Rendering a parsed project and parsing the result again must not change
// anything.
func TestRenderIsStable(t *testing.T) {
	project, err := parseTestFile(t, fullConfig)
	require.NoError(t, err)

	rendered, err := Render(project)
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, configPath, rendered, 0644))
	reparsed, err := ParseFile(configPath)
	require.NoError(t, err)

	rerendered, err := Render(reparsed)
	require.NoError(t, err)
	assert.Equal(t, string(rendered), string(rerendered))

	// Servers come back sorted by name, but are otherwise unchanged.
	assert.Equal(t, []string{"staging", "prod"}, project.ServerNames())
	assert.Equal(t, []string{"prod", "staging"}, reparsed.ServerNames())
	for _, name := range project.ServerNames() {
		exp, err := project.FindServer(name)
		require.NoError(t, err)
		actual, err := reparsed.FindServer(name)
		require.NoError(t, err)
		assert.Equal(t, exp, actual)
	}

	reparsed.Servers = project.Servers
	assert.Equal(t, project, reparsed)
	assert.Equal(t, "/home/u/app/dumps", reparsed.PullsDir)
}

func TestRender(t *testing.T) {
	out, err := Render(Project{
		Name:     "app",
		Root:     projectRoot,
		PullsDir: "/home/u/app/dumps",
		Servers: []Server{
			{
				Name: "prod",
				Root: "/var/www",
				SSH:  []SSHEndpoint{{Username: "deploy", Server: "example.com", Port: 22}},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `project:
  name: app
  pulls_dir: /home/u/app/dumps
servers:
  prod:
    root: /var/www
    ssh:
    - port: 22
      server: example.com
      username: deploy
`, string(out))
}
