package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8cylinder/toolbox/pkg/errors"
	"github.com/8cylinder/toolbox/pkg/version"
)

const configPath = "/home/u/app/toolbox.yaml"

const fullConfig = `
project:
  name: app
  pulls_dir: dumps
  rsync_binary:
    darwin: /opt/homebrew/bin/rsync
  exclude:
    - "*.log"
servers:
  staging:
    root: /var/www/staging
    ssh:
      - username: deploy
        server: staging.example.com
  prod:
    root: /var/www/app
    group: www-data
    user: deploy
    exclude:
      - "*.log"
      - .env
    ssh:
      - username: deploy
        server: example.com
        port: 2222
    mysql:
      - username: app
        db: app
        dump: backups/app.sql.gz
`

func parseTestFile(t *testing.T, contents string) (Project, error) {
	setupFs(t, []string{projectRoot}, nil)
	require.NoError(t, afero.WriteFile(fs, configPath, []byte(contents), 0644))
	return ParseFile(configPath)
}

func TestParseFile(t *testing.T) {
	project, err := parseTestFile(t, fullConfig)
	require.NoError(t, err)

	assert.Equal(t, Project{
		Name:        "app",
		Root:        projectRoot,
		PullsDir:    "/home/u/app/dumps",
		RsyncBinary: map[string]string{"darwin": "/opt/homebrew/bin/rsync"},
		Exclude:     []string{"*.log"},
		Servers: []Server{
			{
				Name: "staging",
				Root: "/var/www/staging",
				SSH: []SSHEndpoint{
					{Username: "deploy", Server: "staging.example.com", Port: 22},
				},
			},
			{
				Name:    "prod",
				Root:    "/var/www/app",
				Group:   "www-data",
				User:    "deploy",
				Exclude: []string{"*.log", ".env"},
				SSH: []SSHEndpoint{
					{Username: "deploy", Server: "example.com", Port: 2222},
				},
				MySQL: []MySQL{{Username: "app", DB: "app", Dump: "backups/app.sql.gz"}},
			},
		},
	}, project)
}

func TestParseFileErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expLine   int
		expColumn int
	}{
		{
			name:    "SyntaxError",
			input:   "project:\n  name: app: x\n",
			expLine: 2,
		},
		{
			name: "UnknownField",
			input: `project:
  name: app
servers:
  prod:
    root: /var/www
    hostname: example.com
`,
			expLine:   6,
			expColumn: 5,
		},
		{
			name: "WrongType",
			input: `project:
  name: app
servers:
  prod:
    ssh:
      - username: deploy
        server: example.com
        port: twenty-two
`,
			expLine:   8,
			expColumn: 15,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			project, err := parseTestFile(t, test.input)
			assert.Equal(t, Project{}, project)

			var parseErr errors.ParseError
			require.True(t, errors.As(err, &parseErr), "unexpected error: %v", err)
			assert.Equal(t, errors.WithContext(parseErr, "parse"), err)
			assert.Equal(t, configPath, parseErr.Path)
			assert.NotEmpty(t, parseErr.Message)
			assert.Equal(t, test.expLine, parseErr.Line)

			// Syntax errors point somewhere on the offending line, so only
			// check that a column was reported.
			if test.expColumn == 0 {
				assert.NotZero(t, parseErr.Column)
			} else {
				assert.Equal(t, test.expColumn, parseErr.Column)
			}
		})
	}
}

func TestParseFileEmpty(t *testing.T) {
	project, err := parseTestFile(t, "")
	assert.Equal(t, Project{}, project)
	assert.Equal(t, errors.ValidationError{
		Path: configPath,
		Violations: []errors.Violation{
			{Field: "project.name", Reason: "is required"},
		},
	}, err)
}

func TestParseFileMissing(t *testing.T) {
	setupFs(t, nil, nil)
	_, err := ParseFile(configPath)
	assert.Equal(t, errors.WithContext(errors.FileNotFound{Path: configPath}, "parse"), err)
}

func TestParseFileRequires(t *testing.T) {
	defer func(orig string) { version.Version = orig }(version.Version)
	input := "requires: \">= 2.0.0\"\nproject:\n  name: app\n"

	version.Version = version.EmptyValue
	_, err := parseTestFile(t, input)
	assert.NoError(t, err)

	version.Version = "2.1.0"
	project, err := parseTestFile(t, input)
	assert.NoError(t, err)
	assert.Equal(t, ">= 2.0.0", project.Requires)

	version.Version = "1.9.0"
	_, err = parseTestFile(t, input)
	assert.Equal(t, incompatibleVersionError{configPath, ">= 2.0.0", "1.9.0"}, err)

	_, err = parseTestFile(t, "requires: banana\nproject:\n  name: app\n")
	assert.Equal(t, errors.ValidationError{
		Path: configPath,
		Violations: []errors.Violation{
			{Field: "requires", Value: "banana", Reason: "is not a valid version constraint"},
		},
	}, err)
}
