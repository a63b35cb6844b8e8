package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithContext(t *testing.T) {
	assert.Nil(t, WithContext(nil, "ignored"))

	err := WithContext(WithContext(FileNotFound{"/x"}, "read"), "parse")
	assert.Equal(t, `parse: read: "/x" does not exist`, err.Error())
	assert.Equal(t, FileNotFound{"/x"}, RootCause(err))

	var notFound FileNotFound
	assert.True(t, As(err, &notFound))
	assert.Equal(t, "/x", notFound.Path)
}

func TestGetPrintableMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		exp  string
	}{
		{
			name: "Plain",
			err:  WithContext(New("boom"), "plan"),
			exp:  "plan: boom",
		},
		{
			name: "Friendly",
			err:  WithContext(NewFriendlyError("hello %s", "there"), "plan"),
			exp:  "hello there",
		},
		{
			name: "ValidationError",
			err: WithContext(ValidationError{
				Path: "/p/toolbox.yaml",
				Violations: []Violation{
					{Field: "project.name", Reason: "is required"},
					{Field: "servers.prod.ssh[0].port", Value: "0", Reason: "must be between 1 and 65535"},
				},
			}, "build project"),
			exp: "The config file \"/p/toolbox.yaml\" is invalid:\n" +
				" - project.name: is required\n" +
				" - servers.prod.ssh[0].port: must be between 1 and 65535 (got \"0\")",
		},
		{
			name: "NotInProject",
			err:  WithContext(ErrNotInProject, "get project"),
			exp: "Not in a project.\n" +
				"Run the command from inside a directory tree containing a toolbox.yaml.",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.exp, GetPrintableMessage(test.err))
		})
	}
}

func TestParseErrorLocation(t *testing.T) {
	assert.Equal(t, "t.yaml:3:7: bad", ParseError{"t.yaml", "bad", 3, 7}.Error())
	assert.Equal(t, "t.yaml:3: bad", ParseError{"t.yaml", "bad", 3, 0}.Error())
	assert.Equal(t, "t.yaml: bad", ParseError{"t.yaml", "bad", 0, 0}.Error())
}
