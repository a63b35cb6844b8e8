package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	goversion "github.com/hashicorp/go-version"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/8cylinder/toolbox/pkg/errors"
	"github.com/8cylinder/toolbox/pkg/version"
)

type incompatibleVersionError struct {
	path, constraint, actual string
}

func (err incompatibleVersionError) Error() string {
	return err.FriendlyMessage()
}

func (err incompatibleVersionError) FriendlyMessage() string {
	return fmt.Sprintf("The configuration file %q requires toolbox %s, "+
		"but this is version %s.", err.path, err.constraint, err.actual)
}

// ParseFile parses and validates the config file at `path`. The project root
// is the directory containing the file.
func ParseFile(path string) (Project, error) {
	doc, order, err := parseDocument(path)
	if err != nil {
		return Project{}, errors.WithContext(err, "parse")
	}

	if err := checkRequires(path, doc.Requires); err != nil {
		return Project{}, err
	}

	return Build(doc.fields(path, filepath.Dir(path), order))
}

// parseDocument reads the config file and decodes it. It also returns the
// server names in the order they appear in the file, since decoding into a map
// loses it.
func parseDocument(path string) (document, []string, error) {
	configBytes, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return document{}, nil, errors.FileNotFound{Path: path}
		}
		return document{}, nil, errors.WithContext(err, "read file")
	}

	// Decode strictly so that typos in field names are reported rather than
	// silently ignored.
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(configBytes), yaml.DisallowUnknownField())
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return document{}, nil, newParseError(path, err)
	}

	var ordered struct {
		Servers yaml.MapSlice `yaml:"servers"`
	}
	if err := yaml.Unmarshal(configBytes, &ordered); err != nil {
		return document{}, nil, newParseError(path, err)
	}

	var order []string
	for _, item := range ordered.Servers {
		order = append(order, fmt.Sprint(item.Key))
	}
	return doc, order, nil
}

// newParseError converts a decoding error into a ParseError. The position is
// that of the token the parser rejected.
func newParseError(path string, err error) errors.ParseError {
	parseErr := errors.ParseError{Path: path, Message: err.Error()}

	var yamlErr yaml.Error
	if !errors.As(err, &yamlErr) {
		return parseErr
	}

	parseErr.Message = yamlErr.GetMessage()
	if tok := yamlErr.GetToken(); tok != nil && tok.Position != nil {
		parseErr.Line = tok.Position.Line
		parseErr.Column = tok.Position.Column
	}
	return parseErr
}

// checkRequires makes sure the running binary satisfies the version
// constraint in the config file. Builds that weren't stamped with a version
// skip the check.
func checkRequires(path, requires string) error {
	if requires == "" {
		return nil
	}

	constraint, err := goversion.NewConstraint(requires)
	if err != nil {
		return errors.ValidationError{
			Path: path,
			Violations: []errors.Violation{{
				Field:  "requires",
				Value:  requires,
				Reason: "is not a valid version constraint",
			}},
		}
	}

	if version.Version == version.EmptyValue {
		log.WithField("requires", requires).Debug(
			"Skipping version check for unversioned build")
		return nil
	}

	current, err := goversion.NewVersion(version.Version)
	if err != nil {
		log.WithError(err).WithField("version", version.Version).Debug(
			"Failed to parse own version, skipping version check")
		return nil
	}

	if !constraint.Check(current) {
		return incompatibleVersionError{path, requires, version.Version}
	}
	return nil
}
