package config

import (
	log "github.com/sirupsen/logrus"

	"github.com/8cylinder/toolbox/pkg/errors"
)

// FileName is the name of the per-project config file.
const FileName = "toolbox.yaml"

// Tree is the outcome of looking for a project config. It's either a
// validated Project, or the "no project" value when no config file exists.
type Tree struct {
	path    string
	project *Project
}

// NoProject returns the tree used when no config file was found.
func NoProject() Tree {
	return Tree{}
}

// NewTree wraps a validated project that was parsed from `path`.
func NewTree(path string, project Project) Tree {
	return Tree{path: path, project: &project}
}

// InProject returns whether a config file was found.
func (t Tree) InProject() bool {
	return t.project != nil
}

// Path returns the path of the config file, or an empty string if there is
// no project.
func (t Tree) Path() string {
	return t.path
}

// Project returns the project, or errors.ErrNotInProject if there is none.
func (t Tree) Project() (Project, error) {
	if t.project == nil {
		return Project{}, errors.ErrNotInProject
	}
	return *t.project, nil
}

// Load finds the config file closest to `start` and parses it. Not finding
// one isn't an error: the returned tree just isn't in a project.
func Load(start string) (Tree, error) {
	path, err := Locate(FileName, start)
	if err != nil {
		if _, ok := errors.RootCause(err).(errors.ConfigNotFound); ok {
			log.WithField("start", start).Debug("No config file found")
			return NoProject(), nil
		}
		return Tree{}, errors.WithContext(err, "locate config")
	}

	project, err := ParseFile(path)
	if err != nil {
		return Tree{}, err
	}
	return NewTree(path, project), nil
}
