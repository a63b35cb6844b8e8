package errors

import (
	"fmt"
	"strings"
)

// ErrNotInProject is returned when a command needs project data but no
// config file was found above the working directory.
var ErrNotInProject = NewFriendlyError("Not in a project.\n" +
	"Run the command from inside a directory tree containing a toolbox.yaml.")

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// ConfigNotFound is returned when the config file doesn't exist in the start
// directory or any of its ancestors. It isn't fatal on its own.
type ConfigNotFound struct {
	Filename string
	Start    string
}

func (err ConfigNotFound) Error() string {
	return fmt.Sprintf("%s not found in %q or any parent directory",
		err.Filename, err.Start)
}

// ParseError is a syntax or type error in a config document. Line and Column
// are 1-based, and zero when the parser couldn't tell.
type ParseError struct {
	Path    string
	Message string
	Line    int
	Column  int
}

func (err ParseError) Error() string {
	switch {
	case err.Line > 0 && err.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %s", err.Path, err.Line, err.Column, err.Message)
	case err.Line > 0:
		return fmt.Sprintf("%s:%d: %s", err.Path, err.Line, err.Message)
	default:
		return fmt.Sprintf("%s: %s", err.Path, err.Message)
	}
}

// FriendlyMessage implements the friendly message interface.
func (err ParseError) FriendlyMessage() string {
	return fmt.Sprintf("There was an error while parsing the config file:\n%s", err.Error())
}

// Violation is a single field that failed validation.
type Violation struct {
	Field  string
	Value  string
	Reason string
}

func (v Violation) String() string {
	if v.Value == "" {
		return fmt.Sprintf("%s: %s", v.Field, v.Reason)
	}
	return fmt.Sprintf("%s: %s (got %q)", v.Field, v.Reason, v.Value)
}

// ValidationError collects every violation found while building a project
// from a config document.
type ValidationError struct {
	Path       string
	Violations []Violation
}

func (err ValidationError) Error() string {
	var msgs []string
	for _, v := range err.Violations {
		msgs = append(msgs, v.String())
	}
	return fmt.Sprintf("invalid config %s: %s", err.Path, strings.Join(msgs, "; "))
}

// FriendlyMessage implements the friendly message interface.
func (err ValidationError) FriendlyMessage() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The config file %q is invalid:", err.Path)
	for _, v := range err.Violations {
		fmt.Fprintf(&sb, "\n - %s", v)
	}
	return sb.String()
}

// ServerNotFound is returned when a server name doesn't match any configured
// server.
type ServerNotFound struct {
	Name      string
	Available []string
}

func (err ServerNotFound) Error() string {
	return fmt.Sprintf("server %q does not exist (available: %s)",
		err.Name, strings.Join(err.Available, ", "))
}

// ServerMissingRoot is returned when a transfer needs a server's root but
// none is configured.
type ServerMissingRoot struct {
	Server string
}

func (err ServerMissingRoot) Error() string {
	return fmt.Sprintf("server %q has no root", err.Server)
}

// NoSSHEndpoint is returned when a transfer needs an SSH endpoint but the
// server has none.
type NoSSHEndpoint struct {
	Server string
}

func (err NoSSHEndpoint) Error() string {
	return fmt.Sprintf("server %q has no ssh entries", err.Server)
}

// PathNotUnderProjectRoot is returned when a local path can't be mapped onto
// a server because it lives outside the project.
type PathNotUnderProjectRoot struct {
	Path string
	Root string
}

func (err PathNotUnderProjectRoot) Error() string {
	return fmt.Sprintf("%q is not inside the project root %q", err.Path, err.Root)
}

// LocalFileMissing is returned when a local file that is about to be sent
// doesn't exist.
type LocalFileMissing struct {
	Path string
}

func (err LocalFileMissing) Error() string {
	return fmt.Sprintf("local file %q does not exist", err.Path)
}
