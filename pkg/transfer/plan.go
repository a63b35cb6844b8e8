package transfer

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
	log "github.com/sirupsen/logrus"

	"github.com/8cylinder/toolbox/pkg/config"
	"github.com/8cylinder/toolbox/pkg/errors"
)

// DefaultBinary is used when the project doesn't override the rsync binary
// for the current platform.
const DefaultBinary = "rsync"

// baselineFlags are passed to every transfer. Changed files are detected by
// checksum rather than by size and mtime.
var baselineFlags = []string{"--links", "--compress", "--checksum", "--itemize-changes"}

// Plan is a fully resolved rsync invocation. It's only a description;
// running it is up to the caller.
type Plan struct {
	Binary      string
	Args        []string
	Source      string
	Destination string
}

// Argv returns the arguments to pass to Binary, including the source and
// destination.
func (p Plan) Argv() []string {
	argv := append([]string{}, p.Args...)
	return append(argv, p.Source, p.Destination)
}

// String returns the plan as a shell command line.
func (p Plan) String() string {
	return shellquote.Join(append([]string{p.Binary}, p.Argv()...)...)
}

// Request describes a transfer to plan.
type Request struct {
	Action    Action
	LocalPath string
	Server    config.Server
	DryRun    bool

	// RemotePath is the path on the server to transfer to or from. When
	// empty, the local path's place in the project is mirrored under the
	// server's root.
	RemotePath string

	// ExtraFlags are passed to rsync verbatim, after the baseline flags.
	ExtraFlags []string
}

// Planner turns transfer requests into plans for a project.
type Planner struct {
	project config.Project
	goos    string
}

// NewPlanner creates a planner for transfers within `project`.
func NewPlanner(project config.Project) Planner {
	return Planner{project: project, goos: runtime.GOOS}
}

// Plan builds the rsync invocation for `req`.
func (p Planner) Plan(req Request) (Plan, error) {
	if len(req.Server.SSH) == 0 {
		return Plan{}, errors.NoSSHEndpoint{Server: req.Server.Name}
	}
	endpoint := req.Server.SSH[0]

	localPath := req.LocalPath
	isDir, err := p.isDir(req.Action, localPath)
	if err != nil {
		return Plan{}, err
	}

	var args []string
	if req.DryRun {
		args = append(args, "--dry-run")
	}
	if rsh := remoteShell(endpoint); rsh != "" {
		args = append(args, "--rsh="+rsh)
	}

	args = append(args, baselineFlags...)
	args = append(args, req.ExtraFlags...)

	remotePath, err := p.remotePath(req)
	if err != nil {
		return Plan{}, errors.WithContext(err, "map to remote")
	}

	// When copying directories, both sides end in a slash so that rsync syncs
	// the directory's contents rather than nesting the directory inside the
	// destination.
	if isDir {
		args = append(args, "--recursive")
		for _, pattern := range MergeExcludes(p.project.Exclude, req.Server.Exclude) {
			args = append(args, "--exclude="+pattern)
		}
		localPath = withTrailingSeparator(localPath)
		remotePath = withTrailingSlash(remotePath)
	}

	if req.Action == Put {
		args = append(args, ownershipFlags(req.Server)...)
	}

	remote := fmt.Sprintf("%s:%s", endpoint.Address(), remotePath)
	plan := Plan{
		Binary: p.binary(),
		Args:   args,
	}
	switch req.Action {
	case Put:
		plan.Source, plan.Destination = localPath, remote
	case Pull:
		plan.Source, plan.Destination = remote, localPath
	default:
		return Plan{}, fmt.Errorf("unknown action %q", req.Action)
	}

	log.WithFields(log.Fields{
		"action": req.Action,
		"server": req.Server.Name,
		"plan":   plan.String(),
	}).Debug("Planned transfer")
	return plan, nil
}

// isDir reports whether the local side of the transfer is a directory. Files
// being sent must exist. Pull targets may not exist yet, in which case a
// trailing separator marks a directory.
func (p Planner) isDir(action Action, localPath string) (bool, error) {
	info, err := fs.Stat(localPath)
	switch {
	case err == nil:
		return info.IsDir(), nil
	case !os.IsNotExist(err):
		return false, errors.WithContext(err, "stat local path")
	case action == Put:
		return false, errors.LocalFileMissing{Path: localPath}
	default:
		return hasTrailingSeparator(localPath), nil
	}
}

func (p Planner) remotePath(req Request) (string, error) {
	if req.RemotePath != "" {
		return ResolveRemote(req.RemotePath, req.Server)
	}
	return MapToRemote(req.LocalPath, p.project.Root, req.Server)
}

func (p Planner) binary() string {
	if binary, ok := p.project.RsyncBinary[p.goos]; ok && binary != "" {
		return binary
	}
	return DefaultBinary
}

// remoteShell returns the ssh command rsync should use to reach `endpoint`,
// or an empty string if plain ssh will do.
func remoteShell(endpoint config.SSHEndpoint) string {
	rsh := []string{"ssh"}
	if endpoint.Key != "" {
		rsh = append(rsh, "-i", endpoint.Key)
	}
	if endpoint.Port != 0 && endpoint.Port != config.DefaultSSHPort {
		rsh = append(rsh, "-p", strconv.Itoa(endpoint.Port))
	}

	if len(rsh) == 1 {
		return ""
	}
	return shellquote.Join(rsh...)
}

// ownershipFlags makes rsync set the owner and group of transferred files.
// rsync ignores --chown unless --owner and --group are passed too.
func ownershipFlags(server config.Server) []string {
	if server.User == "" && server.Group == "" {
		return nil
	}

	chown := server.User
	if server.Group != "" {
		chown = strings.Join([]string{server.User, server.Group}, ":")
	}
	return []string{"--owner", "--group", "--chown=" + chown}
}
