package transfer

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/8cylinder/toolbox/pkg/config"
	"github.com/8cylinder/toolbox/pkg/errors"
)

// MapToRemote returns the path on `server` that corresponds to `localPath`.
// The local path must be absolute and inside `projectRoot`; its position
// relative to the project root is reproduced under the server's root. A
// trailing separator on the local path is kept.
func MapToRemote(localPath, projectRoot string, server config.Server) (string, error) {
	if server.Root == "" {
		return "", errors.ServerMissingRoot{Server: server.Name}
	}

	rel, err := relativeToRoot(localPath, projectRoot)
	if err != nil {
		return "", err
	}

	remote := path.Join(server.Root, filepath.ToSlash(rel))
	if hasTrailingSeparator(localPath) {
		remote = withTrailingSlash(remote)
	}
	return remote, nil
}

// ResolveRemote returns `remotePath` as an absolute path on `server`.
// Relative paths are taken from the server's root.
func ResolveRemote(remotePath string, server config.Server) (string, error) {
	if path.IsAbs(remotePath) {
		return path.Clean(remotePath), nil
	}
	if server.Root == "" {
		return "", errors.ServerMissingRoot{Server: server.Name}
	}
	return path.Join(server.Root, remotePath), nil
}

func relativeToRoot(localPath, projectRoot string) (string, error) {
	notUnderRoot := errors.PathNotUnderProjectRoot{Path: localPath, Root: projectRoot}
	if !filepath.IsAbs(localPath) || !filepath.IsAbs(projectRoot) {
		return "", notUnderRoot
	}

	rel, err := filepath.Rel(filepath.Clean(projectRoot), filepath.Clean(localPath))
	if err != nil {
		return "", notUnderRoot
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", notUnderRoot
	}
	return rel, nil
}

func hasTrailingSeparator(p string) bool {
	return len(p) > 1 && os.IsPathSeparator(p[len(p)-1])
}

func withTrailingSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

func withTrailingSeparator(p string) string {
	if hasTrailingSeparator(p) {
		return p
	}
	return p + string(filepath.Separator)
}
