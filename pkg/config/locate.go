package config

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/8cylinder/toolbox/pkg/errors"
)

// Locate looks for `filename` in `start` and then in each of its parents, and
// returns the path of the first match. If the filesystem root is reached
// without a match, it returns errors.ConfigNotFound.
//
// The walk is lexical: parents are found by trimming path components rather
// than following "..", so symlinked directories can't make it loop.
func Locate(filename, start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.WithContext(err, "get absolute path")
	}

	for {
		candidate := filepath.Join(dir, filename)
		info, err := fs.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			log.WithField("path", candidate).Debug("Found config file")
			return candidate, nil
		case err != nil && !os.IsNotExist(err):
			return "", errors.WithContext(err, "stat")
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.ConfigNotFound{Filename: filename, Start: start}
		}
		dir = parent
	}
}
