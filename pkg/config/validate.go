package config

import (
	"net"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/8cylinder/toolbox/pkg/errors"
)

// homedirExpand will be overridden in mock tests
var homedirExpand = homedir.Expand

// platformAliases maps legacy platform names onto Go's.
var platformAliases = map[string]string{
	"win32": "windows",
}

var knownPlatforms = map[string]bool{
	"aix": true, "android": true, "darwin": true, "dragonfly": true,
	"freebsd": true, "illumos": true, "ios": true, "js": true, "linux": true,
	"netbsd": true, "openbsd": true, "plan9": true, "solaris": true,
	"wasip1": true, "windows": true,
}

// validator accumulates violations so that they can all be reported at once.
type validator struct {
	violations []errors.Violation
}

func (v *validator) add(field, value, reason string) {
	v.violations = append(v.violations, errors.Violation{
		Field:  field,
		Value:  value,
		Reason: reason,
	})
}

func (v *validator) required(field, value string) string {
	if strings.TrimSpace(value) == "" {
		v.add(field, "", "is required")
	}
	return value
}

// directory checks that `dir` is an existing absolute directory.
func (v *validator) directory(field, dir string) (string, bool) {
	if dir == "" {
		v.add(field, "", "is required")
		return "", false
	}

	if !filepath.IsAbs(dir) {
		v.add(field, dir, "must be an absolute path")
		return dir, false
	}

	dir = filepath.Clean(dir)
	info, err := fs.Stat(dir)
	switch {
	case os.IsNotExist(err):
		v.add(field, dir, "directory does not exist")
		return dir, false
	case err != nil:
		v.add(field, dir, err.Error())
		return dir, false
	case !info.IsDir():
		v.add(field, dir, "is not a directory")
		return dir, false
	}
	return dir, true
}

func (v *validator) rsyncBinary(binaries map[string]string) map[string]string {
	if len(binaries) == 0 {
		return nil
	}

	// Iterate in sorted order so that violations are reported
	// deterministically.
	var platforms []string
	for platform := range binaries {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	normalized := map[string]string{}
	for _, platform := range platforms {
		binary := binaries[platform]
		field := "project.rsync_binary." + platform
		if alias, ok := platformAliases[platform]; ok {
			platform = alias
		}

		if !knownPlatforms[platform] {
			v.add(field, platform, "unknown platform")
			continue
		}
		if strings.TrimSpace(binary) == "" {
			v.add(field, "", "binary must not be empty")
			continue
		}
		normalized[platform] = binary
	}
	return normalized
}

func (v *validator) patterns(field string, patterns []string) []string {
	for _, pattern := range patterns {
		if pattern == "" {
			v.add(field, "", "exclude patterns must not be empty")
			continue
		}
		if _, err := filepath.Match(pattern, ""); err != nil {
			v.add(field, pattern, "invalid glob pattern")
		}
	}
	return patterns
}

// host checks that `host` is an IP address or a valid DNS name.
func (v *validator) host(field, host string) string {
	switch {
	case host == "":
		v.add(field, "", "is required")
	case net.ParseIP(host) != nil:
	case len(validation.IsDNS1123Subdomain(strings.ToLower(host))) != 0:
		v.add(field, host, "must be an IP address or host name")
	}
	return host
}

// keyFile checks that the SSH key, if given, exists and is a file.
func (v *validator) keyFile(field, root string, rootOK bool, key string) string {
	if key == "" {
		return ""
	}

	resolved, ok := v.resolve(field, root, rootOK, key)
	if !ok {
		return key
	}

	info, err := fs.Stat(resolved)
	switch {
	case os.IsNotExist(err):
		v.add(field, resolved, "key file does not exist")
	case err != nil:
		v.add(field, resolved, err.Error())
	case info.IsDir():
		v.add(field, resolved, "key must be a file")
	}
	return resolved
}

func (v *validator) httpURL(field, raw string) {
	if raw == "" {
		return
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.add(field, raw, "must be an http or https URL")
	}
}
