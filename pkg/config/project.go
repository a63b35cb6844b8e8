package config

import (
	"fmt"
	"path"
	"path/filepath"
	"strconv"

	"github.com/8cylinder/toolbox/pkg/errors"
)

// DefaultSSHPort is used for SSH entries that don't set a port.
const DefaultSSHPort = 22

// Project is a validated toolbox.yaml. It's built once by Build and must be
// treated as read-only afterwards.
type Project struct {
	Name string

	// Root is the absolute path of the directory containing the config file.
	Root string

	// PullsDir is absolute. Relative values in the config are resolved
	// against Root.
	PullsDir string

	// RsyncBinary maps a platform (as in runtime.GOOS) to the rsync binary to
	// use on it.
	RsyncBinary map[string]string

	Difftool string
	Exclude  []string
	Servers  []Server
	Requires string
}

// Server is a named remote target.
type Server struct {
	Name string

	// Root is the directory on the server that the project root maps onto.
	Root string

	Group         string
	User          string
	Exclude       []string
	Note          string
	SSH           []SSHEndpoint
	MySQL         []MySQL
	Hosting       []Hosting
	ControlPanels []ControlPanel
	URLs          []SiteURL
}

// SSHEndpoint is a way of logging in to a server.
type SSHEndpoint struct {
	Username string
	Password string
	Server   string
	Key      string
	Port     int
}

// Address returns the `user@host` form of the endpoint.
func (e SSHEndpoint) Address() string {
	return fmt.Sprintf("%s@%s", e.Username, e.Server)
}

// FindServer returns the server called `name`. Names are matched exactly.
func (p Project) FindServer(name string) (Server, error) {
	for _, server := range p.Servers {
		if server.Name == name {
			return server, nil
		}
	}
	return Server{}, errors.ServerNotFound{Name: name, Available: p.ServerNames()}
}

// ServerNames returns the names of all servers in config order.
func (p Project) ServerNames() []string {
	var names []string
	for _, server := range p.Servers {
		names = append(names, server.Name)
	}
	return names
}

// Build validates `fields` and assembles them into a Project. Every problem
// found is reported together in a single errors.ValidationError.
func Build(fields Fields) (Project, error) {
	v := &validator{}

	root, rootOK := v.directory("project.root", fields.Root)
	project := Project{
		Name:        v.required("project.name", fields.Project.Name),
		Root:        root,
		PullsDir:    v.pullsDir(root, rootOK, fields.Project.PullsDir),
		RsyncBinary: v.rsyncBinary(fields.Project.RsyncBinary),
		Difftool:    fields.Project.Difftool,
		Exclude:     v.patterns("project.exclude", fields.Project.Exclude),
		Requires:    fields.Requires,
	}

	seen := map[string]bool{}
	for i, section := range fields.Servers {
		if section.Name == "" {
			v.add(fmt.Sprintf("servers[%d]", i), "", "server name must not be empty")
			continue
		}
		if seen[section.Name] {
			v.add("servers."+section.Name, "", "duplicate server name")
			continue
		}
		seen[section.Name] = true
		project.Servers = append(project.Servers, v.server(root, rootOK, section))
	}

	if len(v.violations) != 0 {
		return Project{}, errors.ValidationError{
			Path:       fields.Path,
			Violations: v.violations,
		}
	}
	return project, nil
}

func (v *validator) server(root string, rootOK bool, section ServerSection) Server {
	field := "servers." + section.Name
	server := Server{
		Name:    section.Name,
		Group:   section.Group,
		User:    section.User,
		Note:    section.Note,
		Exclude: v.patterns(field+".exclude", section.Exclude),
		MySQL:   section.MySQL,
	}
	if section.Root != "" {
		server.Root = path.Clean(section.Root)
	}

	for i, ssh := range section.SSH {
		server.SSH = append(server.SSH,
			v.sshEndpoint(fmt.Sprintf("%s.ssh[%d]", field, i), root, rootOK, ssh))
	}

	for i, hosting := range section.Hosting {
		v.httpURL(fmt.Sprintf("%s.hosting[%d].url", field, i), hosting.URL)
		server.Hosting = append(server.Hosting, hosting)
	}

	for i, panel := range section.ControlPanel {
		v.httpURL(fmt.Sprintf("%s.control_panel[%d].url", field, i), panel.URL)
		server.ControlPanels = append(server.ControlPanels, panel)
	}

	for i, site := range section.URLs {
		v.httpURL(fmt.Sprintf("%s.urls[%d].url", field, i), site.URL)
		v.httpURL(fmt.Sprintf("%s.urls[%d].admin_url", field, i), site.AdminURL)
		server.URLs = append(server.URLs, site)
	}
	return server
}

func (v *validator) sshEndpoint(field, root string, rootOK bool, section SSHSection) SSHEndpoint {
	endpoint := SSHEndpoint{
		Username: v.required(field+".username", section.Username),
		Password: section.Password,
		Server:   v.host(field+".server", section.Server),
		Key:      v.keyFile(field+".key", root, rootOK, section.Key),
		Port:     DefaultSSHPort,
	}

	if section.Port != nil {
		port := *section.Port
		if port < 1 || port > 65535 {
			v.add(field+".port", strconv.Itoa(port), "must be between 1 and 65535")
		}
		endpoint.Port = port
	}
	return endpoint
}

// resolve makes `p` absolute, expanding a leading ~ and treating relative
// paths as relative to the project root. The second return value is false if
// the path couldn't be resolved, in which case a violation has been recorded
// if needed.
func (v *validator) resolve(field, root string, rootOK bool, p string) (string, bool) {
	expanded, err := homedirExpand(p)
	if err != nil {
		v.add(field, p, fmt.Sprintf("could not expand home directory: %s", err))
		return "", false
	}

	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), true
	}

	// The root already has its own violation.
	if !rootOK {
		return "", false
	}
	return filepath.Join(root, expanded), true
}

func (v *validator) pullsDir(root string, rootOK bool, pullsDir string) string {
	if pullsDir == "" {
		return ""
	}

	resolved, _ := v.resolve("project.pulls_dir", root, rootOK, pullsDir)
	return resolved
}
