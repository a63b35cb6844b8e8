package config

import "sort"

// document is the on-disk layout of a toolbox.yaml. The yaml tags are used
// when parsing, and the json tags when rendering the document back out.
type document struct {
	// Requires is an optional version constraint on the toolbox binary.
	Requires string                   `yaml:"requires,omitempty" json:"requires,omitempty"`
	Project  ProjectSection           `yaml:"project" json:"project"`
	Servers  map[string]ServerSection `yaml:"servers,omitempty" json:"servers,omitempty"`
}

// ProjectSection is the `project` block of a config document.
type ProjectSection struct {
	Name        string            `yaml:"name" json:"name"`
	PullsDir    string            `yaml:"pulls_dir,omitempty" json:"pulls_dir,omitempty"`
	RsyncBinary map[string]string `yaml:"rsync_binary,omitempty" json:"rsync_binary,omitempty"`
	Difftool    string            `yaml:"difftool,omitempty" json:"difftool,omitempty"`
	Exclude     []string          `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// ServerSection is a single entry of the `servers` block. The name is the
// key the entry was listed under.
type ServerSection struct {
	Name         string         `yaml:"-" json:"-"`
	Root         string         `yaml:"root,omitempty" json:"root,omitempty"`
	Group        string         `yaml:"group,omitempty" json:"group,omitempty"`
	User         string         `yaml:"user,omitempty" json:"user,omitempty"`
	Exclude      []string       `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	Note         string         `yaml:"note,omitempty" json:"note,omitempty"`
	SSH          []SSHSection   `yaml:"ssh,omitempty" json:"ssh,omitempty"`
	MySQL        []MySQL        `yaml:"mysql,omitempty" json:"mysql,omitempty"`
	Hosting      []Hosting      `yaml:"hosting,omitempty" json:"hosting,omitempty"`
	ControlPanel []ControlPanel `yaml:"control_panel,omitempty" json:"control_panel,omitempty"`
	URLs         []SiteURL      `yaml:"urls,omitempty" json:"urls,omitempty"`
}

// SSHSection is an `ssh` entry of a server. Port is a pointer so that an
// explicit zero can be told apart from a missing port.
type SSHSection struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	Server   string `yaml:"server" json:"server"`
	Key      string `yaml:"key,omitempty" json:"key,omitempty"`
	Port     *int   `yaml:"port,omitempty" json:"port,omitempty"`
}

// MySQL holds database credentials for a server.
type MySQL struct {
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	DB       string `yaml:"db,omitempty" json:"db,omitempty"`
	Hostname string `yaml:"hostname,omitempty" json:"hostname,omitempty"`

	// Dump is where the server keeps its gzipped dump of the database.
	// Relative paths are taken from the server's root.
	Dump string `yaml:"dump,omitempty" json:"dump,omitempty"`
}

// DumpFile returns the server side path of the database dump. Without an
// explicit dump, it's named after the database, or after `project` if the
// database has no name.
func (m MySQL) DumpFile(project string) string {
	switch {
	case m.Dump != "":
		return m.Dump
	case m.DB != "":
		return m.DB + ".sql.gz"
	default:
		return project + ".sql.gz"
	}
}

// Hosting describes the hosting account a server belongs to.
type Hosting struct {
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	URL      string `yaml:"url,omitempty" json:"url,omitempty"`
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	Note     string `yaml:"note,omitempty" json:"note,omitempty"`
}

// ControlPanel describes a web control panel for a server.
type ControlPanel struct {
	URL      string `yaml:"url,omitempty" json:"url,omitempty"`
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	Note     string `yaml:"note,omitempty" json:"note,omitempty"`
}

// SiteURL describes a site served from a server.
type SiteURL struct {
	URL      string `yaml:"url,omitempty" json:"url,omitempty"`
	AdminURL string `yaml:"admin_url,omitempty" json:"admin_url,omitempty"`
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	Note     string `yaml:"note,omitempty" json:"note,omitempty"`
}

// Fields holds the raw values of a config document before validation.
type Fields struct {
	// Path is the config file the fields came from. It's only used in error
	// messages.
	Path string

	// Root is the project root, i.e. the directory containing the config file.
	Root string

	Requires string
	Project  ProjectSection
	Servers  []ServerSection
}

// fields flattens the document into Fields. Servers are listed in `order`,
// which is the order they appeared in the file. Any server missing from
// `order` is appended in sorted order.
func (doc document) fields(path, root string, order []string) Fields {
	f := Fields{
		Path:     path,
		Root:     root,
		Requires: doc.Requires,
		Project:  doc.Project,
	}

	seen := map[string]bool{}
	for _, name := range order {
		server, ok := doc.Servers[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		server.Name = name
		f.Servers = append(f.Servers, server)
	}

	var rest []string
	for name := range doc.Servers {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		server := doc.Servers[name]
		server.Name = name
		f.Servers = append(f.Servers, server)
	}
	return f
}
