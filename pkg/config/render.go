package config

import (
	"github.com/ghodss/yaml"

	"github.com/8cylinder/toolbox/pkg/errors"
)

// Render serializes a project back into a config document. Paths in the
// output are the resolved ones. Servers are written sorted by name, so parsing
// the output from the project root gives back the same project except that its
// servers are in name order.
func Render(project Project) ([]byte, error) {
	doc := document{
		Requires: project.Requires,
		Project: ProjectSection{
			Name:        project.Name,
			PullsDir:    project.PullsDir,
			RsyncBinary: project.RsyncBinary,
			Difftool:    project.Difftool,
			Exclude:     project.Exclude,
		},
	}

	if len(project.Servers) != 0 {
		doc.Servers = map[string]ServerSection{}
	}
	for _, server := range project.Servers {
		section := ServerSection{
			Root:         server.Root,
			Group:        server.Group,
			User:         server.User,
			Exclude:      server.Exclude,
			Note:         server.Note,
			MySQL:        server.MySQL,
			Hosting:      server.Hosting,
			ControlPanel: server.ControlPanels,
			URLs:         server.URLs,
		}
		for _, endpoint := range server.SSH {
			port := endpoint.Port
			section.SSH = append(section.SSH, SSHSection{
				Username: endpoint.Username,
				Password: endpoint.Password,
				Server:   endpoint.Server,
				Key:      endpoint.Key,
				Port:     &port,
			})
		}
		doc.Servers[server.Name] = section
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.WithContext(err, "marshal")
	}
	return out, nil
}
