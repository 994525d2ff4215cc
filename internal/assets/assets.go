// Package assets embeds the templates rendered into the cluster workdir for
// the external tools to consume.
package assets

import (
	"embed"
	"fmt"
)

//go:embed templates
var templates embed.FS

// Template names.
const (
	Vagrantfile = "Vagrantfile"
	Inventory   = "inventory"
	AnsibleCfg  = "ansible.cfg"
	SSHConfig   = "ssh_config"
)

// Template returns the raw template source for a workdir asset.
func Template(name string) (string, error) {
	b, err := templates.ReadFile("templates/" + name + ".tmpl")
	if err != nil {
		return "", fmt.Errorf("embedded template %s: %w", name, err)
	}
	return string(b), nil
}
