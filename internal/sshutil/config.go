// Package sshutil resolves machine connection settings from the generated
// ssh_config and provides a programmatic SSH surface for deploys.
package sshutil

import (
	"fmt"
	"os"

	"github.com/kevinburke/ssh_config"
)

// Host is the resolved connection endpoint for one machine.
type Host struct {
	Name         string
	HostName     string
	User         string
	Port         string
	IdentityFile string
}

// ResolveHost reads a generated ssh_config and resolves the settings for one
// Host alias, falling back to OpenSSH defaults.
func ResolveHost(configPath, name string) (Host, error) {
	b, err := os.ReadFile(configPath)
	if err != nil {
		return Host{}, fmt.Errorf("ssh config: %w", err)
	}
	cfg, err := ssh_config.DecodeBytes(b)
	if err != nil {
		return Host{}, fmt.Errorf("ssh config %s: %w", configPath, err)
	}
	get := func(key string) string {
		v, _ := cfg.Get(name, key)
		if v == "" {
			v = ssh_config.Default(key)
		}
		return v
	}
	// IdentityFile deliberately skips the OpenSSH default; an absent value
	// means agent auth, not ~/.ssh/identity.
	identity, _ := cfg.Get(name, "IdentityFile")
	h := Host{
		Name:         name,
		HostName:     get("HostName"),
		User:         get("User"),
		Port:         get("Port"),
		IdentityFile: identity,
	}
	if h.HostName == "" {
		h.HostName = name
	}
	if h.Port == "" {
		h.Port = "22"
	}
	return h, nil
}
