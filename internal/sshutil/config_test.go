package sshutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveHost(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "ssh_config")
	err := os.WriteFile(cfg, []byte(`
Host kb-control-plane-0
  HostName 127.0.0.1
  User vagrant
  Port 2222
  IdentityFile /tmp/kb/private_key

Host kb-worker-0
  HostName 10.10.10.11
`), 0o644)
	require.NoError(t, err)

	h, err := ResolveHost(cfg, "kb-control-plane-0")
	require.NoError(t, err)
	require.Equal(t, Host{
		Name:         "kb-control-plane-0",
		HostName:     "127.0.0.1",
		User:         "vagrant",
		Port:         "2222",
		IdentityFile: "/tmp/kb/private_key",
	}, h)

	h, err = ResolveHost(cfg, "kb-worker-0")
	require.NoError(t, err)
	require.Equal(t, "10.10.10.11", h.HostName)
	require.Equal(t, "22", h.Port)
	require.Empty(t, h.IdentityFile, "IdentityFile must not fall back to the OpenSSH default")

	h, err = ResolveHost(cfg, "not-in-config")
	require.NoError(t, err)
	require.Equal(t, "not-in-config", h.HostName)
}

func TestResolveHostMissingFile(t *testing.T) {
	_, err := ResolveHost(filepath.Join(t.TempDir(), "nope"), "m")
	require.Error(t, err)
}
