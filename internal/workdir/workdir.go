// Package workdir manages the per-cluster state directory holding the
// rendered assets the external tools consume: Vagrantfile, inventory,
// ansible.cfg, ssh_config, and the spec fingerprint used for drift checks.
package workdir

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/kubelab/playground/internal/spec"
	"github.com/kubelab/playground/internal/util"
)

const (
	dirName         = ".playground"
	fingerprintFile = "spec.fingerprint"

	// Asset file names, shared between drivers and the ansible runner.
	Vagrantfile = "Vagrantfile"
	Inventory   = "inventory"
	AnsibleCfg  = "ansible.cfg"
	SSHConfig   = "ssh_config"
)

type Dir struct {
	path string
}

// For opens (and creates if needed) the state dir for a cluster:
// <spec dir>/.playground/<cluster name>.
func For(c *spec.Cluster) (Dir, error) {
	p := filepath.Join(c.Dir, dirName, c.Metadata.Name)
	if err := os.MkdirAll(p, 0o755); err != nil {
		return Dir{}, err
	}
	return Dir{path: p}, nil
}

func (d Dir) Path(elem ...string) string {
	return filepath.Join(append([]string{d.path}, elem...)...)
}

func (d Dir) WriteFile(name string, data []byte) error {
	return os.WriteFile(d.Path(name), data, 0o644)
}

// Remove deletes the state dir and, when empty afterwards, the shared
// .playground parent.
func (d Dir) Remove() error {
	if err := os.RemoveAll(d.path); err != nil {
		return err
	}
	parent := filepath.Dir(d.path)
	if entries, err := os.ReadDir(parent); err == nil && len(entries) == 0 {
		return os.Remove(parent)
	}
	return nil
}

// RecordFingerprint stores the digest of the normalized cluster spec.
func (d Dir) RecordFingerprint(c *spec.Cluster) error {
	fp, err := util.FingerprintJSON(c.Spec)
	if err != nil {
		return err
	}
	return os.WriteFile(d.Path(fingerprintFile), []byte(fp+"\n"), 0o644)
}

// Drifted reports whether the cluster spec changed since the last recorded
// fingerprint. A missing record is not drift.
func (d Dir) Drifted(c *spec.Cluster) (bool, error) {
	b, err := os.ReadFile(d.Path(fingerprintFile))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	fp, err := util.FingerprintJSON(c.Spec)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(b)) != fp, nil
}
