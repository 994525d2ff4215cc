package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kubelab/playground/internal/ansible"
)

// writeSpecFile drops a minimal cluster spec into a fresh temp dir and
// returns its path. The workdir lands under the same dir.
func writeSpecFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "playground.yaml")
	data := `kind: Cluster
metadata:
  name: kb
spec:
  machines:
    - role: control-plane
    - role: worker
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRequireAnsibleFallback(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	for _, command := range []string{"exec", "e2e", "deploy"} {
		err := requireAnsible(command)
		if !errors.Is(err, ansible.ErrUnavailable) {
			t.Errorf("requireAnsible(%q) = %v, want ErrUnavailable", command, err)
			continue
		}
		for _, want := range []string{command, "fallback mode", "status", "ssh", "stop", "delete"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("requireAnsible(%q) error missing %q: %v", command, want, err)
			}
		}
	}
}

func TestRequireAnsibleFound(t *testing.T) {
	bin := t.TempDir()
	tool := filepath.Join(bin, "ansible-playbook")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", bin)
	if err := requireAnsible("exec"); err != nil {
		t.Errorf("requireAnsible() with tool on PATH = %v, want nil", err)
	}
}

func TestPlaybookCommandsFailFastWithoutAnsible(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	specFile := writeSpecFile(t)
	for _, args := range [][]string{
		{"exec", "--spec", specFile, "kubeadm-init"},
		{"e2e", "--spec", specFile},
		{"deploy", "--spec", specFile},
	} {
		_, err := runCommand(t, args...)
		if !errors.Is(err, ansible.ErrUnavailable) {
			t.Errorf("%s without ansible-playbook = %v, want ErrUnavailable", args[0], err)
		}
	}
}
