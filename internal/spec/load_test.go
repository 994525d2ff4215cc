package spec

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeSpec(t *testing.T, doc string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "playground.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeSpec(t, `
apiVersion: playground/v1
kind: Cluster
metadata:
  name: kb
spec:
  machines:
    - role: control-plane
    - role: worker
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Spec.Box != DefaultBox {
		t.Errorf("box = %q, want %q", c.Spec.Box, DefaultBox)
	}
	if c.Spec.CertificateAuthority != CALocal {
		t.Errorf("certificateAuthority = %q, want %q", c.Spec.CertificateAuthority, CALocal)
	}
	wantNames := []string{"kb-control-plane-0", "kb-worker-0"}
	wantAddrs := []string{"10.10.10.10", "10.10.10.11"}
	for i, m := range c.Spec.Machines {
		if m.Name != wantNames[i] {
			t.Errorf("machine %d name = %q, want %q", i, m.Name, wantNames[i])
		}
		if m.Address != wantAddrs[i] {
			t.Errorf("machine %d address = %q, want %q", i, m.Address, wantAddrs[i])
		}
		if m.CPUs != defaultCPUs || m.MemoryMB != defaultMemoryMB {
			t.Errorf("machine %d size = %d/%d, want defaults", i, m.CPUs, m.MemoryMB)
		}
	}
	if c.Spec.APIServerEndpoint != "10.10.10.10" {
		t.Errorf("apiServerEndpoint = %q, want first control plane address", c.Spec.APIServerEndpoint)
	}
}

func TestLoadRoleAliases(t *testing.T) {
	path := writeSpec(t, `
kind: Cluster
metadata:
  name: kb
spec:
  machines:
    - name: m0
      role: Master
    - name: n0
      role: node
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	got := []Role{c.Spec.Machines[0].Role, c.Spec.Machines[1].Role}
	want := []Role{RoleControlPlane, RoleWorker}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("roles = %v, want %v", got, want)
	}
}

func TestLoadAddressAllocationSkipsDeclared(t *testing.T) {
	path := writeSpec(t, `
kind: Cluster
metadata:
  name: kb
spec:
  machines:
    - role: control-plane
      address: 10.10.10.10
    - role: worker
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Spec.Machines[1].Address; got != "10.10.10.11" {
		t.Errorf("allocated address = %q, want 10.10.10.11", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "wrong kind",
			doc:     "kind: Playbook\nmetadata: {name: kb}\n",
			wantErr: "not a Cluster kind",
		},
		{
			name: "no machines",
			doc: `
kind: Cluster
metadata: {name: kb}
spec: {}
`,
			wantErr: "spec.machines is empty",
		},
		{
			name: "no control plane",
			doc: `
kind: Cluster
metadata: {name: kb}
spec:
  machines:
    - role: worker
`,
			wantErr: "at least one control-plane machine",
		},
		{
			name: "duplicate names",
			doc: `
kind: Cluster
metadata: {name: kb}
spec:
  machines:
    - {name: a, role: control-plane}
    - {name: a, role: worker}
`,
			wantErr: "duplicate machine name",
		},
		{
			name: "duplicate addresses",
			doc: `
kind: Cluster
metadata: {name: kb}
spec:
  machines:
    - {name: a, role: control-plane, address: 10.10.10.10}
    - {name: b, role: worker, address: 10.10.10.10}
`,
			wantErr: "already assigned",
		},
		{
			name: "ha needs quorum",
			doc: `
kind: Cluster
metadata: {name: kb}
spec:
  highAvailability: true
  machines:
    - role: control-plane
`,
			wantErr: "highAvailability requires",
		},
		{
			name: "bad ca mode",
			doc: `
kind: Cluster
metadata: {name: kb}
spec:
  certificateAuthority: vault
  machines:
    - role: control-plane
`,
			wantErr: "certificateAuthority",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSpec(t, tt.doc))
			if err == nil {
				t.Fatalf("Load() succeeded, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestClusterDerivedAttributes(t *testing.T) {
	path := writeSpec(t, `
kind: Cluster
metadata:
  name: kb
spec:
  certificateAuthority: external
  machines:
    - role: control-plane
    - role: control-plane
    - role: worker
    - role: etcd
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !c.HighAvailability() {
		t.Error("HighAvailability() = false, want true")
	}
	if !c.ExternalEtcd() {
		t.Error("ExternalEtcd() = false, want true")
	}
	if !c.ExternalCA() {
		t.Error("ExternalCA() = false, want true")
	}
	if !c.HasWorkers() {
		t.Error("HasWorkers() = false, want true")
	}
	if _, ok := c.Machine("kb-etcd-0"); !ok {
		t.Error("Machine(kb-etcd-0) not found")
	}
}
