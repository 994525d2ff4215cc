package ansible

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/kubelab/playground/internal/spec"
	"github.com/kubelab/playground/internal/workdir"
)

func testCluster(t *testing.T) *spec.Cluster {
	t.Helper()
	c := &spec.Cluster{
		Kind:     "Cluster",
		Metadata: spec.Metadata{Name: "kb"},
		Dir:      t.TempDir(),
		Spec: spec.ClusterSpec{
			CertificateAuthority: spec.CAExternal,
			Machines: []spec.Machine{
				{Role: spec.RoleControlPlane},
				{Role: spec.RoleControlPlane},
				{Role: spec.RoleWorker},
				{Role: spec.RoleEtcd},
			},
		},
	}
	if err := c.Normalize(); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestWriteAssets(t *testing.T) {
	c := testCluster(t)
	d, err := workdir.For(c)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(d, "playbooks", io.Discard)
	if err := r.WriteAssets(c); err != nil {
		t.Fatal(err)
	}

	inv, err := os.ReadFile(d.Path(workdir.Inventory))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"kb-control-plane-0 ansible_host=",
		"kb-control-plane-1 ansible_host=",
		"[etcd]\nkb-etcd-0 ansible_host=",
		"external_etcd=true",
		"external_ca=true",
		"high_availability=true",
	} {
		if !strings.Contains(string(inv), want) {
			t.Errorf("inventory missing %q:\n%s", want, inv)
		}
	}

	cfg, err := os.ReadFile(d.Path(workdir.AnsibleCfg))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"inventory = " + d.Path(workdir.Inventory),
		"ssh_args = -F " + d.Path(workdir.SSHConfig),
	} {
		if !strings.Contains(string(cfg), want) {
			t.Errorf("ansible.cfg missing %q:\n%s", want, cfg)
		}
	}
}
