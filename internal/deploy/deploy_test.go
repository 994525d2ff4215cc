package deploy

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kubelab/playground/internal/spec"
)

func TestValidateTargets(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []Target
		wantErr bool
	}{
		{name: "default", args: nil, want: []Target{TargetKubeadm}},
		{name: "explicit", args: []string{"kubelet", "kubectl"}, want: []Target{TargetKubelet, TargetKubectl}},
		{name: "all expands", args: []string{"all"}, want: []Target{TargetKubeadm, TargetKubelet, TargetKubectl}},
		{name: "case folded", args: []string{"Kubeadm"}, want: []Target{TargetKubeadm}},
		{name: "unknown", args: []string{"etcd"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTargets(tt.args)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownTarget) {
					t.Errorf("ValidateTargets() error = %v, want ErrUnknownTarget", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ValidateTargets() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMachinesFor(t *testing.T) {
	c := &spec.Cluster{
		Kind:     "Cluster",
		Metadata: spec.Metadata{Name: "kb"},
		Spec: spec.ClusterSpec{
			Machines: []spec.Machine{
				{Role: spec.RoleControlPlane},
				{Role: spec.RoleWorker},
				{Role: spec.RoleEtcd},
			},
		},
	}
	if err := c.Normalize(); err != nil {
		t.Fatal(err)
	}

	names := func(ms []spec.Machine) []string {
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.Name)
		}
		return out
	}

	if got := names(machinesFor(c, TargetKubeadm)); !reflect.DeepEqual(got, []string{"kb-control-plane-0"}) {
		t.Errorf("machinesFor(kubeadm) = %v", got)
	}
	want := []string{"kb-control-plane-0", "kb-worker-0"}
	if got := names(machinesFor(c, TargetKubelet)); !reflect.DeepEqual(got, want) {
		t.Errorf("machinesFor(kubelet) = %v, want %v", got, want)
	}
}

func TestArtifactLookup(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "kubeadm"), []byte("#!"), 0o755); err != nil {
		t.Fatal(err)
	}
	d := &Deployer{Artifacts: dir}
	if _, err := d.artifact(TargetKubeadm); err != nil {
		t.Errorf("artifact(kubeadm) = %v, want nil", err)
	}
	if _, err := d.artifact(TargetKubelet); err == nil {
		t.Error("artifact(kubelet) = nil, want error for missing binary")
	}
}

func TestRevisionOutsideRepo(t *testing.T) {
	if rev := Revision(t.TempDir()); rev != "" {
		t.Errorf("Revision(non-repo) = %q, want empty", rev)
	}
	if rev := Revision(""); rev != "" {
		t.Errorf(`Revision("") = %q, want empty`, rev)
	}
}
