package docker

import (
	"reflect"
	"testing"

	"github.com/kubelab/playground/internal/spec"
)

func TestLabelsFor(t *testing.T) {
	got := labelsFor("kb", spec.Machine{Name: "kb-worker-0", Role: spec.RoleWorker})
	want := map[string]string{
		"playground.cluster": "kb",
		"playground.machine": "kb-worker-0",
		"playground.role":    "worker",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("labelsFor() = %v, want %v", got, want)
	}
}

func TestMachineImage(t *testing.T) {
	c := &spec.Cluster{Spec: spec.ClusterSpec{Box: spec.DefaultBox}}
	if _, err := machineImage(c); err == nil {
		t.Error("machineImage() with vagrant default box = nil error, want error")
	}
	c.Spec.Box = "ghcr.io/example/node-sshd:24.04"
	img, err := machineImage(c)
	if err != nil {
		t.Fatal(err)
	}
	if img != c.Spec.Box {
		t.Errorf("machineImage() = %q, want %q", img, c.Spec.Box)
	}
}
