package docker

import (
	"fmt"

	"github.com/kubelab/playground/internal/spec"
)

// Labels marking containers owned by this tool.
const (
	labelCluster = "playground.cluster"
	labelMachine = "playground.machine"
	labelRole    = "playground.role"
)

func labelsFor(cluster string, m spec.Machine) map[string]string {
	return map[string]string{
		labelCluster: cluster,
		labelMachine: m.Name,
		labelRole:    string(m.Role),
	}
}

// machineImage maps the spec box to a container image. The vagrant default
// box is not a pullable image, so the docker driver requires an explicit one.
func machineImage(c *spec.Cluster) (string, error) {
	if c.Spec.Box == "" || c.Spec.Box == spec.DefaultBox {
		return "", fmt.Errorf("the docker driver requires spec.box to name a container image running sshd")
	}
	return c.Spec.Box, nil
}
