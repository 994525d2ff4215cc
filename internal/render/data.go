package render

import "github.com/kubelab/playground/internal/spec"

// ClusterData builds the template context shared by all asset templates.
func ClusterData(c *spec.Cluster) map[string]any {
	return map[string]any{
		"cluster": map[string]any{
			"name":                 c.Metadata.Name,
			"box":                  c.Spec.Box,
			"networkCIDR":          c.Spec.NetworkCIDR,
			"podSubnet":            c.Spec.PodSubnet,
			"serviceSubnet":        c.Spec.ServiceSubnet,
			"kubernetesVersion":    c.Spec.KubernetesVersion,
			"apiServerEndpoint":    c.Spec.APIServerEndpoint,
			"certificateAuthority": c.Spec.CertificateAuthority,
			"externalEtcd":         c.ExternalEtcd(),
			"externalCA":           c.ExternalCA(),
			"highAvailability":     c.HighAvailability(),
		},
		"machines":      machineMaps(c.Spec.Machines),
		"controlPlanes": machineMaps(c.ControlPlanes()),
		"workers":       machineMaps(c.Workers()),
		"etcd":          machineMaps(c.EtcdMembers()),
	}
}

func machineMaps(ms []spec.Machine) []map[string]any {
	out := make([]map[string]any, 0, len(ms))
	for _, m := range ms {
		out = append(out, map[string]any{
			"name":     m.Name,
			"role":     string(m.Role),
			"cpus":     m.CPUs,
			"memoryMB": m.MemoryMB,
			"address":  m.Address,
		})
	}
	return out
}
