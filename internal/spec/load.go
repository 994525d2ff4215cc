package spec

import (
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBox           = "bento/ubuntu-24.04"
	defaultNetworkCIDR   = "10.10.10.0/24"
	defaultPodSubnet     = "192.168.0.0/16"
	defaultServiceSubnet = "10.96.0.0/12"
	defaultVersion       = "stable"
	defaultCPUs          = 2
	defaultMemoryMB      = 2048

	// First host offset handed out when a machine declares no address.
	// Low offsets stay free for the hypervisor's own interfaces.
	addressOffset = 10
)

// Load reads, normalizes and validates a cluster specification.
func Load(path string) (*Cluster, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	var c Cluster
	if err = yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if !strings.EqualFold(c.Kind, "Cluster") {
		return nil, fmt.Errorf("%s: not a Cluster kind", path)
	}
	c.Dir = filepath.Dir(abs)
	if err = c.Normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err = c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// Normalize fills defaults: box, subnets, CA mode, machine names, sizes and
// addresses allocated from the network CIDR.
func (c *Cluster) Normalize() error {
	s := &c.Spec
	s.KubernetesVersion = ifEmpty(s.KubernetesVersion, defaultVersion)
	s.Box = ifEmpty(s.Box, DefaultBox)
	s.NetworkCIDR = ifEmpty(s.NetworkCIDR, defaultNetworkCIDR)
	s.PodSubnet = ifEmpty(s.PodSubnet, defaultPodSubnet)
	s.ServiceSubnet = ifEmpty(s.ServiceSubnet, defaultServiceSubnet)
	s.CertificateAuthority = ifEmpty(strings.ToLower(s.CertificateAuthority), CALocal)

	for i := range s.Machines {
		m := &s.Machines[i]
		m.Role = normalizeRole(m.Role)
		if m.CPUs == 0 {
			m.CPUs = defaultCPUs
		}
		if m.MemoryMB == 0 {
			m.MemoryMB = defaultMemoryMB
		}
	}
	c.defaultNames()
	if err := c.allocateAddresses(); err != nil {
		return err
	}
	if s.APIServerEndpoint == "" {
		if cp := c.ControlPlanes(); len(cp) > 0 {
			s.APIServerEndpoint = cp[0].Address
		}
	}
	return nil
}

func (c *Cluster) defaultNames() {
	counts := map[Role]int{}
	for i := range c.Spec.Machines {
		m := &c.Spec.Machines[i]
		n := counts[m.Role]
		counts[m.Role] = n + 1
		if m.Name == "" {
			m.Name = fmt.Sprintf("%s-%s-%d", c.Metadata.Name, m.Role, n)
		}
	}
}

func (c *Cluster) allocateAddresses() error {
	prefix, err := netip.ParsePrefix(c.Spec.NetworkCIDR)
	if err != nil {
		return fmt.Errorf("networkCIDR: %w", err)
	}
	used := map[string]struct{}{}
	for _, m := range c.Spec.Machines {
		if m.Address != "" {
			used[m.Address] = struct{}{}
		}
	}
	next := prefix.Addr()
	for i := 0; i < addressOffset; i++ {
		next = next.Next()
	}
	for i := range c.Spec.Machines {
		m := &c.Spec.Machines[i]
		if m.Address != "" {
			continue
		}
		for {
			if !prefix.Contains(next) {
				return fmt.Errorf("networkCIDR %s exhausted allocating address for %s", c.Spec.NetworkCIDR, m.Name)
			}
			if _, taken := used[next.String()]; !taken {
				break
			}
			next = next.Next()
		}
		m.Address = next.String()
		used[m.Address] = struct{}{}
		next = next.Next()
	}
	return nil
}

// Validate checks the normalized spec for contradictions.
func (c *Cluster) Validate() error {
	if c.Metadata.Name == "" {
		return fmt.Errorf("metadata.name is required")
	}
	if len(c.Spec.Machines) == 0 {
		return fmt.Errorf("spec.machines is empty")
	}
	switch c.Spec.CertificateAuthority {
	case CALocal, CAExternal:
	default:
		return fmt.Errorf("certificateAuthority %q: must be %q or %q", c.Spec.CertificateAuthority, CALocal, CAExternal)
	}
	names := map[string]struct{}{}
	addrs := map[string]struct{}{}
	for _, m := range c.Spec.Machines {
		switch m.Role {
		case RoleControlPlane, RoleWorker, RoleEtcd:
		default:
			return fmt.Errorf("machine %s: unknown role %q", m.Name, m.Role)
		}
		if _, dup := names[m.Name]; dup {
			return fmt.Errorf("duplicate machine name %q", m.Name)
		}
		names[m.Name] = struct{}{}
		if _, dup := addrs[m.Address]; dup {
			return fmt.Errorf("machine %s: address %s already assigned", m.Name, m.Address)
		}
		addrs[m.Address] = struct{}{}
		if _, err := netip.ParseAddr(m.Address); err != nil {
			return fmt.Errorf("machine %s: address %q: %w", m.Name, m.Address, err)
		}
	}
	cp := len(c.ControlPlanes())
	if cp == 0 {
		return fmt.Errorf("at least one %s machine is required", RoleControlPlane)
	}
	if c.Spec.HighAvailability && cp < 2 {
		return fmt.Errorf("highAvailability requires more than one %s machine, got %d", RoleControlPlane, cp)
	}
	return nil
}

func normalizeRole(r Role) Role {
	switch Role(strings.ToLower(string(r))) {
	case "master", "controlplane", RoleControlPlane:
		return RoleControlPlane
	case "node", RoleWorker, "":
		return RoleWorker
	case RoleEtcd:
		return RoleEtcd
	default:
		return Role(strings.ToLower(string(r)))
	}
}

func ifEmpty(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
