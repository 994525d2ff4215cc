package spec

// Role classifies a playground machine.
type Role string

const (
	RoleControlPlane Role = "control-plane"
	RoleWorker       Role = "worker"
	RoleEtcd         Role = "etcd"
)

// CA modes. External means the CA key pair is provided by the operator and
// never lands on the control plane machines.
const (
	CALocal    = "local"
	CAExternal = "external"
)

type Cluster struct {
	APIVersion string      `yaml:"apiVersion"`
	Kind       string      `yaml:"kind"`
	Metadata   Metadata    `yaml:"metadata"`
	Spec       ClusterSpec `yaml:"spec"`
	Dir        string      `yaml:"-"`
}

type Metadata struct {
	Name string `yaml:"name"`
}

type ClusterSpec struct {
	KubernetesVersion    string    `yaml:"kubernetesVersion"`
	Box                  string    `yaml:"box"`
	NetworkCIDR          string    `yaml:"networkCIDR"`
	PodSubnet            string    `yaml:"podSubnet"`
	ServiceSubnet        string    `yaml:"serviceSubnet"`
	CertificateAuthority string    `yaml:"certificateAuthority"`
	APIServerEndpoint    string    `yaml:"apiServerEndpoint"`
	HighAvailability     bool      `yaml:"highAvailability"`
	Machines             []Machine `yaml:"machines"`
}

type Machine struct {
	Name     string `yaml:"name"`
	Role     Role   `yaml:"role"`
	CPUs     int    `yaml:"cpus"`
	MemoryMB int    `yaml:"memoryMB"`
	Address  string `yaml:"address"`
}

// Name returns the cluster name.
func (c *Cluster) Name() string { return c.Metadata.Name }

// Machine looks a machine up by name.
func (c *Cluster) Machine(name string) (Machine, bool) {
	for _, m := range c.Spec.Machines {
		if m.Name == name {
			return m, true
		}
	}
	return Machine{}, false
}

func (c *Cluster) withRole(r Role) []Machine {
	var out []Machine
	for _, m := range c.Spec.Machines {
		if m.Role == r {
			out = append(out, m)
		}
	}
	return out
}

func (c *Cluster) ControlPlanes() []Machine { return c.withRole(RoleControlPlane) }
func (c *Cluster) Workers() []Machine       { return c.withRole(RoleWorker) }
func (c *Cluster) EtcdMembers() []Machine   { return c.withRole(RoleEtcd) }

// ExternalEtcd reports whether the cluster runs etcd on dedicated machines.
func (c *Cluster) ExternalEtcd() bool { return len(c.EtcdMembers()) > 0 }

// ExternalCA reports whether the CA key pair is operator-provided.
func (c *Cluster) ExternalCA() bool { return c.Spec.CertificateAuthority == CAExternal }

// HighAvailability reports whether the cluster has more than one control
// plane machine. The declared spec flag is validated against this.
func (c *Cluster) HighAvailability() bool { return len(c.ControlPlanes()) > 1 }

func (c *Cluster) HasWorkers() bool { return len(c.Workers()) > 0 }
