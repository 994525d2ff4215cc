// Package playbook holds the fixed playbook vocabulary, the per-command
// argument whitelists and the default bootstrap sequence derived from
// cluster attributes.
package playbook

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kubelab/playground/internal/spec"
)

type Playbook string

const (
	Prerequisites     Playbook = "prerequisites"
	ExternalEtcd      Playbook = "external-etcd"
	ExternalCA        Playbook = "external-ca"
	KubeadmInit       Playbook = "kubeadm-init"
	JoinControlPlanes Playbook = "join-control-planes"
	JoinNodes         Playbook = "join-nodes"
	Healthcheck       Playbook = "healthcheck"
	Reset             Playbook = "reset"
	E2E               Playbook = "e2e"
	E2EConformance    Playbook = "e2e-conformance"
)

// ErrUnknown is wrapped by all whitelist violations.
var ErrUnknown = errors.New("unknown playbook")

// File returns the playbook's file name under the playbooks directory.
func (p Playbook) File() string { return string(p) + ".yaml" }

var bootstrap = []Playbook{
	Prerequisites,
	ExternalEtcd,
	ExternalCA,
	KubeadmInit,
	JoinControlPlanes,
	JoinNodes,
	Healthcheck,
}

var suites = []Playbook{E2E, E2EConformance}

// ForStart derives the default bootstrap sequence from the cluster:
// etcd and CA playbooks only when the cluster declares them, the join
// playbooks only when there is something to join.
func ForStart(c *spec.Cluster) []Playbook {
	out := []Playbook{Prerequisites}
	if c.ExternalEtcd() {
		out = append(out, ExternalEtcd)
	}
	if c.ExternalCA() {
		out = append(out, ExternalCA)
	}
	out = append(out, KubeadmInit)
	if c.HighAvailability() {
		out = append(out, JoinControlPlanes)
	}
	if c.HasWorkers() {
		out = append(out, JoinNodes)
	}
	return append(out, Healthcheck)
}

// ValidateStart checks start's positional args against the bootstrap
// whitelist. No args means the ForStart defaults apply; the caller decides.
func ValidateStart(args []string) ([]Playbook, error) {
	return validate(args, bootstrap, "start")
}

// ValidateExec checks exec's args against every playbook that may run
// standalone. At least one playbook is required.
func ValidateExec(args []string) ([]Playbook, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("exec requires at least one playbook (%s)", names(execSet()))
	}
	return validate(args, execSet(), "exec")
}

// ValidateE2E checks e2e's args against the test suites, defaulting to the
// basic suite.
func ValidateE2E(args []string) ([]Playbook, error) {
	if len(args) == 0 {
		return []Playbook{E2E}, nil
	}
	return validate(args, suites, "e2e")
}

func execSet() []Playbook {
	return append(append([]Playbook{}, bootstrap...), Reset)
}

func validate(args []string, allowed []Playbook, command string) ([]Playbook, error) {
	set := map[Playbook]struct{}{}
	for _, p := range allowed {
		set[p] = struct{}{}
	}
	out := make([]Playbook, 0, len(args))
	for _, a := range args {
		p := Playbook(strings.ToLower(a))
		if _, ok := set[p]; !ok {
			return nil, fmt.Errorf("%w %q for %s: valid playbooks are %s", ErrUnknown, a, command, names(allowed))
		}
		out = append(out, p)
	}
	return out, nil
}

func names(list []Playbook) string {
	s := make([]string, 0, len(list))
	for _, p := range list {
		s = append(s, string(p))
	}
	sort.Strings(s)
	return strings.Join(s, ", ")
}
