package vagrant

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/kevinburke/ssh_config"

	"github.com/kubelab/playground/internal/machine"
)

// vagrant's machine-readable output is one record per line:
// timestamp,target,type,data... with literal commas in data escaped.
const vagrantComma = "%!(VAGRANT_COMMA)"

var recordRe = regexp2.MustCompile(`^(?<ts>\d+),(?<target>[^,]*),(?<kind>[^,]+),(?<data>.*)$`, regexp2.None)

// parseStates extracts the per-machine "state" records from machine-readable
// output. Unknown state strings map to StateUnknown rather than an error so a
// newer vagrant cannot break status.
func parseStates(out string) map[string]machine.State {
	states := map[string]machine.State{}
	for _, line := range strings.Split(out, "\n") {
		m, err := recordRe.FindStringMatch(strings.TrimSpace(line))
		if err != nil || m == nil {
			continue
		}
		target := m.GroupByName("target").String()
		kind := m.GroupByName("kind").String()
		data := strings.ReplaceAll(m.GroupByName("data").String(), vagrantComma, ",")
		if target == "" || kind != "state" {
			continue
		}
		states[target] = mapState(data)
	}
	return states
}

func mapState(s string) machine.State {
	switch s {
	case "running":
		return machine.StateRunning
	case "poweroff", "saved", "aborted", "paused":
		return machine.StateStopped
	case "not_created":
		return machine.StateNotCreated
	default:
		return machine.StateUnknown
	}
}

// normalizeSSHConfig round-trips `vagrant ssh-config` output through the
// ssh_config parser, dropping anything that is not a valid Host block.
func normalizeSSHConfig(raw []byte) ([]byte, error) {
	cfg, err := ssh_config.DecodeBytes(raw)
	if err != nil {
		return nil, err
	}
	return []byte(cfg.String()), nil
}
