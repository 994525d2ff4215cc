package render

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"text/template"
)

// playgroundFuncs supplement sprig with the few cluster-shaped helpers the
// asset templates need.
func playgroundFuncs() template.FuncMap {
	return template.FuncMap{
		"ansibleBool": func(v bool) string {
			if v {
				return "true"
			}
			return "false"
		},
		// hostPort joins an address and port, bracketing IPv6 literals.
		// An endpoint that already carries a port, such as an HA VIP
		// declared as host:port, passes through with its own port, and a
		// DNS name is joined as-is.
		"hostPort": func(addr string, port int) string {
			if _, _, err := net.SplitHostPort(addr); err == nil {
				return addr
			}
			if a, err := netip.ParseAddr(addr); err == nil {
				return netip.AddrPortFrom(a, uint16(port)).String()
			}
			return net.JoinHostPort(addr, strconv.Itoa(port))
		},
		// netGateway returns the first host of a CIDR, the address
		// hypervisors assign to the host-only interface.
		"netGateway": func(cidr string) (string, error) {
			p, err := netip.ParsePrefix(cidr)
			if err != nil {
				return "", fmt.Errorf("netGateway %q: %w", cidr, err)
			}
			return p.Addr().Next().String(), nil
		},
	}
}
