package ifaces

import (
	"net"
	"strings"

	"taposcan/internal/netaddr"
)

// tunnelPrefixes lists interface name prefixes treated as tunnels and
// excluded from discovery, covering the common Linux/macOS/BSD naming
// conventions for virtual point-to-point links.
var tunnelPrefixes = []string{"tun", "tap", "wg", "ppp", "utun", "ipsec", "gre"}

// isTunnelName reports whether name looks like a tunnel interface.
func isTunnelName(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range tunnelPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Enumerate derives the ordered, deduplicated sequence of candidate
// subnets from up-state, non-loopback, non-tunnel interfaces that carry
// at least one non-zero IPv4 default gateway (spec §4.1).
//
// Any failure to query a specific interface is skipped silently; the
// enumeration as a whole never fails.
func Enumerate() []netaddr.Subnet {
	ifs, err := net.Interfaces()
	if err != nil {
		return nil
	}

	gatewaysByName := readDefaultGateways()

	var subnets []netaddr.Subnet
	for _, iface := range ifs {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if isTunnelName(iface.Name) {
			continue
		}

		gateways := gatewaysByName[iface.Name]
		if len(gateways) == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			local, ok := netaddr.FromNetIP(ipnet.IP)
			if !ok {
				continue
			}
			if local.IsLoopback() || local.IsAPIPA() {
				continue
			}
			ones, bits := ipnet.Mask.Size()
			if bits != 32 {
				continue
			}
			if ones < 1 || ones > 30 {
				continue
			}

			subnet, err := netaddr.NewSubnet(local, ones, gateways)
			if err != nil {
				continue
			}
			subnets = append(subnets, subnet)
		}
	}

	subnets = netaddr.DedupeSubnets(subnets)
	netaddr.SortSubnets(subnets)
	return subnets
}
