//go:build !linux

package ifaces

import "taposcan/internal/netaddr"

// readDefaultGateways has no portable implementation outside Linux's
// /proc/net/route; it degrades to reporting no gateways rather than
// failing enumeration, matching the spec's tolerance for platform gaps.
func readDefaultGateways() map[string][]netaddr.IPv4Address {
	return nil
}
