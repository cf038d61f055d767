package netaddr

import (
	"fmt"
	"sort"
	"strings"
)

// Subnet describes an IPv4 subnet reachable from a local interface.
//
// Invariant: NetworkAddress == LocalAddress & PrefixMask(PrefixLength).
// The broadcast address is derivable as NetworkAddress | ^PrefixMask.
type Subnet struct {
	LocalAddress     IPv4Address
	NetworkAddress   IPv4Address
	PrefixLength     int
	GatewayAddresses []IPv4Address
}

// NewSubnet builds a Subnet from a local address and prefix length,
// deriving the network address. It rejects prefix lengths outside
// [1, 30].
func NewSubnet(local IPv4Address, prefixLength int, gateways []IPv4Address) (Subnet, error) {
	if err := validatePrefixLength(prefixLength); err != nil {
		return Subnet{}, err
	}
	return Subnet{
		LocalAddress:     local,
		NetworkAddress:   local.Network(prefixLength),
		PrefixLength:     prefixLength,
		GatewayAddresses: gateways,
	}, nil
}

// Broadcast returns the subnet's directed broadcast address.
func (s Subnet) Broadcast() IPv4Address {
	return s.NetworkAddress.Broadcast(s.PrefixLength)
}

// HostBits returns the number of host-addressing bits in the subnet.
func (s Subnet) HostBits() int {
	return 32 - s.PrefixLength
}

// HostCount returns the number of usable host addresses (excluding
// network and broadcast), i.e. 2^host_bits - 2.
func (s Subnet) HostCount() int64 {
	return int64(1)<<uint(s.HostBits()) - 2
}

// FirstHost returns the first usable host address (network + 1).
func (s Subnet) FirstHost() IPv4Address {
	return s.NetworkAddress.Add(1)
}

// LastHost returns the last usable host address (broadcast - 1).
func (s Subnet) LastHost() IPv4Address {
	return s.Broadcast().Add(-1)
}

// Contains reports whether addr falls within [FirstHost, LastHost].
func (s Subnet) Contains(addr IPv4Address) bool {
	return addr >= s.FirstHost() && addr <= s.LastHost()
}

// Key identifies a subnet by its (network, prefix) pair for
// deduplication purposes.
type Key struct {
	Network      IPv4Address
	PrefixLength int
}

// Key returns the deduplication key for this subnet.
func (s Subnet) Key() Key {
	return Key{Network: s.NetworkAddress, PrefixLength: s.PrefixLength}
}

// FormatDiagnostic renders the subnet as "<network>/<prefix>
// (local <local_ip>)" or, when gateways exist, "<network>/<prefix>
// (local <local_ip>, gateway <g1>, <g2>)".
func (s Subnet) FormatDiagnostic() string {
	base := fmt.Sprintf("%s/%d (local %s", s.NetworkAddress, s.PrefixLength, s.LocalAddress)
	if len(s.GatewayAddresses) == 0 {
		return base + ")"
	}
	gws := make([]string, len(s.GatewayAddresses))
	for i, g := range s.GatewayAddresses {
		gws[i] = g.String()
	}
	return base + ", gateway " + strings.Join(gws, ", ") + ")"
}

// SortSubnets orders subnets by (network_address, prefix_length)
// ascending, for stable diagnostic output.
func SortSubnets(subnets []Subnet) {
	sort.Slice(subnets, func(i, j int) bool {
		if subnets[i].NetworkAddress != subnets[j].NetworkAddress {
			return subnets[i].NetworkAddress < subnets[j].NetworkAddress
		}
		return subnets[i].PrefixLength < subnets[j].PrefixLength
	})
}

// DedupeSubnets removes subnets sharing a (network, prefix) key,
// keeping the first occurrence's gateway list.
func DedupeSubnets(subnets []Subnet) []Subnet {
	seen := make(map[Key]bool, len(subnets))
	out := make([]Subnet, 0, len(subnets))
	for _, s := range subnets {
		k := s.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
