package netaddr

import (
	"encoding/binary"
	"fmt"
	"net"
)

// IPv4Address is a 32-bit unsigned integer representation of an IPv4
// address in host byte order, ordered numerically.
type IPv4Address uint32

// FromNetIP converts a net.IP to an IPv4Address. It returns false if ip
// is not a valid IPv4 address.
func FromNetIP(ip net.IP) (IPv4Address, bool) {
	v4 := ip.To4()
	if v4 == nil {
		return 0, false
	}
	return IPv4Address(binary.BigEndian.Uint32(v4)), true
}

// ParseIPv4 parses a dotted-decimal string into an IPv4Address.
func ParseIPv4(s string) (IPv4Address, bool) {
	ip := net.ParseIP(s)
	if ip == nil {
		return 0, false
	}
	return FromNetIP(ip)
}

// ToNetIP converts the address back to a net.IP in 4-byte form.
func (a IPv4Address) ToNetIP() net.IP {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(a))
	return net.IP(buf)
}

// String renders the address in dotted-decimal form.
func (a IPv4Address) String() string {
	return a.ToNetIP().String()
}

// Less reports whether a sorts before b in numeric order.
func (a IPv4Address) Less(b IPv4Address) bool {
	return a < b
}

// IsLoopback reports whether a falls in 127.0.0.0/8.
func (a IPv4Address) IsLoopback() bool {
	return a>>24 == 127
}

// IsAPIPA reports whether a falls in 169.254.0.0/16 (automatic private
// IP addressing), which is excluded from discovery.
func (a IPv4Address) IsAPIPA() bool {
	return a>>16 == 0xA9FE
}

// PrefixMask returns the bitmask for a given CIDR prefix length.
// prefixLen must be in [0, 32]; PrefixMask(0) returns 0.
func PrefixMask(prefixLen int) uint32 {
	if prefixLen <= 0 {
		return 0
	}
	if prefixLen >= 32 {
		return 0xFFFFFFFF
	}
	return ^uint32(0) << uint(32-prefixLen)
}

// Network returns the network address for a given prefix length.
func (a IPv4Address) Network(prefixLen int) IPv4Address {
	return IPv4Address(uint32(a) & PrefixMask(prefixLen))
}

// Broadcast returns the directed broadcast address for a given prefix
// length: network_address | ~prefix_mask.
func (a IPv4Address) Broadcast(prefixLen int) IPv4Address {
	mask := PrefixMask(prefixLen)
	network := uint32(a) & mask
	return IPv4Address(network | ^mask)
}

// Add returns a + delta, wrapping per uint32 arithmetic. delta may be
// negative.
func (a IPv4Address) Add(delta int64) IPv4Address {
	return IPv4Address(uint32(int64(uint32(a)) + delta))
}

// validatePrefixLength returns an error if prefixLen is outside [1, 30].
func validatePrefixLength(prefixLen int) error {
	if prefixLen < 1 || prefixLen > 30 {
		return fmt.Errorf("netaddr: prefix length %d outside [1,30]", prefixLen)
	}
	return nil
}
