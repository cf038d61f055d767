//go:build linux

package ifaces

import (
	"os"
	"strconv"
	"strings"

	"taposcan/internal/netaddr"
)

// readDefaultGateways reads /proc/net/route and returns, per interface
// name, the IPv4 default-gateway addresses configured on it (destination
// 0.0.0.0, gateway non-zero).
func readDefaultGateways() map[string][]netaddr.IPv4Address {
	data, err := os.ReadFile("/proc/net/route")
	if err != nil {
		return nil
	}

	gateways := make(map[string][]netaddr.IPv4Address)
	lines := strings.Split(string(data), "\n")
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		iface, dest, gwHex := fields[0], fields[1], fields[2]
		if dest != "00000000" {
			continue
		}
		addr, ok := parseLittleEndianHexIPv4(gwHex)
		if !ok || addr == 0 {
			continue
		}
		gateways[iface] = append(gateways[iface], addr)
	}
	return gateways
}

// parseLittleEndianHexIPv4 parses the 8-hex-digit little-endian gateway
// field from /proc/net/route into an IPv4Address.
func parseLittleEndianHexIPv4(hex string) (netaddr.IPv4Address, bool) {
	if len(hex) != 8 {
		return 0, false
	}
	var b [4]uint64
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return 0, false
		}
		b[i] = v
	}
	// Bytes appear in little-endian order in the route file.
	value := uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
	return netaddr.IPv4Address(value), true
}
