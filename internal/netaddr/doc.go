// Package netaddr implements the IPv4 address and subnet value types used
// throughout taposcan.
//
// IPv4Address is a 32-bit unsigned integer with a total numeric order,
// letting host enumeration and diagnostics sort addresses without
// re-parsing strings. Subnet pairs a local address with its network
// prefix and the gateways observed for it.
package netaddr
