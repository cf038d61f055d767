// Package ifaces enumerates candidate IPv4 subnets from the host's
// up-state network interfaces.
//
// An interface is considered only if it is operationally up, not
// loopback, not a tunnel, and has at least one non-zero IPv4 default
// gateway (read from the Linux routing table, grounded on the teacher's
// /proc/net/route parsing in internal/core/bootstrap/network.go).
// Interface query failures are skipped silently — enumeration never
// fails outright because one interface misbehaves.
package ifaces
