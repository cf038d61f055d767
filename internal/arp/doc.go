// Package arp resolves the OS neighbor (ARP) table into an IP-to-MAC
// map and checks MAC addresses against the known TP-Link OUI set. It
// shells out to the platform's arp tool rather than reading kernel
// tables directly, matching the discovery engine's general preference
// for subprocess-based enrichment over raw-socket or root-privileged
// access. Any spawn or parse failure degrades to an empty map; the only
// error the resolver reports is context cancellation.
package arp
