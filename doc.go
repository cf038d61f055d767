// Package taposcan is a local-area discovery and classification
// engine for TP-Link Tapo IP cameras. Given no prior knowledge beyond
// the host machine's active IPv4 interfaces, Scan enumerates reachable
// neighbors, gathers multi-modal evidence about each of them (TCP port
// reachability, ICMP liveness, HTTP banners, ONVIF and TP-Link/Tapo
// UDP discovery responses, ARP-learned MAC vendor, reverse DNS), and
// returns the LIKELY candidates in ascending IP order alongside
// diagnostics that rank every candidate and explain the sweep.
//
// The package is a library with one entry point and no process-wide
// mutable state beyond a reusable HTTP client; everything else is
// scoped to a single Scan call. It performs no IPv6 discovery, no
// cross-subnet routing, no authenticated probing, and persists nothing
// between calls.
package taposcan
