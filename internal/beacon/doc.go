// Package beacon implements the active discovery probes that don't
// target a single known host: ONVIF WS-Discovery multicast, the
// plain and obfuscated TP-Link/Tapo UDP broadcast, and the per-host
// Tapo unicast probe used during the main fan-out. The broadcast and
// multicast beacons collect every response within a fixed window and
// harvest hints from both the packet's source address and any IPv4
// literal found in its payload text, per the discovery engine's
// documented (and intentionally unfiltered) hint-aggregation policy.
package beacon
