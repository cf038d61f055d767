// Package evidence defines the per-host evidence record the Probe
// Orchestrator builds during its fan-out phase and hands to the
// classifier. It has no behavior of its own beyond two small query
// helpers on the record; keeping it dependency-free (only netaddr) lets
// both the orchestrator and the classifier depend on it without a
// cycle.
package evidence

import "taposcan/internal/netaddr"

// HostProbeResult captures every piece of evidence gathered about one
// address during the probe fan-out. It is built once per responding
// host and never mutated afterward; a host that produced no evidence
// of any kind is never turned into a HostProbeResult at all (spec
// §4.5 step 5).
type HostProbeResult struct {
	IP                   netaddr.IPv4Address
	OpenPorts            []int
	HTTPFingerprint      string
	SeenViaONVIF         bool
	SeenViaTapoBroadcast bool
	SeenViaTapoUnicast   bool
}

// HasAnyEvidence reports whether any probe produced a positive
// signal. The orchestrator drops a candidate address outright when
// this is false.
func (r HostProbeResult) HasAnyEvidence(pingOK bool) bool {
	return pingOK || len(r.OpenPorts) > 0 || r.SeenViaONVIF || r.SeenViaTapoBroadcast || r.SeenViaTapoUnicast
}

// HasOpenPort reports whether any of the given ports is in OpenPorts.
func (r HostProbeResult) HasOpenPort(ports ...int) bool {
	for _, want := range ports {
		for _, got := range r.OpenPorts {
			if got == want {
				return true
			}
		}
	}
	return false
}
