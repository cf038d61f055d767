package ifaces

import "testing"

func TestIsTunnelName(t *testing.T) {
	tunnels := []string{"tun0", "tap0", "wg0", "ppp0", "utun3", "gre1"}
	for _, name := range tunnels {
		if !isTunnelName(name) {
			t.Errorf("%q should be treated as a tunnel interface", name)
		}
	}

	nonTunnels := []string{"eth0", "en0", "wlan0", "br-lan"}
	for _, name := range nonTunnels {
		if isTunnelName(name) {
			t.Errorf("%q should not be treated as a tunnel interface", name)
		}
	}
}

func TestEnumerateDoesNotPanic(t *testing.T) {
	// Enumerate depends on the host's live network state; this is a
	// smoke test that it degrades gracefully rather than panicking in
	// constrained (e.g. container, no-gateway) test environments.
	_ = Enumerate()
}
