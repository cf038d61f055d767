//go:build linux

package ifaces

import "testing"

func TestParseLittleEndianHexIPv4(t *testing.T) {
	// /proc/net/route stores the gateway 192.168.1.1 as the little-endian
	// hex encoding 0101A8C0.
	addr, ok := parseLittleEndianHexIPv4("0101A8C0")
	if !ok {
		t.Fatal("expected successful parse")
	}
	if got := addr.String(); got != "192.168.1.1" {
		t.Errorf("got %s, want 192.168.1.1", got)
	}

	if _, ok := parseLittleEndianHexIPv4("bad"); ok {
		t.Error("expected failure on malformed hex")
	}
}
