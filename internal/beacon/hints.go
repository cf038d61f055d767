package beacon

import (
	"regexp"
	"sync"

	"taposcan/internal/netaddr"
)

// HintSet accumulates address hints harvested from beacon responses,
// deduplicated by address. Safe for concurrent use since ONVIF and
// Tapo beacons collect on separate goroutines.
type HintSet struct {
	mu   sync.Mutex
	seen map[netaddr.IPv4Address]bool
	list []netaddr.IPv4Address
}

// NewHintSet returns an empty HintSet.
func NewHintSet() *HintSet {
	return &HintSet{seen: make(map[netaddr.IPv4Address]bool)}
}

// Add records addr if it passes the routability filter and hasn't
// already been seen.
func (h *HintSet) Add(addr netaddr.IPv4Address) {
	if addr.IsLoopback() || addr.IsAPIPA() || addr == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.seen[addr] {
		return
	}
	h.seen[addr] = true
	h.list = append(h.list, addr)
}

// AddString parses s as a dotted-quad IPv4 address and adds it if
// valid; invalid strings are silently ignored.
func (h *HintSet) AddString(s string) {
	addr, ok := netaddr.ParseIPv4(s)
	if !ok {
		return
	}
	h.Add(addr)
}

// Addresses returns the accumulated hints.
func (h *HintSet) Addresses() []netaddr.IPv4Address {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]netaddr.IPv4Address, len(h.list))
	copy(out, h.list)
	return out
}

// Len reports how many distinct hints have been recorded.
func (h *HintSet) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.list)
}

var ipv4LiteralPattern = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)

// harvestPayloadLiterals scans payload text for IPv4 literals and adds
// every one found, whether or not it belongs to any subnet being
// scanned. This mirrors the source behavior of adding all literals
// unconditionally, including ones that may sit off-subnet.
func harvestPayloadLiterals(hints *HintSet, payload []byte) {
	for _, match := range ipv4LiteralPattern.FindAll(payload, -1) {
		hints.AddString(string(match))
	}
}
