// Package hostenum expands a netaddr.Subnet into the ordered sequence of
// host addresses the orchestrator should probe.
//
// Small subnets (<=4096 usable hosts) are enumerated in full. Larger
// subnets are biased toward "human-populated" /24s near the local
// address and gateways, since probing a full /16 would mean 65k sockets
// per scan. The large-subnet selector intentionally reproduces a subtle
// upstream quirk: its neighbor-expansion phase can return fewer than the
// target 16 chunk starts even when more are available, because it bails
// out on the first chunk it can't place rather than skipping past it.
// See selectChunkStarts for the exact mechanism and hostenum_test.go for
// a regression test documenting it, per spec §9.
package hostenum
