// Package orchestrator runs the bounded-parallelism sweep that turns
// a set of candidate addresses into classified detections: ARP
// priming, discovery beacons, per-host probing, enrichment, and
// classification, in the phase order spec §4.5 fixes. Every primitive
// it calls is injected through unexported function fields so tests
// can substitute fakes without touching a real network, the same
// pattern the teacher's adapters use for their fetcher/publisher
// collaborators.
package orchestrator

import (
	"context"
	"net"
	"sort"
	"sync"
	"time"

	"taposcan/internal/arp"
	"taposcan/internal/beacon"
	"taposcan/internal/classify"
	"taposcan/internal/config"
	"taposcan/internal/diagnostics"
	"taposcan/internal/evidence"
	"taposcan/internal/hostenum"
	"taposcan/internal/ifaces"
	"taposcan/internal/netaddr"
	"taposcan/internal/probe"
)

// Orchestrator holds the sweep's tunable configuration and its
// collaborator hooks. Zero-value hooks are filled with the real
// network-backed implementations by New; tests construct an
// Orchestrator directly and overwrite the hooks they need to fake.
type Orchestrator struct {
	Config config.Config

	enumerateInterfaces func() []netaddr.Subnet
	enumerateHosts      func(netaddr.Subnet) []netaddr.IPv4Address

	icmpEcho    func(ctx context.Context, ip string, timeout time.Duration) bool
	tcpConnect  func(ctx context.Context, ip string, port int) bool
	fingerprint func(ctx context.Context, ip string, port int, useTLS bool) string

	probeOnvif         func(ctx context.Context, localAddrs []netaddr.IPv4Address) *beacon.HintSet
	probeTapoBroadcast func(ctx context.Context, subnets []netaddr.Subnet) *beacon.HintSet
	probeTapoUnicast   func(ctx context.Context, ip netaddr.IPv4Address) bool

	readARPTable func(ctx context.Context) (map[netaddr.IPv4Address]string, error)
	reverseDNS   func(ctx context.Context, ip string, timeout time.Duration) (string, bool)
}

// New builds an Orchestrator wired to the real network-backed
// primitives in internal/probe, internal/beacon, internal/arp,
// internal/ifaces, and internal/hostenum.
func New(cfg config.Config) *Orchestrator {
	return &Orchestrator{
		Config:              cfg,
		enumerateInterfaces: ifaces.Enumerate,
		enumerateHosts:      hostenum.Enumerate,
		icmpEcho:            probe.ICMPEcho,
		tcpConnect:          probe.TCPConnect,
		fingerprint:         probe.Fingerprint,
		probeOnvif:          beacon.ProbeOnvif,
		probeTapoBroadcast:  beacon.ProbeTapoBroadcast,
		probeTapoUnicast:    beacon.ProbeTapoUnicast,
		readARPTable:        arp.ReadTable,
		reverseDNS:          reverseDNSLookup,
	}
}

// Run executes the full sweep described in spec §4.5 and returns the
// ordered detections and scan diagnostics. The only errors Run returns
// are cancellation-derived (context.Canceled / context.DeadlineExceeded);
// every other failure mode is absorbed into a degraded or missing piece
// of evidence per spec §7.
func (o *Orchestrator) Run(ctx context.Context) ([]diagnostics.Detection, diagnostics.ScanDiagnostics, error) {
	// Phase 1: enumerate subnets and expand to the host set H.
	subnets := o.enumerateInterfaces()
	hostSet, hostOrder := o.expandHosts(subnets)
	if err := ctx.Err(); err != nil {
		return nil, diagnostics.ScanDiagnostics{}, err
	}

	// Phase 2: ARP-prime, best effort.
	o.arpPrime(ctx, hostOrder)
	if err := ctx.Err(); err != nil {
		return nil, diagnostics.ScanDiagnostics{}, err
	}

	// Phase 3: beacons, then the pre-probe ARP read.
	localAddrs := localAddressesOf(subnets)
	var onvifHints, tapoHints *beacon.HintSet
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); onvifHints = o.probeOnvif(ctx, localAddrs) }()
	go func() { defer wg.Done(); tapoHints = o.probeTapoBroadcast(ctx, subnets) }()
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, diagnostics.ScanDiagnostics{}, err
	}

	arpSeed, err := o.readARPTable(ctx)
	if err != nil {
		return nil, diagnostics.ScanDiagnostics{}, err
	}

	// Phase 4: Targets = H ∪ keys(A0) ∪ ONVIF hints ∪ Tapo broadcast hints.
	targets := unionTargets(hostSet, arpSeed, onvifHints, tapoHints)
	if err := ctx.Err(); err != nil {
		return nil, diagnostics.ScanDiagnostics{}, err
	}

	// Phase 5: bounded-parallelism fan-out.
	results, err := o.fanOut(ctx, targets, onvifHints, tapoHints)
	if err != nil {
		return nil, diagnostics.ScanDiagnostics{}, err
	}

	// Phase 6: final ARP read; post-probe entries override the seed.
	arpFinal, err := o.readARPTable(ctx)
	if err != nil {
		return nil, diagnostics.ScanDiagnostics{}, err
	}
	macTable := mergeARP(arpSeed, arpFinal)

	// Phase 7: ascending-IP enrichment, classification, assembly.
	rows, err := o.enrichAndClassify(ctx, results, macTable)
	if err != nil {
		return nil, diagnostics.ScanDiagnostics{}, err
	}

	counters := diagnostics.Counters{
		SubnetsScanned:         subnets,
		EnumeratedHostCount:    len(hostSet),
		ARPSeedCount:           len(arpSeed),
		ONVIFHintCount:         onvifHints.Len(),
		TapoBroadcastHintCount: tapoHints.Len(),
		TapoUnicastHintCount:   countTapoUnicastHits(results),
	}

	detections, diag := diagnostics.Assemble(rows, counters)
	return detections, diag, nil
}

// expandHosts runs the Host Enumerator over every subnet and returns
// the deduplicated union both as a membership set and in a stable,
// subnet-enumeration order (subnets are already sorted by
// ifaces.Enumerate, so this order is deterministic).
func (o *Orchestrator) expandHosts(subnets []netaddr.Subnet) (map[netaddr.IPv4Address]bool, []netaddr.IPv4Address) {
	set := make(map[netaddr.IPv4Address]bool)
	var order []netaddr.IPv4Address
	for _, s := range subnets {
		for _, h := range o.enumerateHosts(s) {
			if set[h] {
				continue
			}
			set[h] = true
			order = append(order, h)
		}
	}
	return set, order
}

func localAddressesOf(subnets []netaddr.Subnet) []netaddr.IPv4Address {
	seen := make(map[netaddr.IPv4Address]bool)
	var out []netaddr.IPv4Address
	for _, s := range subnets {
		if seen[s.LocalAddress] {
			continue
		}
		seen[s.LocalAddress] = true
		out = append(out, s.LocalAddress)
	}
	return out
}

// unionTargets merges the host set, ARP seed keys, and both beacon
// hint sets into one deduplicated, ascending-order address list.
func unionTargets(hostSet map[netaddr.IPv4Address]bool, arpSeed map[netaddr.IPv4Address]string, onvifHints, tapoHints *beacon.HintSet) []netaddr.IPv4Address {
	merged := make(map[netaddr.IPv4Address]bool, len(hostSet))
	for h := range hostSet {
		merged[h] = true
	}
	for ip := range arpSeed {
		merged[ip] = true
	}
	for _, ip := range onvifHints.Addresses() {
		merged[ip] = true
	}
	for _, ip := range tapoHints.Addresses() {
		merged[ip] = true
	}

	out := make([]netaddr.IPv4Address, 0, len(merged))
	for ip := range merged {
		out = append(out, ip)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// mergeARP combines the pre- and post-probe ARP reads; entries learned
// after probing override the seed entry for the same address.
func mergeARP(seed, final map[netaddr.IPv4Address]string) map[netaddr.IPv4Address]string {
	merged := make(map[netaddr.IPv4Address]string, len(seed)+len(final))
	for k, v := range seed {
		merged[k] = v
	}
	for k, v := range final {
		merged[k] = v
	}
	return merged
}

func countTapoUnicastHits(results map[netaddr.IPv4Address]evidence.HostProbeResult) int {
	n := 0
	for _, r := range results {
		if r.SeenViaTapoUnicast {
			n++
		}
	}
	return n
}

// reverseDNSLookup resolves ip's PTR record within timeout, trimming
// the trailing dot a PTR name conventionally carries. It reports
// false rather than an error for any lookup failure or timeout.
func reverseDNSLookup(ctx context.Context, ip string, timeout time.Duration) (string, bool) {
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	names, err := net.DefaultResolver.LookupAddr(dctx, ip)
	if err != nil || len(names) == 0 {
		return "", false
	}
	name := names[0]
	for len(name) > 0 && name[len(name)-1] == '.' {
		name = name[:len(name)-1]
	}
	if name == "" {
		return "", false
	}
	return name, true
}
