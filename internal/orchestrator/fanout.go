package orchestrator

import (
	"context"
	"sync"

	"taposcan/internal/beacon"
	"taposcan/internal/evidence"
	"taposcan/internal/netaddr"
	"taposcan/internal/probe"
)

// fanOut runs spec §4.5 step 5: bounded-parallelism per-host probing.
// Every target gets an ICMP echo, all nine fixed TCP ports, and a Tapo
// unicast attempt, all running concurrently for that host; an HTTP
// fingerprint is then built from whichever web ports came back open,
// in priority order, stopping at the first non-empty result. A target
// that produced no evidence at all is dropped.
func (o *Orchestrator) fanOut(ctx context.Context, targets []netaddr.IPv4Address, onvifHints, tapoHints *beacon.HintSet) (map[netaddr.IPv4Address]evidence.HostProbeResult, error) {
	onvifSet := hintMembership(onvifHints)
	tapoSet := hintMembership(tapoHints)

	type outcome struct {
		ip     netaddr.IPv4Address
		result evidence.HostProbeResult
		keep   bool
	}

	jobs := make(chan netaddr.IPv4Address, len(targets))
	resultsCh := make(chan outcome, len(targets))

	parallelism := o.Config.MaxParallelism
	if parallelism < 1 {
		parallelism = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < parallelism; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ip := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				result, keep := o.probeHost(ctx, ip, onvifSet[ip], tapoSet[ip])
				resultsCh <- outcome{ip: ip, result: result, keep: keep}
			}
		}()
	}

	for _, ip := range targets {
		jobs <- ip
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	results := make(map[netaddr.IPv4Address]evidence.HostProbeResult, len(targets))
	for res := range resultsCh {
		if res.keep {
			results[res.ip] = res.result
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func hintMembership(hints *beacon.HintSet) map[netaddr.IPv4Address]bool {
	set := make(map[netaddr.IPv4Address]bool)
	if hints == nil {
		return set
	}
	for _, ip := range hints.Addresses() {
		set[ip] = true
	}
	return set
}

// probeHost gathers every piece of evidence for one address. It
// returns keep=false when none of {ping success, any open port, ONVIF
// hint, Tapo broadcast hint, Tapo unicast hit} held, per spec §4.5
// step 5.
func (o *Orchestrator) probeHost(ctx context.Context, ip netaddr.IPv4Address, seenViaONVIF, seenViaTapoBroadcast bool) (evidence.HostProbeResult, bool) {
	target := ip.String()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var pingOK bool
	var openPorts []int
	var tapoUnicastHit bool

	wg.Add(1)
	go func() {
		defer wg.Done()
		ok := o.icmpEcho(ctx, target, o.Config.ICMPHostTimeout.Duration())
		if ok {
			mu.Lock()
			pingOK = true
			mu.Unlock()
		}
	}()

	for _, port := range probe.ObservedPorts {
		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			if o.tcpConnect(ctx, target, port) {
				mu.Lock()
				openPorts = append(openPorts, port)
				mu.Unlock()
			}
		}(port)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if o.probeTapoUnicast(ctx, ip) {
			mu.Lock()
			tapoUnicastHit = true
			mu.Unlock()
		}
	}()

	wg.Wait()

	sortedPorts := probe.SortPorts(openPorts)

	fingerprint := o.buildFingerprint(ctx, target, sortedPorts)

	result := evidence.HostProbeResult{
		IP:                   ip,
		OpenPorts:            sortedPorts,
		HTTPFingerprint:      fingerprint,
		SeenViaONVIF:         seenViaONVIF,
		SeenViaTapoBroadcast: seenViaTapoBroadcast,
		SeenViaTapoUnicast:   tapoUnicastHit,
	}

	keep := result.HasAnyEvidence(pingOK)
	return result, keep
}

// buildFingerprint tries each open web-management port in priority
// order (80, 8080, 443, 8443) and stops at the first non-empty
// fingerprint. The whole attempt is bounded by the configured
// HTTPFingerprintBudget.
func (o *Orchestrator) buildFingerprint(ctx context.Context, target string, openPorts []int) string {
	ctx, cancel := context.WithTimeout(ctx, o.Config.HTTPFingerprintBudget.Duration())
	defer cancel()

	open := make(map[int]bool, len(openPorts))
	for _, p := range openPorts {
		open[p] = true
	}
	for _, port := range probe.HTTPFingerprintPriority {
		if !open[port] {
			continue
		}
		useTLS := port == 443 || port == 8443
		if fp := o.fingerprint(ctx, target, port, useTLS); fp != "" {
			return fp
		}
	}
	return ""
}
