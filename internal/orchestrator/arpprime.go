package orchestrator

import (
	"context"
	"sync"

	"taposcan/internal/netaddr"
)

// arpPrime pings up to the configured host limit from hosts, bounded
// by the configured fanout, to populate the OS neighbor cache before
// the ARP table is read (spec §4.5 step 2). It is best-effort: ping
// failures are ignored outright, and the only thing that can cut it
// short early is context cancellation.
func (o *Orchestrator) arpPrime(ctx context.Context, hosts []netaddr.IPv4Address) {
	limit := o.Config.ARPPrimeHostLimit
	if limit > len(hosts) {
		limit = len(hosts)
	}
	targets := hosts[:limit]
	if len(targets) == 0 {
		return
	}

	fanout := o.Config.ARPPrimeFanout
	if fanout < 1 {
		fanout = 1
	}

	jobs := make(chan netaddr.IPv4Address, len(targets))
	var wg sync.WaitGroup
	for i := 0; i < fanout; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ip := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				o.icmpEcho(ctx, ip.String(), o.Config.ARPPrimeTimeout.Duration())
			}
		}()
	}

	for _, ip := range targets {
		jobs <- ip
	}
	close(jobs)
	wg.Wait()
}
