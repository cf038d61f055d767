package orchestrator

import (
	"context"
	"sort"

	"taposcan/internal/classify"
	"taposcan/internal/diagnostics"
	"taposcan/internal/evidence"
	"taposcan/internal/netaddr"
)

// enrichAndClassify implements spec §4.5 step 7: a strictly sequential
// pass over the kept HostProbeResults in ascending-IP order, attaching
// a reverse-DNS hostname and MAC (from the merged ARP table), then
// invoking the classifier. Sequential iteration is what makes the
// final candidate and detection ordering deterministic.
func (o *Orchestrator) enrichAndClassify(ctx context.Context, results map[netaddr.IPv4Address]evidence.HostProbeResult, macTable map[netaddr.IPv4Address]string) ([]diagnostics.Row, error) {
	ips := make([]netaddr.IPv4Address, 0, len(results))
	for ip := range results {
		ips = append(ips, ip)
	}
	sort.Slice(ips, func(i, j int) bool { return ips[i] < ips[j] })

	rows := make([]diagnostics.Row, 0, len(ips))
	for _, ip := range ips {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := results[ip]
		mac := macTable[ip]
		hostname, _ := o.reverseDNS(ctx, ip.String(), o.Config.ReverseDNSTimeout.Duration())

		evaluation := classify.Classify(classify.Input{
			Evidence: result,
			MAC:      mac,
			Hostname: hostname,
		})

		rows = append(rows, diagnostics.Row{
			Evidence:   result,
			Evaluation: evaluation,
			MAC:        mac,
			Hostname:   hostname,
		})
	}

	return rows, nil
}
