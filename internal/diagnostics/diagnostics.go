// Package diagnostics assembles the external result records the
// facade returns: per-host Detections for LIKELY candidates, and a
// ScanDiagnostics summary covering every candidate plus sweep-wide
// counters.
package diagnostics

import (
	"sort"

	"taposcan/internal/classify"
	"taposcan/internal/evidence"
	"taposcan/internal/netaddr"
)

// Detection is emitted for every host the classifier judged LIKELY.
type Detection struct {
	IP         netaddr.IPv4Address
	Hostname   string
	MAC        string
	OpenPorts  []int
	Confidence float64
	Reason     string
}

// CandidateDiagnostics carries every Detection field plus the raw
// evidence bits and the classifier's verdict, regardless of outcome.
type CandidateDiagnostics struct {
	IP                   netaddr.IPv4Address
	Hostname             string
	MAC                  string
	OpenPorts            []int
	Confidence           float64
	Reason               string
	IsLikely             bool
	SeenViaONVIF         bool
	SeenViaTapoBroadcast bool
	SeenViaTapoUnicast   bool
}

// ScanDiagnostics summarizes one full sweep.
type ScanDiagnostics struct {
	SubnetsScanned         []string
	EnumeratedHostCount    int
	ARPSeedCount           int
	ONVIFHintCount         int
	TapoBroadcastHintCount int
	TapoUnicastHintCount   int
	ResponsiveHostCount    int
	Candidates             []CandidateDiagnostics
}

// Row bundles one host's probe evidence, classifier verdict, and
// enrichment fields (MAC, hostname) so the assembler can produce both
// a CandidateDiagnostics entry and, if likely, a Detection from it.
type Row struct {
	Evidence   evidence.HostProbeResult
	Evaluation classify.CandidateEvaluation
	MAC        string
	Hostname   string
}

func (r Row) candidate() CandidateDiagnostics {
	return CandidateDiagnostics{
		IP:                   r.Evidence.IP,
		Hostname:             r.Hostname,
		MAC:                  r.MAC,
		OpenPorts:            r.Evidence.OpenPorts,
		Confidence:           r.Evaluation.Score,
		Reason:               r.Evaluation.Reason,
		IsLikely:             r.Evaluation.IsLikely,
		SeenViaONVIF:         r.Evidence.SeenViaONVIF,
		SeenViaTapoBroadcast: r.Evidence.SeenViaTapoBroadcast,
		SeenViaTapoUnicast:   r.Evidence.SeenViaTapoUnicast,
	}
}

func (r Row) detection() Detection {
	return Detection{
		IP:         r.Evidence.IP,
		Hostname:   r.Hostname,
		MAC:        r.MAC,
		OpenPorts:  r.Evidence.OpenPorts,
		Confidence: r.Evaluation.Score,
		Reason:     r.Evaluation.Reason,
	}
}

// Counters carries the sweep-wide counts the assembler cannot derive
// from rows alone (they reflect phases that ran before or independent
// of the per-host evidence rows).
type Counters struct {
	SubnetsScanned         []netaddr.Subnet
	EnumeratedHostCount    int
	ARPSeedCount           int
	ONVIFHintCount         int
	TapoBroadcastHintCount int
	TapoUnicastHintCount   int
}

// Assemble builds the final Detections and ScanDiagnostics from the
// per-host rows produced in ascending-IP order and the sweep-wide
// counters gathered across earlier phases.
//
// rows must already be in ascending-IP order; Assemble does not
// re-sort them before deriving ResponsiveHostCount, but it does sort
// both output orderings independently.
func Assemble(rows []Row, counters Counters) ([]Detection, ScanDiagnostics) {
	candidates := make([]CandidateDiagnostics, 0, len(rows))
	var detections []Detection

	for _, r := range rows {
		candidates = append(candidates, r.candidate())
		if r.Evaluation.IsLikely {
			detections = append(detections, r.detection())
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.IsLikely != b.IsLikely {
			return a.IsLikely
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.IP < b.IP
	})

	sort.SliceStable(detections, func(i, j int) bool {
		return detections[i].IP < detections[j].IP
	})

	subnetStrings := make([]string, len(counters.SubnetsScanned))
	for i, s := range counters.SubnetsScanned {
		subnetStrings[i] = s.FormatDiagnostic()
	}

	diag := ScanDiagnostics{
		SubnetsScanned:         subnetStrings,
		EnumeratedHostCount:    counters.EnumeratedHostCount,
		ARPSeedCount:           counters.ARPSeedCount,
		ONVIFHintCount:         counters.ONVIFHintCount,
		TapoBroadcastHintCount: counters.TapoBroadcastHintCount,
		TapoUnicastHintCount:   counters.TapoUnicastHintCount,
		ResponsiveHostCount:    len(rows),
		Candidates:             candidates,
	}

	return detections, diag
}
