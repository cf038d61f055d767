// Package classify scores a single host's gathered evidence and
// decides whether it is LIKELY to be a TP-Link Tapo camera. The
// scoring table, decision predicate, and negative-evidence override
// are fixed; this package's only job is to apply them faithfully and
// produce a human-readable justification.
package classify

import (
	"math"
	"strings"

	"taposcan/internal/arp"
	"taposcan/internal/evidence"
)

// CandidateEvaluation is the classifier's verdict for one host.
type CandidateEvaluation struct {
	IsLikely bool
	Score    float64
	Reason   string
}

// Input bundles everything the classifier consults for one host: the
// probe-gathered evidence plus the two enrichment fields
// (MAC, hostname) the orchestrator attaches after the fan-out phase.
type Input struct {
	Evidence evidence.HostProbeResult
	MAC      string
	Hostname string
}

const (
	scoreRTSP           = 2.0
	scoreOnvifPort      = 1.5
	scoreOnvifBeacon    = 2.0
	scoreTapoBroadcast  = 2.0
	scoreTapoUnicast    = 2.5
	scoreControlPort    = 1.0
	scoreWebPort        = 0.5
	scoreFingerprintTP  = 3.0
	scoreRepeaterMarker = -3.0
	scoreHostnameTP     = 2.0
	scoreOUI            = 1.0
)

type clause struct {
	delta float64
	text  string
}

// Classify computes a CandidateEvaluation for in, applying the
// weighted scoring table in a fixed order (the order only affects the
// reason string's clause ordering, not the score).
func Classify(in Input) CandidateEvaluation {
	e := in.Evidence

	rtsp := e.HasOpenPort(554, 8554)
	onvifPort := e.HasOpenPort(2020)
	controlPort := e.HasOpenPort(9999, 20002)
	webPort := e.HasOpenPort(80, 443, 8080, 8443)
	repeaterMarkers := fingerprintHasRepeaterMarkers(e.HTTPFingerprint)
	fingerprintTP := fingerprintHasTPLinkFamily(e.HTTPFingerprint, repeaterMarkers)
	fingerprintTapo := strings.Contains(strings.ToLower(e.HTTPFingerprint), "tapo")
	hostnameTP := hostnameHasTPLinkFamily(in.Hostname)
	ouiMatch := in.MAC != "" && arp.IsTPLinkOUI(in.MAC)

	var clauses []clause
	add := func(triggered bool, delta float64, text string) {
		if !triggered {
			return
		}
		clauses = append(clauses, clause{delta, text})
	}

	add(rtsp, scoreRTSP, "RTSP service port is open")
	add(onvifPort, scoreOnvifPort, "ONVIF port 2020 is open")
	add(e.SeenViaONVIF, scoreOnvifBeacon, "Responded to ONVIF WS-Discovery probe")
	add(e.SeenViaTapoBroadcast, scoreTapoBroadcast, "Responded to TP-Link/Tapo local discovery probe")
	add(e.SeenViaTapoUnicast, scoreTapoUnicast, "Responded to direct TP-Link/Tapo UDP probe")
	add(controlPort, scoreControlPort, "TP-Link/Tapo control port is open (20002/9999)")
	add(webPort, scoreWebPort, "Web management port is open")
	add(fingerprintTP, scoreFingerprintTP, "HTTP endpoint reports Tapo/TP-Link markers")
	add(repeaterMarkers, scoreRepeaterMarker, "HTTP endpoint looks like TP-Link repeater/router UI")
	add(hostnameTP, scoreHostnameTP, hostnameClause(in.Hostname))
	add(ouiMatch, scoreOUI, "MAC OUI is assigned to TP-Link")

	var score float64
	var reasons []string
	for _, c := range clauses {
		score += c.delta
		reasons = append(reasons, c.text)
	}
	score = round2(score)

	tplinkSignal := ouiMatch || hostnameTP || fingerprintTP
	cameraService := rtsp || onvifPort || controlPort || e.SeenViaONVIF || e.SeenViaTapoBroadcast || e.SeenViaTapoUnicast

	isLikely := fingerprintTapo || hostnameTP ||
		(cameraService && tplinkSignal) ||
		(rtsp && onvifPort) ||
		(e.SeenViaONVIF && rtsp) ||
		(e.SeenViaTapoBroadcast && (rtsp || onvifPort || webPort)) ||
		(e.SeenViaTapoUnicast && (rtsp || onvifPort || webPort || tplinkSignal)) ||
		(controlPort && tplinkSignal && !repeaterMarkers) ||
		(rtsp && webPort && score >= 2.5)

	if repeaterMarkers && !(rtsp || onvifPort || e.SeenViaONVIF || e.SeenViaTapoUnicast) {
		isLikely = false
	}

	reason := strings.Join(reasons, "; ")
	if reason == "" {
		reason = "No Tapo-specific markers were found."
	}

	return CandidateEvaluation{IsLikely: isLikely, Score: score, Reason: reason}
}

func hostnameClause(hostname string) string {
	return "Hostname \"" + hostname + "\" suggests a TP-Link/Tapo device"
}

// fingerprintHasTPLinkFamily reports whether fp carries a generic
// Tapo/TP-Link brand marker. "tapo" always counts; "tp-link"/"tplink"
// only count when repeaterMarkers is false, since that substring also
// occurs inside the repeater-specific tokens ("tplinkrepeater") that
// drive the negative clause instead — without this exclusion a
// repeater banner like "TPLinkRepeater/MWLOGIN" would trigger both the
// +3.0 brand clause and the -3.0 repeater clause for the same token.
func fingerprintHasTPLinkFamily(fp string, repeaterMarkers bool) bool {
	lower := strings.ToLower(fp)
	if strings.Contains(lower, "tapo") {
		return true
	}
	if repeaterMarkers {
		return false
	}
	return strings.Contains(lower, "tp-link") || strings.Contains(lower, "tplink")
}

func fingerprintHasRepeaterMarkers(fp string) bool {
	lower := strings.ToLower(fp)
	return strings.Contains(lower, "tplinkrepeater") || strings.Contains(lower, "mwlogin") || strings.Contains(lower, "repeater")
}

func hostnameHasTPLinkFamily(hostname string) bool {
	if hostname == "" {
		return false
	}
	lower := strings.ToLower(hostname)
	return strings.Contains(lower, "tapo") || strings.Contains(lower, "tp-link") || strings.Contains(lower, "tplink")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
