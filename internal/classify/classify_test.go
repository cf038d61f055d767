package classify

import (
	"strings"
	"testing"

	"taposcan/internal/evidence"
	"taposcan/internal/netaddr"
)

func mustIP(t *testing.T, s string) netaddr.IPv4Address {
	t.Helper()
	ip, ok := netaddr.ParseIPv4(s)
	if !ok {
		t.Fatalf("bad ip %q", s)
	}
	return ip
}

func TestRTSPAndOnvifPortWithTPLinkOUI(t *testing.T) {
	in := Input{
		Evidence: evidence.HostProbeResult{
			IP:        mustIP(t, "192.168.1.9"),
			OpenPorts: []int{554, 2020},
		},
		MAC: "AC:84:C6:11:22:33",
	}

	got := Classify(in)
	if !got.IsLikely {
		t.Fatal("expected LIKELY")
	}
	if got.Score != 4.5 {
		t.Errorf("score = %v, want 4.5", got.Score)
	}
	for _, want := range []string{"RTSP", "ONVIF port 2020", "MAC OUI"} {
		if !strings.Contains(got.Reason, want) {
			t.Errorf("reason %q missing clause %q", got.Reason, want)
		}
	}
}

func TestRepeaterMarkersForceUnlikely(t *testing.T) {
	in := Input{
		Evidence: evidence.HostProbeResult{
			IP:              mustIP(t, "192.168.1.11"),
			OpenPorts:       []int{80, 443},
			HTTPFingerprint: "TPLinkRepeater/MWLOGIN",
		},
		MAC: "14:CC:20:AA:BB:CC",
	}

	got := Classify(in)
	if got.IsLikely {
		t.Fatal("expected UNLIKELY due to repeater negative override")
	}
	if got.Score != -1.5 {
		t.Errorf("score = %v, want -1.5", got.Score)
	}
	if !strings.Contains(got.Reason, "repeater/router UI") {
		t.Errorf("reason %q missing repeater clause", got.Reason)
	}
}

func TestTapoUnicastWithOUISignal(t *testing.T) {
	in := Input{
		Evidence: evidence.HostProbeResult{
			IP:                 mustIP(t, "10.0.0.5"),
			SeenViaTapoUnicast: true,
		},
		MAC: "D8:5D:4C:00:11:22",
	}

	got := Classify(in)
	if !got.IsLikely {
		t.Fatal("expected LIKELY via Tapo unicast + TP-Link OUI signal")
	}
	if got.Score != 3.5 {
		t.Errorf("score = %v, want 3.5", got.Score)
	}
}

func TestS3Variant_TapoUnicastWithoutAnySignalIsUnlikely(t *testing.T) {
	in := Input{
		Evidence: evidence.HostProbeResult{
			IP:                 mustIP(t, "10.0.0.6"),
			SeenViaTapoUnicast: true,
		},
	}

	got := Classify(in)
	if got.IsLikely {
		t.Fatal("expected UNLIKELY: Tapo unicast alone, with no TP-Link/web/RTSP/ONVIF signal, is insufficient")
	}
	if got.Score != 2.5 {
		t.Errorf("score = %v, want 2.5", got.Score)
	}
}

// TestNegativeOverride_RepeaterMarkersWithWebPortsOnly locks in spec §8's
// universal invariant: a host with only repeater markers and 80/443 open,
// with no RTSP/ONVIF-port/ONVIF-beacon/Tapo-unicast evidence, must be
// UNLIKELY regardless of any other signal present.
func TestNegativeOverride_RepeaterMarkersWithWebPortsOnly(t *testing.T) {
	in := Input{
		Evidence: evidence.HostProbeResult{
			IP:              mustIP(t, "192.168.1.20"),
			OpenPorts:       []int{80, 443},
			HTTPFingerprint: "repeater firmware",
		},
	}

	got := Classify(in)
	if got.IsLikely {
		t.Fatal("expected UNLIKELY under negative-evidence override")
	}
}

func TestEmptyEvidenceYieldsDefaultReason(t *testing.T) {
	got := Classify(Input{Evidence: evidence.HostProbeResult{IP: mustIP(t, "192.168.1.30")}})
	if got.IsLikely {
		t.Fatal("expected UNLIKELY for no evidence at all")
	}
	if got.Reason != "No Tapo-specific markers were found." {
		t.Errorf("reason = %q, want default", got.Reason)
	}
	if got.Score != 0 {
		t.Errorf("score = %v, want 0", got.Score)
	}
}

func TestStrongBrandSignal_FingerprintTapoAlone(t *testing.T) {
	got := Classify(Input{Evidence: evidence.HostProbeResult{
		IP:              mustIP(t, "192.168.1.40"),
		HTTPFingerprint: "Server: Tapo-Cam/1.0",
	}})
	if !got.IsLikely {
		t.Fatal("expected LIKELY from a strong brand fingerprint signal alone")
	}
}

func TestScoreRounding(t *testing.T) {
	got := Classify(Input{Evidence: evidence.HostProbeResult{
		IP:        mustIP(t, "192.168.1.50"),
		OpenPorts: []int{2020},
	}})
	if got.Score != 1.5 {
		t.Errorf("score = %v, want 1.5", got.Score)
	}
}
