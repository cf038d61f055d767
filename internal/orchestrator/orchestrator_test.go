package orchestrator

import (
	"context"
	"testing"
	"time"

	"taposcan/internal/beacon"
	"taposcan/internal/config"
	"taposcan/internal/hostenum"
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

func fakeOrchestrator(t *testing.T) (*Orchestrator, netaddr.Subnet) {
	t.Helper()
	local := mustIP(t, "192.168.1.50")
	gw := mustIP(t, "192.168.1.1")
	subnet, err := netaddr.NewSubnet(local, 24, []netaddr.IPv4Address{gw})
	if err != nil {
		t.Fatal(err)
	}

	o := &Orchestrator{
		Config:              config.Defaults(),
		enumerateInterfaces: func() []netaddr.Subnet { return []netaddr.Subnet{subnet} },
		enumerateHosts:      hostenum.Enumerate,
		icmpEcho:            func(context.Context, string, time.Duration) bool { return false },
		tcpConnect:          func(context.Context, string, int) bool { return false },
		fingerprint:         func(context.Context, string, int, bool) string { return "" },
		probeOnvif:          func(context.Context, []netaddr.IPv4Address) *beacon.HintSet { return beacon.NewHintSet() },
		probeTapoBroadcast:  func(context.Context, []netaddr.Subnet) *beacon.HintSet { return beacon.NewHintSet() },
		probeTapoUnicast:    func(context.Context, netaddr.IPv4Address) bool { return false },
		readARPTable:        func(context.Context) (map[netaddr.IPv4Address]string, error) { return map[netaddr.IPv4Address]string{}, nil },
		reverseDNS:          func(context.Context, string, time.Duration) (string, bool) { return "", false },
	}
	return o, subnet
}

func TestRun_CameraHostIsDetected(t *testing.T) {
	o, _ := fakeOrchestrator(t)
	camera := mustIP(t, "192.168.1.9")

	o.tcpConnect = func(_ context.Context, ip string, port int) bool {
		return ip == camera.String() && (port == 554 || port == 2020)
	}
	o.readARPTable = func(context.Context) (map[netaddr.IPv4Address]string, error) {
		return map[netaddr.IPv4Address]string{camera: "AC:84:C6:11:22:33"}, nil
	}

	detections, diag, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d: %+v", len(detections), detections)
	}
	d := detections[0]
	if d.IP != camera {
		t.Errorf("detected IP = %s, want %s", d.IP, camera)
	}
	if d.Confidence != 4.5 {
		t.Errorf("confidence = %v, want 4.5", d.Confidence)
	}
	if d.Reason == "" {
		t.Error("expected a non-empty reason")
	}
	if diag.ResponsiveHostCount != 1 {
		t.Errorf("ResponsiveHostCount = %d, want 1", diag.ResponsiveHostCount)
	}
	if len(diag.SubnetsScanned) != 1 {
		t.Errorf("expected 1 scanned subnet entry")
	}
}

// TestRun_BroadcastHintsAreUnionedAcrossSourceAndPayload mirrors spec
// §8 scenario S4: a beacon response's sender address and a literal
// found in its own payload both become hints, whether or not either
// address falls inside a scanned subnet.
func TestRun_BroadcastHintsAreUnionedAcrossSourceAndPayload(t *testing.T) {
	o, _ := fakeOrchestrator(t)

	offSubnetSender := mustIP(t, "172.16.0.7")
	offSubnetLiteral := mustIP(t, "192.168.4.4")

	o.probeTapoBroadcast = func(context.Context, []netaddr.Subnet) *beacon.HintSet {
		hints := beacon.NewHintSet()
		hints.Add(offSubnetSender)
		hints.Add(offSubnetLiteral)
		return hints
	}

	_, diag, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diag.TapoBroadcastHintCount != 2 {
		t.Errorf("TapoBroadcastHintCount = %d, want 2", diag.TapoBroadcastHintCount)
	}
}

func TestRun_HostWithNoEvidenceIsDropped(t *testing.T) {
	o, _ := fakeOrchestrator(t)

	_, diag, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diag.ResponsiveHostCount != 0 {
		t.Errorf("ResponsiveHostCount = %d, want 0 when nothing responds", diag.ResponsiveHostCount)
	}
	if len(diag.Candidates) != 0 {
		t.Errorf("expected no candidates when nothing responds")
	}
}

func TestRun_CancelledContextSurfacesError(t *testing.T) {
	o, _ := fakeOrchestrator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	detections, _, err := o.Run(ctx)
	if err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
	if detections != nil {
		t.Error("expected no partial detections on cancellation")
	}
}

func TestRun_MultipleCandidatesOrderedByIPAscendingInDetections(t *testing.T) {
	o, _ := fakeOrchestrator(t)
	a := mustIP(t, "192.168.1.5")
	b := mustIP(t, "192.168.1.200")

	o.tcpConnect = func(_ context.Context, ip string, port int) bool {
		return (ip == a.String() || ip == b.String()) && (port == 554 || port == 2020)
	}

	detections, _, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(detections) != 2 {
		t.Fatalf("expected 2 detections, got %d", len(detections))
	}
	if detections[0].IP != a || detections[1].IP != b {
		t.Errorf("detections not ascending by IP: got %s, %s", detections[0].IP, detections[1].IP)
	}
}
