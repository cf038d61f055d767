package beacon

import (
	"context"
	"net"
	"sync"
	"time"

	"taposcan/internal/netaddr"
	"taposcan/internal/probe"
)

// Tapo/TP-Link discovery ports: 20002 carries plain JSON, 9999 carries
// the legacy XOR-obfuscated payloads.
const (
	TapoPlainPort  = 20002
	TapoLegacyPort = 9999
)

const globalBroadcastAddr = "255.255.255.255"

var tapoDiscoveryPayloads = [][]byte{
	[]byte(`{"system":{"get_sysinfo":{}}}`),
	[]byte(`{"method":"getDeviceInfo","params":null}`),
	[]byte(`{"method":"multipleRequest","params":{"requests":[{"method":"getDeviceInfo","params":null}]}}`),
}

// ProbeTapoBroadcast fans the three Tapo/TP-Link discovery payloads
// out to the global broadcast address and each subnet's directed
// broadcast, on both the plain (20002) and obfuscated-legacy (9999)
// ports, then collects every response for 2.2s per subnet. Sender
// addresses and any IPv4 literals in the payload text are added to
// the returned hint set.
func ProbeTapoBroadcast(ctx context.Context, subnets []netaddr.Subnet) *HintSet {
	hints := NewHintSet()
	if len(subnets) == 0 {
		return hints
	}

	var wg sync.WaitGroup
	for _, s := range subnets {
		wg.Add(1)
		go func(s netaddr.Subnet) {
			defer wg.Done()
			tapoBroadcastFromSubnet(ctx, s, hints)
		}(s)
	}
	wg.Wait()

	return hints
}

func tapoBroadcastFromSubnet(ctx context.Context, s netaddr.Subnet, hints *HintSet) {
	if ctx.Err() != nil {
		return
	}

	conn, err := probe.OpenBroadcastSocket(s.LocalAddress.ToNetIP())
	if err != nil {
		return
	}
	defer conn.Close()

	deadline := time.Now().Add(probe.UDPTapoBroadcastWindow)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetDeadline(deadline)

	targets := []string{globalBroadcastAddr, s.Broadcast().String()}
	for _, target := range targets {
		sendTapoPayloads(conn, target, TapoPlainPort, false)
		sendTapoPayloads(conn, target, TapoLegacyPort, true)
	}

	buf := make([]byte, 8192)
	for {
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		if addr, ok := netaddr.FromNetIP(from.IP); ok {
			hints.Add(addr)
		}
		harvestPayloadLiterals(hints, buf[:n])
	}
}

func sendTapoPayloads(conn *net.UDPConn, targetIP string, port int, obfuscate bool) {
	raddr := &net.UDPAddr{IP: net.ParseIP(targetIP), Port: port}
	if raddr.IP == nil {
		return
	}
	for _, payload := range tapoDiscoveryPayloads {
		out := payload
		if obfuscate {
			out = probe.TPLinkObfuscate(payload)
		}
		conn.WriteToUDP(out, raddr)
	}
}

// ProbeTapoUnicast tries every discovery payload against ip on the
// plain port first, then the obfuscated legacy port, short-circuiting
// on the first response whose source address matches ip exactly.
func ProbeTapoUnicast(ctx context.Context, ip netaddr.IPv4Address) bool {
	target := ip.String()

	for _, payload := range tapoDiscoveryPayloads {
		if tapoUnicastHit(ctx, target, ip, TapoPlainPort, payload) {
			return true
		}
	}
	for _, payload := range tapoDiscoveryPayloads {
		if tapoUnicastHit(ctx, target, ip, TapoLegacyPort, probe.TPLinkObfuscate(payload)) {
			return true
		}
	}
	return false
}

func tapoUnicastHit(ctx context.Context, target string, ip netaddr.IPv4Address, port int, payload []byte) bool {
	ok, from := probe.UDPProbe(ctx, target, port, payload, probe.UDPUnicastWindow)
	if !ok {
		return false
	}
	addr, valid := netaddr.FromNetIP(from)
	return valid && addr == ip
}
