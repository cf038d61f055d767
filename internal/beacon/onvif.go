package beacon

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"taposcan/internal/netaddr"
)

// OnvifMulticastAddr is the WS-Discovery multicast endpoint cameras
// listen on.
const OnvifMulticastAddr = "239.255.255.250:3702"

const onvifCollectWindow = 1800 * time.Millisecond

const onvifProbeTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<e:Envelope xmlns:e="http://www.w3.org/2003/05/soap-envelope"
            xmlns:w="http://schemas.xmlsoap.org/ws/2004/08/addressing"
            xmlns:d="http://schemas.xmlsoap.org/ws/2005/04/discovery"
            xmlns:dn="http://www.onvif.org/ver10/network/wsdl">
  <e:Header>
    <w:MessageID>uuid:%s</w:MessageID>
    <w:To e:mustUnderstand="1">urn:schemas-xmlsoap-org:ws:2005:04:discovery</w:To>
    <w:Action e:mustUnderstand="1">http://schemas.xmlsoap.org/ws/2005/04/discovery/Probe</w:Action>
  </e:Header>
  <e:Body>
    <d:Probe>
      <d:Types>dn:NetworkVideoTransmitter</d:Types>
    </d:Probe>
  </e:Body>
</e:Envelope>`

func buildOnvifProbe() []byte {
	return []byte(fmt.Sprintf(onvifProbeTemplate, uuid.New().String()))
}

// ProbeOnvif sends a WS-Discovery probe from each of localAddrs and
// collects responses for 1.8s per address, in parallel. Every
// responding sender's address, and every IPv4 literal found in its
// payload, is added to the returned hint set.
func ProbeOnvif(ctx context.Context, localAddrs []netaddr.IPv4Address) *HintSet {
	hints := NewHintSet()
	if len(localAddrs) == 0 {
		return hints
	}

	raddr, err := net.ResolveUDPAddr("udp4", OnvifMulticastAddr)
	if err != nil {
		return hints
	}

	var wg sync.WaitGroup
	for _, local := range localAddrs {
		wg.Add(1)
		go func(local netaddr.IPv4Address) {
			defer wg.Done()
			probeOnvifFrom(ctx, local, raddr, hints)
		}(local)
	}
	wg.Wait()

	return hints
}

func probeOnvifFrom(ctx context.Context, local netaddr.IPv4Address, raddr *net.UDPAddr, hints *HintSet) {
	if ctx.Err() != nil {
		return
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: local.ToNetIP()})
	if err != nil {
		return
	}
	defer conn.Close()

	deadline := time.Now().Add(onvifCollectWindow)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetDeadline(deadline)

	if _, err := conn.WriteToUDP(buildOnvifProbe(), raddr); err != nil {
		return
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
