package probe

import (
	"context"
	"net"
	"strconv"
	"syscall"
	"time"
)

// UDP receive windows for the three call sites that exchange
// datagrams.
const (
	UDPUnicastWindow      = 260 * time.Millisecond
	UDPOnvifWindow        = 1800 * time.Millisecond
	UDPTapoBroadcastWindow = 2200 * time.Millisecond
)

// UDPProbe binds an ephemeral socket, sends payload to target:port,
// and waits up to window for any datagram in reply. It reports
// whether a response arrived and the IP it came from. Any socket,
// send, or receive error (including a closed/filtered target) yields
// false; UDPProbe never returns an error.
func UDPProbe(ctx context.Context, targetIP string, port int, payload []byte, window time.Duration) (bool, net.IP) {
	if ctx.Err() != nil {
		return false, nil
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		return false, nil
	}
	defer conn.Close()

	deadline := time.Now().Add(window)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetDeadline(deadline)

	raddr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(targetIP, strconv.Itoa(port)))
	if err != nil {
		return false, nil
	}
	if _, err := conn.WriteToUDP(payload, raddr); err != nil {
		return false, nil
	}

	buf := make([]byte, 4096)
	n, from, err := conn.ReadFromUDP(buf)
	if err != nil || n == 0 {
		return false, nil
	}
	return true, from.IP
}

// OpenBroadcastSocket binds an ephemeral UDP socket on localAddr with
// broadcast sends enabled, for the discovery beacons that fan a
// payload out to both the global and a subnet's directed broadcast
// address. Enabling SO_BROADCAST is best-effort: if the platform
// doesn't support the syscall option the socket is still returned and
// sends to a broadcast address will simply fail per-packet, which the
// caller already treats as an absorbed probe failure.
func OpenBroadcastSocket(localAddr net.IP) (*net.UDPConn, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: localAddr})
	if err != nil {
		return nil, err
	}

	if raw, err := conn.SyscallConn(); err == nil {
		_ = raw.Control(func(fd uintptr) {
			_ = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_BROADCAST, 1)
		})
	}

	return conn, nil
}
