package probe

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"
)

func TestTPLinkCipherRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte(`{"system":{"get_sysinfo":{}}}`),
		[]byte(`{"method":"getDeviceInfo","params":null}`),
		[]byte(""),
		[]byte("a"),
	}

	for _, p := range payloads {
		obfuscated := TPLinkObfuscate(p)
		recovered := TPLinkDeobfuscate(obfuscated)
		if !bytes.Equal(p, recovered) {
			t.Errorf("round trip failed for %q: got %q", p, recovered)
		}
	}
}

func TestSortPorts(t *testing.T) {
	got := SortPorts([]int{443, 80, 443, 8080, 80})
	want := []int{80, 443, 8080}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTCPConnectClosedPort(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("setup listener: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close() // nothing listening now; the port should refuse

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if TCPConnect(ctx, "127.0.0.1", addr.Port) {
		t.Error("expected connect to a closed port to fail")
	}
}

func TestTCPConnectOpenPort(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("setup listener: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if !TCPConnect(ctx, "127.0.0.1", addr.Port) {
		t.Error("expected connect to an open port to succeed")
	}
}

func TestUDPProbeEcho(t *testing.T) {
	server, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	if err != nil {
		t.Fatalf("setup server: %v", err)
	}
	defer server.Close()

	go func() {
		buf := make([]byte, 1024)
		n, from, err := server.ReadFromUDP(buf)
		if err != nil {
			return
		}
		server.WriteToUDP(buf[:n], from)
	}()

	port := server.LocalAddr().(*net.UDPAddr).Port
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ok, from := UDPProbe(ctx, "127.0.0.1", port, []byte("hello"), UDPUnicastWindow)
	if !ok {
		t.Fatal("expected a response")
	}
	if from == nil || !from.IsLoopback() {
		t.Errorf("expected loopback source, got %v", from)
	}
}

func TestUDPProbeNoResponse(t *testing.T) {
	server, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	if err != nil {
		t.Fatalf("setup server: %v", err)
	}
	port := server.LocalAddr().(*net.UDPAddr).Port
	server.Close() // nothing listening; no datagram will come back

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	ok, _ := UDPProbe(ctx, "127.0.0.1", port, []byte("hello"), 100*time.Millisecond)
	if ok {
		t.Error("expected no response")
	}
}
