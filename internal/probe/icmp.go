package probe

import (
	"context"
	"os/exec"
	"strconv"
	"time"
)

// ICMP timeouts for the two call sites that use echo requests.
const (
	ICMPHostProbeTimeout = 450 * time.Millisecond
	ICMPARPPrimeTimeout  = 170 * time.Millisecond
)

// ICMPEcho sends a single echo request to ip by shelling out to the
// system ping binary, the same approach the original verifier used to
// avoid the raw-socket privileges ICMP normally requires. Any failure
// to start the process, a non-zero exit, or an exceeded timeout
// reports false; ICMPEcho never returns an error.
func ICMPEcho(ctx context.Context, ip string, timeout time.Duration) bool {
	timeoutSec := int(timeout.Seconds())
	if timeoutSec < 1 {
		timeoutSec = 1
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "ping", "-c", "1", "-W", strconv.Itoa(timeoutSec), ip)
	if err := cmd.Run(); err != nil {
		return false
	}
	return true
}
