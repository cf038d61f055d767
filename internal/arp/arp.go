package arp

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"taposcan/internal/netaddr"
)

// arpLinePattern matches a line of `arp -a` output of the form
// "<ip> <mac> <word>", e.g. "192.168.1.1 AC:84:C6:11:22:33 dynamic".
var arpLinePattern = regexp.MustCompile(`^\s*(\d{1,3}(?:\.\d{1,3}){3})\s+([0-9a-fA-F\-:]{17})\s+\w+`)

// ReadTable invokes the platform's arp listing tool and returns an
// IP-to-normalized-MAC map. A spawn or parse failure that is not
// caused by context cancellation degrades to an empty, non-nil map:
// a scan must still complete on hosts with no arp tool or no
// permission to run it. Cancellation, however, is reported to the
// caller rather than silently swallowed as an empty table.
func ReadTable(ctx context.Context) (map[netaddr.IPv4Address]string, error) {
	cmd := exec.CommandContext(ctx, "arp", "-a")
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return map[netaddr.IPv4Address]string{}, nil
	}
	return parseTable(output), nil
}

func parseTable(output []byte) map[netaddr.IPv4Address]string {
	table := make(map[netaddr.IPv4Address]string)

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		match := arpLinePattern.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		addr, ok := netaddr.ParseIPv4(match[1])
		if !ok {
			continue
		}
		mac, ok := NormalizeMAC(match[2])
		if !ok {
			continue
		}
		table[addr] = mac
	}

	return table
}

// NormalizeMAC converts a MAC address using either ':' or '-' octet
// separators into canonical uppercase colon-delimited form. It
// returns false if raw doesn't parse as six hex octets.
func NormalizeMAC(raw string) (string, bool) {
	parts := strings.Split(strings.ReplaceAll(raw, "-", ":"), ":")
	if len(parts) != 6 {
		return "", false
	}
	for i, p := range parts {
		if len(p) != 2 {
			return "", false
		}
		if _, err := strconv.ParseUint(p, 16, 8); err != nil {
			return "", false
		}
		parts[i] = strings.ToUpper(p)
	}
	return strings.Join(parts, ":"), true
}
