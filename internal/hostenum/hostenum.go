package hostenum

import "taposcan/internal/netaddr"

// smallSubnetThreshold is the usable-host-count cutoff above which the
// large-subnet chunk selector takes over instead of full enumeration.
const smallSubnetThreshold = 4096

// chunkSize is the number of addresses in a /24-aligned chunk.
const chunkSize = 256

// maxChunks is the maximum number of /24 chunks the large-subnet
// selector will pick.
const maxChunks = 16

// Enumerate yields the host addresses to probe for subnet, in the order
// the spec's Host Enumerator produces them: full enumeration for small
// subnets, a biased chunk selection for large ones. The local address is
// never included.
func Enumerate(s netaddr.Subnet) []netaddr.IPv4Address {
	if s.HostCount() <= smallSubnetThreshold {
		return enumerateSmall(s)
	}
	return enumerateLarge(s)
}

func enumerateSmall(s netaddr.Subnet) []netaddr.IPv4Address {
	first, last := s.FirstHost(), s.LastHost()
	out := make([]netaddr.IPv4Address, 0, s.HostCount())
	for a := first; a <= last; a++ {
		if a == s.LocalAddress {
			continue
		}
		out = append(out, a)
		if a == last {
			break // avoid wraparound if last == max uint32
		}
	}
	return out
}

func enumerateLarge(s netaddr.Subnet) []netaddr.IPv4Address {
	chunks := selectChunkStarts(s)

	var out []netaddr.IPv4Address
	seen := make(map[netaddr.IPv4Address]bool)
	for _, chunkStart := range chunks {
		from := chunkStart.Add(1)
		to := chunkStart.Add(chunkSize - 2)
		for a := from; a <= to; a++ {
			if !s.Contains(a) {
				continue
			}
			if a == s.LocalAddress {
				continue
			}
			if seen[a] {
				continue
			}
			seen[a] = true
			out = append(out, a)
			if a == to {
				break
			}
		}
	}
	return out
}

// chunkOf returns the /24-aligned chunk start containing addr.
func chunkOf(addr netaddr.IPv4Address) netaddr.IPv4Address {
	return addr.Network(24)
}

// selectChunkStarts implements spec §4.2's large-subnet chunk selector,
// including its carried-forward quirk: the priority-(e) neighbor
// expansion returns immediately the first time it can't place a new
// chunk (neighbor outside the subnet, duplicate, or the 16-chunk cap
// already full), even though the priority-(f) evenly-strided fill that
// follows it might otherwise have found room for more. The first host's
// /24 is always a seed and its lower neighbor always falls outside the
// subnet, so fewer than 16 chunks is the common case, not an edge case.
func selectChunkStarts(s netaddr.Subnet) []netaddr.IPv4Address {
	seen := make(map[netaddr.IPv4Address]bool)
	var chunks []netaddr.IPv4Address

	add := func(addr netaddr.IPv4Address) bool {
		c := chunkOf(addr)
		if seen[c] {
			return false
		}
		if len(chunks) >= maxChunks {
			return false
		}
		seen[c] = true
		chunks = append(chunks, c)
		return true
	}

	// (a) the /24 containing the local address.
	add(s.LocalAddress)
	// (b) /24 of each gateway.
	for _, gw := range s.GatewayAddresses {
		add(gw)
	}
	// (c) /24 of the first host, (d) /24 of the last host.
	add(s.FirstHost())
	add(s.LastHost())

	seeds := append([]netaddr.IPv4Address(nil), chunks...)

	// (e) +-1 and +-2 neighboring /24s of any seed chunk. Bails out on
	// the very first placement failure instead of skipping past it.
	for _, seed := range seeds {
		for _, mult := range [...]int64{-1, 1, -2, 2} {
			neighbor := seed.Add(mult * chunkSize)
			if neighbor.Network(s.PrefixLength) != s.NetworkAddress || !add(neighbor) {
				return chunks
			}
		}
	}

	// (f) remaining slots filled by evenly-strided /24s across the
	// subnet. Only reached when (e) placed every neighbor candidate
	// inside the subnet without collision.
	fillEvenlyStrided(s, &chunks, seen)

	return chunks
}

func fillEvenlyStrided(s netaddr.Subnet, chunks *[]netaddr.IPv4Address, seen map[netaddr.IPv4Address]bool) {
	totalChunks := int64(1) << uint(s.HostBits()-8)
	if totalChunks < 1 {
		totalChunks = 1
	}
	remaining := maxChunks - len(*chunks)
	if remaining <= 0 {
		return
	}
	step := totalChunks / int64(remaining+1)
	if step < 1 {
		step = 1
	}
	base := s.NetworkAddress
	for i := int64(1); i <= totalChunks && len(*chunks) < maxChunks; i += step {
		candidate := base.Add(i * chunkSize)
		c := chunkOf(candidate)
		if seen[c] {
			continue
		}
		seen[c] = true
		*chunks = append(*chunks, c)
	}
}
