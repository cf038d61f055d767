package arp

import "strings"

// tplinkOUIs is the fixed set of TP-Link-assigned OUI prefixes (the
// first three octets of a MAC address), uppercase and unseparated.
var tplinkOUIs = map[string]bool{
	"0846EA": true, "14CC20": true, "1C61B4": true, "246F28": true,
	"2C3AF2": true, "30B5C2": true, "488F5A": true, "50C7BF": true,
	"60E327": true, "74DA38": true, "84D81B": true, "8C3BA5": true,
	"98DA60": true, "A0F3C1": true, "AC84C6": true, "B0487A": true,
	"B09575": true, "C04A00": true, "C05627": true, "C46E1F": true,
	"D067E5": true, "D85D4C": true, "DC9FDB": true, "E894F6": true,
	"EC086B": true, "F4F26D": true, "FCECDA": true,
}

// IsTPLinkOUI reports whether mac's OUI (first six hex digits) is
// assigned to TP-Link. mac may use ':' or '-' separators, or none.
func IsTPLinkOUI(mac string) bool {
	stripped := strings.ToUpper(strings.NewReplacer(":", "", "-", "").Replace(mac))
	if len(stripped) < 6 {
		return false
	}
	return tplinkOUIs[stripped[:6]]
}
