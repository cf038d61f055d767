// Package config loads operator-tunable scan defaults from YAML,
// falling back to the values spec'd as fixed constants when no config
// file is present.
//
// Config file locations (priority order):
//  1. $TAPOSCAN_CONFIG
//  2. ./taposcan.yaml
//  3. $XDG_CONFIG_HOME/taposcan/config.yaml
//  4. ~/.config/taposcan/config.yaml
//  5. /etc/taposcan/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the scan knobs an operator may want to override. Every
// field defaults to the value spec'd as a fixed constant; a partial
// YAML document only needs to name the fields it changes.
type Config struct {
	// MaxParallelism bounds concurrent per-host probing (spec §4.8).
	MaxParallelism int `yaml:"max_parallelism,omitempty"`

	// ARPPrimeFanout bounds concurrent ARP-prime pings (spec §5, fixed
	// at 192 by the spec but exposed here for slower hosts).
	ARPPrimeFanout int `yaml:"arp_prime_fanout,omitempty"`
	// ARPPrimeHostLimit is the maximum number of addresses the
	// ARP-prime phase will ping (spec §4.5 step 2, fixed at 2048).
	ARPPrimeHostLimit int `yaml:"arp_prime_host_limit,omitempty"`
	// ARPPrimeTimeout is the per-ping timeout during ARP priming.
	ARPPrimeTimeout *Duration `yaml:"arp_prime_timeout,omitempty"`

	// ICMPHostTimeout is the per-host echo timeout during the main
	// probe fan-out.
	ICMPHostTimeout *Duration `yaml:"icmp_host_timeout,omitempty"`
	// ReverseDNSTimeout bounds the hostname lookup in spec §4.5 step 7.
	ReverseDNSTimeout *Duration `yaml:"reverse_dns_timeout,omitempty"`
	// HTTPFingerprintBudget bounds a single host's banner fetch.
	HTTPFingerprintBudget *Duration `yaml:"http_fingerprint_budget,omitempty"`
}

// Defaults returns the spec's fixed values (spec §4.3, §4.5, §5).
func Defaults() Config {
	arpPrime := Duration(170 * time.Millisecond)
	icmp := Duration(450 * time.Millisecond)
	dns := Duration(700 * time.Millisecond)
	http := Duration(2600 * time.Millisecond)
	return Config{
		MaxParallelism:        64,
		ARPPrimeFanout:        192,
		ARPPrimeHostLimit:     2048,
		ARPPrimeTimeout:       &arpPrime,
		ICMPHostTimeout:       &icmp,
		ReverseDNSTimeout:     &dns,
		HTTPFingerprintBudget: &http,
	}
}

// Load finds and loads the config file, merging it over Defaults(). If
// no config file is found, Defaults() is returned unchanged.
func Load() (Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return Defaults(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads a config file from a specific path, merging it
// over Defaults().
func LoadFromPath(path string) (Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, path, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Defaults()
	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Config{}, path, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.mergeFrom(override)

	return cfg, path, nil
}

func (c *Config) mergeFrom(o Config) {
	if o.MaxParallelism > 0 {
		c.MaxParallelism = o.MaxParallelism
	}
	if o.ARPPrimeFanout > 0 {
		c.ARPPrimeFanout = o.ARPPrimeFanout
	}
	if o.ARPPrimeHostLimit > 0 {
		c.ARPPrimeHostLimit = o.ARPPrimeHostLimit
	}
	if o.ARPPrimeTimeout != nil {
		c.ARPPrimeTimeout = o.ARPPrimeTimeout
	}
	if o.ICMPHostTimeout != nil {
		c.ICMPHostTimeout = o.ICMPHostTimeout
	}
	if o.ReverseDNSTimeout != nil {
		c.ReverseDNSTimeout = o.ReverseDNSTimeout
	}
	if o.HTTPFingerprintBudget != nil {
		c.HTTPFingerprintBudget = o.HTTPFingerprintBudget
	}
}
