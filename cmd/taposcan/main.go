// Command taposcan runs one discovery sweep and prints the resulting
// detections and diagnostics to stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taposcan"
)

func main() {
	maxParallelism := flag.Int("parallelism", taposcan.DefaultMaxParallelism, "bounded concurrency for per-host probing")
	timeout := flag.Duration("timeout", 30*time.Second, "overall wall-clock budget for the sweep")
	jsonOutput := flag.Bool("json", false, "print diagnostics as JSON instead of a human-readable summary")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	log.Printf("taposcan: starting sweep (max_parallelism=%d, timeout=%s)", *maxParallelism, *timeout)
	start := time.Now()

	detections, diag, err := taposcan.Scan(ctx, *maxParallelism)
	if err != nil {
		if errors.Is(err, taposcan.ErrInvalidArgument) {
			log.Fatalf("taposcan: %v", err)
		}
		log.Fatalf("taposcan: sweep did not complete: %v", err)
	}

	log.Printf("taposcan: sweep finished in %s, %d responsive hosts, %d detections",
		time.Since(start), diag.ResponsiveHostCount, len(detections))

	if *jsonOutput {
		printJSON(detections, diag)
		return
	}
	printSummary(detections, diag)
}

func printJSON(detections []taposcan.Detection, diag taposcan.ScanDiagnostics) {
	out := struct {
		Detections  []taposcan.Detection     `json:"detections"`
		Diagnostics taposcan.ScanDiagnostics `json:"diagnostics"`
	}{detections, diag}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("taposcan: encode output: %v", err)
	}
}

func printSummary(detections []taposcan.Detection, diag taposcan.ScanDiagnostics) {
	fmt.Println("Scanned subnets:")
	for _, s := range diag.SubnetsScanned {
		fmt.Printf("  %s\n", s)
	}

	fmt.Println()
	if len(detections) == 0 {
		fmt.Println("No likely Tapo cameras found.")
	} else {
		fmt.Printf("%d likely Tapo camera(s):\n", len(detections))
		for _, d := range detections {
			fmt.Printf("  %s  confidence=%.2f  ports=%v\n", d.IP, d.Confidence, d.OpenPorts)
			if d.Hostname != "" {
				fmt.Printf("    hostname: %s\n", d.Hostname)
			}
			if d.MAC != "" {
				fmt.Printf("    mac: %s\n", d.MAC)
			}
			fmt.Printf("    reason: %s\n", d.Reason)
		}
	}

	fmt.Println()
	fmt.Printf("hosts enumerated=%d arp_seeds=%d onvif_hints=%d tapo_broadcast_hints=%d tapo_unicast_hints=%d responsive=%d candidates=%d\n",
		diag.EnumeratedHostCount, diag.ARPSeedCount, diag.ONVIFHintCount,
		diag.TapoBroadcastHintCount, diag.TapoUnicastHintCount,
		diag.ResponsiveHostCount, len(diag.Candidates))
}
