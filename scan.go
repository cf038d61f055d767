package taposcan

import (
	"context"
	"errors"

	"taposcan/internal/config"
	"taposcan/internal/diagnostics"
	"taposcan/internal/orchestrator"
)

// DefaultMaxParallelism is the bound Scan uses when called through
// ScanDefault, matching spec §4.8's default of 64.
const DefaultMaxParallelism = 64

// ErrInvalidArgument is returned synchronously, before any I/O, when
// maxParallelism is less than 1.
var ErrInvalidArgument = errors.New("taposcan: max_parallelism must be >= 1")

// Detection and ScanDiagnostics are the two external result records
// spec §3 defines; they're re-exported from internal/diagnostics so
// callers never need to import an internal package.
type (
	Detection            = diagnostics.Detection
	CandidateDiagnostics = diagnostics.CandidateDiagnostics
	ScanDiagnostics      = diagnostics.ScanDiagnostics
)

// Scan enumerates the local network, gathers evidence, classifies
// every responsive host, and returns the ordered LIKELY detections
// plus a full diagnostics record. maxParallelism bounds concurrent
// per-host probing and must be at least 1.
//
// The returned error is either ErrInvalidArgument (checked
// synchronously, before any socket is opened) or a context
// cancellation/deadline error propagated from an in-flight probe; a
// cancelled scan never returns partial detections.
func Scan(ctx context.Context, maxParallelism int) ([]Detection, ScanDiagnostics, error) {
	if maxParallelism < 1 {
		return nil, ScanDiagnostics{}, ErrInvalidArgument
	}

	cfg, _, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}
	cfg.MaxParallelism = maxParallelism

	orch := orchestrator.New(cfg)
	return orch.Run(ctx)
}

// ScanDefault runs Scan with DefaultMaxParallelism.
func ScanDefault(ctx context.Context) ([]Detection, ScanDiagnostics, error) {
	return Scan(ctx, DefaultMaxParallelism)
}

// Detect is a convenience variant that discards diagnostics.
func Detect(ctx context.Context, maxParallelism int) ([]Detection, error) {
	detections, _, err := Scan(ctx, maxParallelism)
	return detections, err
}
