package event

import "errors"

// Error taxonomy for the core pipeline (spec §7). Only ErrConfigInvalid is
// fatal; every other condition is reported through a return value (an empty
// list, a zero count, a "not found" result) rather than an error, so callers
// never need to special-case a dropped event or a rejected fit.
var (
	// ErrConfigInvalid marks a configuration that failed validation at
	// construction time: non-positive dimensions, an unknown model string,
	// or a nonsensical threshold. Fatal; surfaced to the caller.
	ErrConfigInvalid = errors.New("event: invalid configuration")

	// ErrNoClustersFound names the case where a NormFlowPack yields no
	// cluster above the area threshold. Cluster extraction does not return
	// it: callers receive an empty circle list. It is available for code
	// that wants to distinguish "nothing to cluster" from "clustered but no
	// pairs matched".
	ErrNoClustersFound = errors.New("event: no normal-flow clusters found")

	// ErrNoCircleFit names the case where a chase/run pair's linear system
	// is singular or its average point-to-circle distance exceeds the
	// configured threshold. The circle fit does not return it: it reports
	// false, the pair is dropped, and extraction continues with the
	// remaining pairs.
	ErrNoCircleFit = errors.New("event: circle fit rejected")

	// ErrGridNotFound names the case where fewer than rows*cols points were
	// recovered, the detected shape didn't match the target, or the
	// simple-polygon validation failed. The grid finder does not return it:
	// it reports ok=false ("not found").
	ErrGridNotFound = errors.New("event: grid not found")
)
