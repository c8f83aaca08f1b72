// Package event implements the event-camera circle-grid extraction core:
// the Surface of Active Events (SAE), the per-pixel normal-flow estimator,
// and the shared geometric primitives the circle extractor and grid finder
// build on. Everything here is single-threaded cooperative: a caller drives
// the surface by feeding EventArrays and periodically asking for a
// NormFlowPack, never from more than one goroutine at a time.
package event
