// Package scan implements an in-memory, single-threaded pipeline that turns
// successive polar range-sensor scans into tracked-object output. It learns
// a per-angular-bin background model, clusters the foreground returns that
// remain after background subtraction, and associates clusters across
// frames into persistent tracks with velocity-based dead reckoning.
//
// Callers own serialization: nothing in this package takes a lock, so a
// Processor must not be shared across goroutines without external
// synchronization.
package scan
