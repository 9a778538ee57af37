// Package metrics provides the MetricsRecorder interface and a noop implementation.
package metrics

import "time"

// MetricsRecorder is the interface for recording persistence metrics.
// format is the codec name that served the file ("xml", "msgpack", ...).
type MetricsRecorder interface {
	RecordHit(format string)
	RecordMiss(format string)
	RecordCreate(format string)
	RecordLatency(op string, d time.Duration)
	RecordError(op string)
}

// Noop is a MetricsRecorder that discards all data.
type Noop struct{}

func (Noop) RecordHit(format string)                  {}
func (Noop) RecordMiss(format string)                 {}
func (Noop) RecordCreate(format string)               {}
func (Noop) RecordLatency(op string, d time.Duration) {}
func (Noop) RecordError(op string)                    {}
