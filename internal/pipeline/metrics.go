package pipeline

import (
	"sync/atomic"
)

// Metrics contains the pipeline's counters.
type Metrics struct {
	ConsumerGroup string

	Batches        atomic.Uint64
	Records        atomic.Uint64
	RecordFailures atomic.Uint64
	DecodeFailures atomic.Uint64
	EventsEmitted  atomic.Uint64
	EmitErrors     atomic.Uint64
}

func NewMetrics(consumerGroup string) *Metrics {
	return &Metrics{ConsumerGroup: consumerGroup}
}

// Reset resets all counters to zero.
func (m *Metrics) Reset() {
	m.Batches.Store(0)
	m.Records.Store(0)
	m.RecordFailures.Store(0)
	m.DecodeFailures.Store(0)
	m.EventsEmitted.Store(0)
	m.EmitErrors.Store(0)
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Stats {
	return Stats{
		Batches:        m.Batches.Load(),
		Records:        m.Records.Load(),
		RecordFailures: m.RecordFailures.Load(),
		DecodeFailures: m.DecodeFailures.Load(),
		EventsEmitted:  m.EventsEmitted.Load(),
		EmitErrors:     m.EmitErrors.Load(),
	}
}

// Stats is a point-in-time copy of the pipeline counters.
type Stats struct {
	Batches        uint64
	Records        uint64
	RecordFailures uint64
	DecodeFailures uint64
	EventsEmitted  uint64
	EmitErrors     uint64
}
