package metrics

import (
	"sync"
	"time"
)

// Outcome of a mutating operation.
const (
	OutcomeRemote   = "remote"
	OutcomeLocal    = "local"
	OutcomeRejected = "rejected"
)

// Metrics collects operation counters for the service.
type Metrics struct {
	mu sync.Mutex

	outcomes     map[string]map[string]int64 // entity -> outcome -> count
	remoteErrors int64
	realtime     map[string]int64 // stream -> received count
	lastFlush    time.Time
	flushes      int64
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{
		outcomes: make(map[string]map[string]int64),
		realtime: make(map[string]int64),
	}
}

// RecordOperation counts one terminal operation outcome for an entity.
func (m *Metrics) RecordOperation(entity, outcome string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	byOutcome, ok := m.outcomes[entity]
	if !ok {
		byOutcome = make(map[string]int64)
		m.outcomes[entity] = byOutcome
	}
	byOutcome[outcome]++
	if outcome == OutcomeLocal {
		m.remoteErrors++
	}
}

// RecordRealtime counts one realtime event merged from a stream.
func (m *Metrics) RecordRealtime(stream string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.realtime[stream]++
}

// RecordSnapshotFlush marks a completed local snapshot flush.
func (m *Metrics) RecordSnapshotFlush() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	m.lastFlush = time.Now()
}

// Snapshot returns the current counters for the metrics endpoint.
func (m *Metrics) Snapshot() map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	outcomes := make(map[string]map[string]int64, len(m.outcomes))
	for entity, byOutcome := range m.outcomes {
		copied := make(map[string]int64, len(byOutcome))
		for k, v := range byOutcome {
			copied[k] = v
		}
		outcomes[entity] = copied
	}
	realtime := make(map[string]int64, len(m.realtime))
	for k, v := range m.realtime {
		realtime[k] = v
	}

	out := map[string]interface{}{
		"operations":      outcomes,
		"remote_failures": m.remoteErrors,
		"realtime_events": realtime,
		"snapshot_flushes": m.flushes,
	}
	if !m.lastFlush.IsZero() {
		out["last_snapshot_flush"] = m.lastFlush
	}
	return out
}
