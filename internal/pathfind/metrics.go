package pathfind

import "sync/atomic"

// Metrics accumulates counters over many searches. It is safe for
// concurrent use and never feeds back into search results.
type Metrics struct {
	searches      atomic.Int64
	found         atomic.Int64
	probeHits     atomic.Int64
	budgetHits    atomic.Int64
	nodesExpanded atomic.Int64
	snapInspected atomic.Int64
	truncated     atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Searches      int64 `yaml:"searches"`
	Found         int64 `yaml:"found"`
	ProbeHits     int64 `yaml:"probe_hits"`
	BudgetHits    int64 `yaml:"budget_hits"`
	NodesExpanded int64 `yaml:"nodes_expanded"`
	SnapInspected int64 `yaml:"snap_inspected"`
	Truncated     int64 `yaml:"truncated"`
}

// Snapshot captures the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Searches:      m.searches.Load(),
		Found:         m.found.Load(),
		ProbeHits:     m.probeHits.Load(),
		BudgetHits:    m.budgetHits.Load(),
		NodesExpanded: m.nodesExpanded.Load(),
		SnapInspected: m.snapInspected.Load(),
		Truncated:     m.truncated.Load(),
	}
}

// Reset zeroes all counters.
func (m *Metrics) Reset() {
	if m == nil {
		return
	}
	m.searches.Store(0)
	m.found.Store(0)
	m.probeHits.Store(0)
	m.budgetHits.Store(0)
	m.nodesExpanded.Store(0)
	m.snapInspected.Store(0)
	m.truncated.Store(0)
}

func (m *Metrics) recordExpanded() {
	if m != nil {
		m.nodesExpanded.Add(1)
	}
}

func (m *Metrics) recordSearch(res *Result) {
	if m == nil {
		return
	}
	m.searches.Add(1)
	m.snapInspected.Add(int64(res.Stats.SnapInspected))
	if res.Found() {
		m.found.Add(1)
	}
	if res.Stats.QuickProbeHit {
		m.probeHits.Add(1)
	}
	if res.Reason == ReasonBudget {
		m.budgetHits.Add(1)
	}
	if res.Stats.Truncated {
		m.truncated.Add(1)
	}
}
