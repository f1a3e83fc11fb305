package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

// OperationType defines the type of operation being tracked
type OperationType string

// Common operation types
const (
	OpMatch         OperationType = "match"
	OpRowTransition OperationType = "row_transition"
	OpReset         OperationType = "reset"
	OpSeekHint      OperationType = "seek_hint"
	OpScan          OperationType = "scan"
	OpCompact       OperationType = "compact"
)

// AtomicCollector provides centralized scan statistics collection with
// minimal contention using atomic operations for thread safety
type AtomicCollector struct {
	// Operation counters using atomic values
	counts   map[OperationType]*atomic.Uint64
	countsMu sync.RWMutex // Only used when creating new counter entries

	// Per-decision counters keyed by MatchCode name
	decisions   map[string]*atomic.Uint64
	decisionsMu sync.RWMutex

	// Timing measurements for last operation timestamps
	lastOpTime   map[OperationType]time.Time
	lastOpTimeMu sync.RWMutex

	// Volume metrics
	cellsExamined atomic.Uint64
	rowsScanned   atomic.Uint64

	// Error tracking
	errors   map[string]*atomic.Uint64
	errorsMu sync.RWMutex

	// Latency tracking
	latencies   map[OperationType]*LatencyTracker
	latenciesMu sync.RWMutex
}

// LatencyTracker accumulates running latency aggregates for one operation
type LatencyTracker struct {
	count atomic.Uint64
	sum   atomic.Uint64 // nanoseconds
	max   atomic.Uint64 // nanoseconds
}

// NewCollector creates a new statistics collector
func NewCollector() *AtomicCollector {
	return &AtomicCollector{
		counts:     make(map[OperationType]*atomic.Uint64),
		decisions:  make(map[string]*atomic.Uint64),
		lastOpTime: make(map[OperationType]time.Time),
		errors:     make(map[string]*atomic.Uint64),
		latencies:  make(map[OperationType]*LatencyTracker),
	}
}

// TrackOperation increments the counter for the specified operation
func (c *AtomicCollector) TrackOperation(op OperationType) {
	counter := c.getOrCreateCounter(op)
	counter.Add(1)

	c.lastOpTimeMu.Lock()
	c.lastOpTime[op] = time.Now()
	c.lastOpTimeMu.Unlock()
}

// TrackOperationWithLatency records an operation and its latency
func (c *AtomicCollector) TrackOperationWithLatency(op OperationType, latencyNs uint64) {
	c.TrackOperation(op)

	c.latenciesMu.RLock()
	tracker, exists := c.latencies[op]
	c.latenciesMu.RUnlock()

	if !exists {
		c.latenciesMu.Lock()
		tracker, exists = c.latencies[op]
		if !exists {
			tracker = &LatencyTracker{}
			c.latencies[op] = tracker
		}
		c.latenciesMu.Unlock()
	}

	tracker.count.Add(1)
	tracker.sum.Add(latencyNs)
	for {
		max := tracker.max.Load()
		if latencyNs <= max || tracker.max.CompareAndSwap(max, latencyNs) {
			break
		}
	}
}

// TrackDecision increments the counter for a visibility decision
func (c *AtomicCollector) TrackDecision(decision string) {
	c.decisionsMu.RLock()
	counter, exists := c.decisions[decision]
	c.decisionsMu.RUnlock()

	if !exists {
		c.decisionsMu.Lock()
		counter, exists = c.decisions[decision]
		if !exists {
			counter = &atomic.Uint64{}
			c.decisions[decision] = counter
		}
		c.decisionsMu.Unlock()
	}
	counter.Add(1)
}

// TrackCellsExamined adds to the count of cells fed to the matcher
func (c *AtomicCollector) TrackCellsExamined(count uint64) {
	c.cellsExamined.Add(count)
}

// TrackRowTransition increments the rows-scanned counter
func (c *AtomicCollector) TrackRowTransition() {
	c.rowsScanned.Add(1)
}

// TrackError increments the counter for the specified error type
func (c *AtomicCollector) TrackError(errorType string) {
	c.errorsMu.RLock()
	counter, exists := c.errors[errorType]
	c.errorsMu.RUnlock()

	if !exists {
		c.errorsMu.Lock()
		counter, exists = c.errors[errorType]
		if !exists {
			counter = &atomic.Uint64{}
			c.errors[errorType] = counter
		}
		c.errorsMu.Unlock()
	}
	counter.Add(1)
}

// GetStats returns all statistics as a map
func (c *AtomicCollector) GetStats() map[string]interface{} {
	stats := make(map[string]interface{})

	c.countsMu.RLock()
	for op, counter := range c.counts {
		stats[string(op)+"_ops"] = counter.Load()
	}
	c.countsMu.RUnlock()

	c.decisionsMu.RLock()
	for decision, counter := range c.decisions {
		stats["decision_"+decision] = counter.Load()
	}
	c.decisionsMu.RUnlock()

	stats["cells_examined"] = c.cellsExamined.Load()
	stats["rows_scanned"] = c.rowsScanned.Load()

	c.errorsMu.RLock()
	for errType, counter := range c.errors {
		stats["error_"+errType] = counter.Load()
	}
	c.errorsMu.RUnlock()

	c.latenciesMu.RLock()
	for op, tracker := range c.latencies {
		count := tracker.count.Load()
		if count == 0 {
			continue
		}
		stats[string(op)+"_latency_avg_ns"] = tracker.sum.Load() / count
		stats[string(op)+"_latency_max_ns"] = tracker.max.Load()
	}
	c.latenciesMu.RUnlock()

	c.lastOpTimeMu.RLock()
	for op, t := range c.lastOpTime {
		stats[string(op)+"_last_op_time"] = t
	}
	c.lastOpTimeMu.RUnlock()

	return stats
}

// GetStatsFiltered returns statistics with keys matching the given prefix
func (c *AtomicCollector) GetStatsFiltered(prefix string) map[string]interface{} {
	all := c.GetStats()
	if prefix == "" {
		return all
	}
	filtered := make(map[string]interface{})
	for k, v := range all {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			filtered[k] = v
		}
	}
	return filtered
}

func (c *AtomicCollector) getOrCreateCounter(op OperationType) *atomic.Uint64 {
	c.countsMu.RLock()
	counter, exists := c.counts[op]
	c.countsMu.RUnlock()

	if !exists {
		c.countsMu.Lock()
		counter, exists = c.counts[op]
		if !exists {
			counter = &atomic.Uint64{}
			c.counts[op] = counter
		}
		c.countsMu.Unlock()
	}
	return counter
}
