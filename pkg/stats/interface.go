package stats

// Provider defines the interface for components that provide statistics
type Provider interface {
	// GetStats returns all statistics
	GetStats() map[string]interface{}

	// GetStatsFiltered returns statistics filtered by prefix
	GetStatsFiltered(prefix string) map[string]interface{}
}

// Collector interface defines methods for collecting scan statistics
type Collector interface {
	Provider

	// TrackOperation records a single operation
	TrackOperation(op OperationType)

	// TrackOperationWithLatency records an operation with its latency
	TrackOperationWithLatency(op OperationType, latencyNs uint64)

	// TrackDecision increments the counter for a visibility decision
	TrackDecision(decision string)

	// TrackCellsExamined adds to the count of cells fed to the matcher
	TrackCellsExamined(count uint64)

	// TrackRowTransition increments the rows-scanned counter
	TrackRowTransition()

	// TrackError increments the counter for the specified error type
	TrackError(errorType string)
}

// Ensure AtomicCollector implements the Collector interface
var _ Collector = (*AtomicCollector)(nil)
