package telemetry

// NewForTesting returns a no-op telemetry instance for use in tests,
// letting real components run with telemetry completely disabled.
func NewForTesting() Telemetry {
	return NewNoop()
}
