package filesystem

// Observer records retry activity. The metrics package implements it so
// this package does not import metrics.
type Observer interface {
	// ObserveStaleError records one ESTALE result for operation ("stat", "open").
	ObserveStaleError(operation string)
	// ObserveRetryOutcome records how a retried operation ended:
	// "success" or "failure".
	ObserveRetryOutcome(operation, outcome string)
}

var defaultObserver Observer

// SetObserver sets the package-level observer. Call it once at startup.
func SetObserver(o Observer) {
	defaultObserver = o
}
