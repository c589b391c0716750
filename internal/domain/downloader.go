package domain

import "context"

// Strategy identifies one of the download mechanisms
type Strategy string

const (
	StrategyCallback Strategy = "callback" // event-driven request object
	StrategyStream   Strategy = "stream"   // chunked pull loop
)

// ValidateStrategy checks if a strategy is valid
func ValidateStrategy(strategy Strategy) bool {
	return strategy == StrategyCallback || strategy == StrategyStream
}

// Downloader defines the interface shared by both download strategies
type Downloader interface {
	// Download fetches the Transfer Target and reports progress and the
	// preview (or an error message) to view. Failures never escape as errors;
	// they are written to the view and summarised in the returned Outcome.
	Download(ctx context.Context, view View) *Outcome

	// Strategy returns the strategy this downloader implements
	Strategy() Strategy
}

// OutcomeKind classifies how a download call ended
type OutcomeKind string

const (
	OutcomeCompleted      OutcomeKind = "completed"
	OutcomeStatusError    OutcomeKind = "status_error"
	OutcomeTransportError OutcomeKind = "transport_error"
	OutcomeMissingLength  OutcomeKind = "missing_length"
	OutcomeStreamError    OutcomeKind = "stream_error"
	OutcomeCancelled      OutcomeKind = "cancelled"
)

// Outcome summarises a finished download call
type Outcome struct {
	Kind          OutcomeKind
	StatusCode    int
	BytesReceived int64
	BytesTotal    int64 // -1 when unknown
	Preview       string
	Message       string
	Err           error
}

// Succeeded reports whether the download completed
func (o *Outcome) Succeeded() bool {
	return o.Kind == OutcomeCompleted
}
