package extract

import (
	"fmt"

	"raw-loader/internal/pixel"
)

// Outcome discriminates a Result.
type Outcome int

const (
	// OutcomeSuccess carries a pixel buffer.
	OutcomeSuccess Outcome = iota
	// OutcomeUnavailable means the source does not exist for this file.
	OutcomeUnavailable
	// OutcomeFailed means the source existed but could not be used.
	OutcomeFailed
)

// Outcomes lists every outcome, for label pre-population.
var Outcomes = []Outcome{OutcomeSuccess, OutcomeUnavailable, OutcomeFailed}

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result is the outcome of a single strategy attempt. Only the field that
// matches Outcome is meaningful.
type Result struct {
	Outcome Outcome
	Buffer  *pixel.PixelBuffer
	Reason  string
	Err     error
}

// Success wraps a decoded buffer.
func Success(buf *pixel.PixelBuffer) Result {
	return Result{Outcome: OutcomeSuccess, Buffer: buf}
}

// Unavailable records why a source could not be consulted.
func Unavailable(reason string) Result {
	return Result{Outcome: OutcomeUnavailable, Reason: reason}
}

// Failed records the error from a source that should have worked.
func Failed(err error) Result {
	return Result{Outcome: OutcomeFailed, Err: err}
}

func (r Result) String() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return fmt.Sprintf("success(%s)", r.Buffer)
	case OutcomeUnavailable:
		return fmt.Sprintf("unavailable(%s)", r.Reason)
	case OutcomeFailed:
		return fmt.Sprintf("failed(%v)", r.Err)
	}
	return r.Outcome.String()
}
