// =============================================
// File: internal/bundle/outcome.go
// =============================================
package bundle

import "fmt"

// OutcomeKind distinguishes full success, partial landing, and failure.
// A boolean cannot express "3 of 5 bundles landed", and callers were known
// to mistake partial landing for full success.
type OutcomeKind int

const (
	OutcomeComplete OutcomeKind = iota
	OutcomePartial
	OutcomeFailed
)

// Outcome is the aggregate result of one operation's submission wave.
type Outcome struct {
	Kind      OutcomeKind
	Succeeded int
	Failed    int
	Err       error
}

// Complete marks a wave where every sub-unit landed.
func Complete(n int) Outcome {
	return Outcome{Kind: OutcomeComplete, Succeeded: n}
}

// Partial marks a wave with mixed results.
func Partial(succeeded, failed int, firstErr error) Outcome {
	return Outcome{Kind: OutcomePartial, Succeeded: succeeded, Failed: failed, Err: firstErr}
}

// Failure marks a wave that produced nothing.
func Failure(failed int, err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Failed: failed, Err: err}
}

// Summarize classifies counts into the right variant.
func Summarize(succeeded, failed int, firstErr error) Outcome {
	switch {
	case failed == 0:
		return Complete(succeeded)
	case succeeded == 0:
		return Failure(failed, firstErr)
	default:
		return Partial(succeeded, failed, firstErr)
	}
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeComplete:
		return fmt.Sprintf("complete (%d succeeded)", o.Succeeded)
	case OutcomePartial:
		return fmt.Sprintf("partial (%d succeeded, %d failed)", o.Succeeded, o.Failed)
	default:
		if o.Err != nil {
			return fmt.Sprintf("failed: %v", o.Err)
		}
		return "failed"
	}
}
