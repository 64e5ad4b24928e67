// =============================================
// File: internal/engine/report.go
// =============================================
package engine

import (
	"fmt"

	"github.com/timurkhasanov/solana-bundler/internal/bundle"
)

// Report is the aggregate result of one operation. Orchestrators never
// return errors for business failures; everything the caller needs to
// render is here, with the outcome variant distinguishing partial landing
// from full success.
type Report struct {
	Operation string
	Mint      string
	OrderIDs  []string
	Outcome   bundle.Outcome
}

// Failed reports whether the operation produced nothing.
func (r *Report) Failed() bool {
	return r.Outcome.Kind == bundle.OutcomeFailed
}

// Err returns the first hard error encountered, if any.
func (r *Report) Err() error {
	return r.Outcome.Err
}

func (r *Report) String() string {
	if r.Mint != "" {
		return fmt.Sprintf("%s [%s]: %s", r.Operation, r.Mint, r.Outcome)
	}
	return fmt.Sprintf("%s: %s", r.Operation, r.Outcome)
}

func failedReport(operation string, err error) *Report {
	return &Report{Operation: operation, Outcome: bundle.Failure(0, err)}
}

// UnknownWalletError names a wallet the keyring does not hold.
type UnknownWalletError struct {
	Name string
}

func (e *UnknownWalletError) Error() string {
	return fmt.Sprintf("wallet %q not found", e.Name)
}
