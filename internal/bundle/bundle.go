// =============================================
// File: internal/bundle/bundle.go
// =============================================
package bundle

import (
	"encoding/json"
	"fmt"
)

// MaxTransactions is the relay-imposed ceiling on transactions per bundle.
const MaxTransactions = 5

// Bundle is an ordered, bounded group of wire-encoded signed transactions.
// Order carries data dependencies (a mint creation precedes its buys), so
// nothing may reorder the contents.
type Bundle struct {
	Index        int
	Transactions []string
}

// Result is the terminal outcome of submitting one bundle.
type Result struct {
	BundleID string
	Raw      json.RawMessage
	Err      error
}

// OK reports whether the relay accepted the bundle.
func (r *Result) OK() bool {
	return r != nil && r.Err == nil
}

// Assemble splits transactions into contiguous bundles of at most
// maxPerBundle, preserving input order. Nonempty input always produces at
// least one bundle.
func Assemble(transactions []string, maxPerBundle int) ([]Bundle, error) {
	if maxPerBundle <= 0 {
		return nil, fmt.Errorf("invalid bundle size cap: %d", maxPerBundle)
	}
	if len(transactions) == 0 {
		return nil, nil
	}

	bundles := make([]Bundle, 0, (len(transactions)+maxPerBundle-1)/maxPerBundle)
	for start := 0; start < len(transactions); start += maxPerBundle {
		end := start + maxPerBundle
		if end > len(transactions) {
			end = len(transactions)
		}
		bundles = append(bundles, Bundle{
			Index:        len(bundles),
			Transactions: transactions[start:end],
		})
	}
	return bundles, nil
}
