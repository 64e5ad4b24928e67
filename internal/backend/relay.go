// =============================================
// File: internal/backend/relay.go
// =============================================
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/timurkhasanov/solana-bundler/internal/bundle"
)

// RelayError is a failure the relay itself reported: the request made it
// through, the bundle was rejected. Distinguished from transport errors so
// the retry controller's consecutive-failure accounting only counts a
// relay that cannot be reached at all.
type RelayError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("relay error %d: %s", e.Code, e.Message)
}

// Rejected marks this as a relay-level rejection for retry accounting.
func (e *RelayError) Rejected() bool { return true }

// relayEnvelope mirrors the relay's response shape. The result payload is
// opaque to this layer and passed through untouched.
type relayEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *RelayError     `json:"error"`
}

// SubmitBundle posts one bundle's transactions to the relay endpoint. It
// never retries; retry policy belongs to the caller.
func (c *Client) SubmitBundle(ctx context.Context, b bundle.Bundle) (*bundle.Result, error) {
	body := struct {
		Transactions []string `json:"transactions"`
	}{Transactions: b.Transactions}

	var envelope relayEnvelope
	// Submissions are gated by the caller's submission limiter, not the
	// fetch limiter.
	if err := c.do(ctx, http.MethodPost, c.relayURL+"/api/transactions/send", body, &envelope, false); err != nil {
		return nil, err
	}

	if envelope.Error != nil {
		return nil, envelope.Error
	}

	var bundleID string
	// Best effort: many relays return a bare id string as the result.
	_ = json.Unmarshal(envelope.Result, &bundleID)

	c.logger.Debug("bundle accepted",
		zap.Int("bundle_index", b.Index),
		zap.Int("transactions", len(b.Transactions)),
		zap.String("bundle_id", bundleID))

	return &bundle.Result{BundleID: bundleID, Raw: envelope.Result}, nil
}
