// =============================================
// File: internal/jito/jito.go
// =============================================

// Package jito submits assembled bundles straight to a Jito block engine,
// bypassing the backend relay. The five-transaction bundle cap the
// assembler enforces is the engine's own limit.
package jito

import (
	"context"
	"encoding/json"
	"fmt"

	jitorpc "github.com/jito-labs/jito-go-rpc"
	"go.uber.org/zap"

	"github.com/timurkhasanov/solana-bundler/internal/bundle"
)

// DefaultBlockEngine is the mainnet block engine endpoint.
const DefaultBlockEngine = "https://mainnet.block-engine.jito.wtf/api/v1"

// Client is a thin relay adapter over the Jito JSON-RPC client. It fits
// the same Submitter contract as the backend relay and, like it, never
// retries internally.
type Client struct {
	rpc    *jitorpc.JitoJsonRpcClient
	logger *zap.Logger
}

func NewClient(endpoint, uuid string, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultBlockEngine
	}
	return &Client{
		rpc:    jitorpc.NewJitoJsonRpcClient(endpoint, uuid),
		logger: logger.Named("jito"),
	}
}

// SubmitBundle sends one bundle to the block engine. Transactions are
// forwarded in the wire encoding the signer produced.
func (c *Client) SubmitBundle(ctx context.Context, b bundle.Bundle) (*bundle.Result, error) {
	if len(b.Transactions) == 0 {
		return nil, fmt.Errorf("bundle requires at least one transaction")
	}
	if len(b.Transactions) > bundle.MaxTransactions {
		return nil, fmt.Errorf("bundle exceeds engine limit: %d transactions", len(b.Transactions))
	}

	rawResp, err := c.rpc.SendBundle([][]string{b.Transactions})
	if err != nil {
		return nil, fmt.Errorf("jito send bundle: %w", err)
	}

	var bundleID string
	if err := json.Unmarshal(rawResp, &bundleID); err != nil {
		return nil, fmt.Errorf("unmarshal bundle response: %w", err)
	}

	c.logger.Debug("bundle accepted by block engine",
		zap.Int("bundle_index", b.Index),
		zap.Int("transactions", len(b.Transactions)),
		zap.String("bundle_id", bundleID))

	return &bundle.Result{BundleID: bundleID, Raw: rawResp}, nil
}

// BundleStatuses polls landing status for submitted bundles.
func (c *Client) BundleStatuses(ctx context.Context, bundleIDs []string) (*jitorpc.BundleStatusResponse, error) {
	statuses, err := c.rpc.GetBundleStatuses(bundleIDs)
	if err != nil {
		return nil, fmt.Errorf("get bundle statuses: %w", err)
	}
	return statuses, nil
}
