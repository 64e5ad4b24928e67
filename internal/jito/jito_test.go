package jito

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/timurkhasanov/solana-bundler/internal/bundle"
)

func TestSubmitBundleValidation(t *testing.T) {
	c := NewClient(DefaultBlockEngine, "", zap.NewNop())

	_, err := c.SubmitBundle(context.Background(), bundle.Bundle{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one")

	oversized := bundle.Bundle{Transactions: make([]string, bundle.MaxTransactions+1)}
	_, err = c.SubmitBundle(context.Background(), oversized)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestNewClientDefaultsEndpoint(t *testing.T) {
	c := NewClient("", "uuid-1", zap.NewNop())
	require.NotNil(t, c.rpc)
}
