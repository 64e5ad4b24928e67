// =============================================
// File: internal/engine/limit.go
// =============================================
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/timurkhasanov/solana-bundler/internal/backend"
	"github.com/timurkhasanov/solana-bundler/internal/bundle"
	"github.com/timurkhasanov/solana-bundler/internal/logger"
	"github.com/timurkhasanov/solana-bundler/internal/wallet"
)

// LimitOrder describes one order to place; the named wallet is the maker
// and the only signer.
type LimitOrder struct {
	WalletName      string
	Mint            string
	Side            string // "buy" or "sell"
	AmountSol       float64
	TriggerPrice    float64
	SlippagePercent float64
}

// PlaceLimitOrders creates a batch of limit orders. Signing is
// maker-only; there is no multi-party signature pattern on this path.
func (e *Engine) PlaceLimitOrders(ctx context.Context, orders []LimitOrder) *Report {
	const opName = "limit-create"
	log := logger.WithOperation(e.logger, opName)

	specs, makers, err := e.validateLimitOrders(orders)
	if err != nil {
		log.Warn("validation failed", zap.Error(err))
		return failedReport(opName, err)
	}

	var resp *backend.CreateLimitResponse
	if len(specs) == 1 {
		created, err := e.fetcher.CreateLimitOrder(ctx, specs[0])
		if err != nil {
			log.Error("failed to fetch order transaction", zap.Error(err))
			return failedReport(opName, err)
		}
		resp = &backend.CreateLimitResponse{Orders: []backend.LimitOrderCreated{*created}}
	} else {
		resp, err = e.fetcher.CreateLimitOrders(ctx, specs)
		if err != nil {
			log.Error("failed to fetch order transactions", zap.Error(err))
			return failedReport(opName, err)
		}
	}
	if len(resp.Orders) == 0 {
		return failedReport(opName, fmt.Errorf("backend returned no orders"))
	}

	ring := wallet.NewKeyring(makers...)
	encoded := make([]string, len(resp.Orders))
	orderIDs := make([]string, len(resp.Orders))
	for i, o := range resp.Orders {
		encoded[i] = o.Transaction
		orderIDs[i] = o.OrderID
	}

	signed, signErrs := e.signer.SignAll(encoded, ring)

	// An order whose transaction cannot be signed stays unsent; the rest
	// of the batch proceeds without it.
	if len(signErrs) > 0 {
		bad := make(map[int]bool, len(signErrs))
		for _, se := range signErrs {
			bad[se.Index] = true
		}
		keptTxs := signed[:0]
		keptIDs := orderIDs[:0]
		for i := range signed {
			if !bad[i] {
				keptTxs = append(keptTxs, signed[i])
				keptIDs = append(keptIDs, orderIDs[i])
			}
		}
		signed, orderIDs = keptTxs, keptIDs
		log.Warn("some order transactions were skipped",
			zap.Int("skipped", len(signErrs)),
			zap.Int("remaining", len(signed)))
	}
	if len(signed) == 0 {
		return failedReport(opName, fmt.Errorf("no order could be signed: %w", signErrs[0]))
	}

	bundles, err := bundle.Assemble(signed, e.opts.MaxBundleSize)
	if err != nil {
		return failedReport(opName, err)
	}

	outcome := e.submitWave(ctx, log, bundles, Sequential)
	if len(signErrs) > 0 {
		firstErr := outcome.Err
		if firstErr == nil {
			firstErr = signErrs[0]
		}
		outcome = bundle.Summarize(outcome.Succeeded, outcome.Failed+len(signErrs), firstErr)
	}
	return &Report{Operation: opName, OrderIDs: orderIDs, Outcome: outcome}
}

// CancelLimitOrder cancels one order; same single-signer path as
// placement.
func (e *Engine) CancelLimitOrder(ctx context.Context, walletName, orderID string) *Report {
	const opName = "limit-cancel"
	log := logger.WithOperation(e.logger, opName).With(zap.String("order_id", orderID))

	maker, err := e.walletByName(walletName)
	if err != nil {
		return failedReport(opName, err)
	}
	if orderID == "" {
		return failedReport(opName, fmt.Errorf("order id is empty"))
	}

	resp, err := e.fetcher.CancelLimitOrder(ctx, maker.PublicKey.String(), orderID)
	if err != nil {
		log.Error("failed to fetch cancellation transaction", zap.Error(err))
		return failedReport(opName, err)
	}

	signed, err := e.signer.Sign(resp.Transaction, wallet.NewKeyring(maker))
	if err != nil {
		return failedReport(opName, fmt.Errorf("failed to sign cancellation: %w", err))
	}

	outcome := e.submitWave(ctx, log, []bundle.Bundle{{Transactions: []string{signed}}}, Sequential)
	return &Report{Operation: opName, OrderIDs: []string{orderID}, Outcome: outcome}
}

// ActiveLimitOrders lists open orders made by the named wallet.
func (e *Engine) ActiveLimitOrders(ctx context.Context, walletName string) ([]backend.ActiveOrder, error) {
	maker, err := e.walletByName(walletName)
	if err != nil {
		return nil, err
	}
	return e.fetcher.ActiveLimitOrders(ctx, maker.PublicKey.String())
}

func (e *Engine) validateLimitOrders(orders []LimitOrder) ([]backend.LimitOrderSpec, []*wallet.Wallet, error) {
	if len(orders) == 0 {
		return nil, nil, fmt.Errorf("no orders")
	}

	specs := make([]backend.LimitOrderSpec, 0, len(orders))
	makers := make([]*wallet.Wallet, 0, len(orders))
	for _, o := range orders {
		maker, err := e.walletByName(o.WalletName)
		if err != nil {
			return nil, nil, err
		}
		if err := validateAddress(o.Mint); err != nil {
			return nil, nil, fmt.Errorf("invalid mint: %w", err)
		}
		if o.Side != "buy" && o.Side != "sell" {
			return nil, nil, fmt.Errorf("invalid side %q", o.Side)
		}
		if err := validateAmount("order amount", o.AmountSol); err != nil {
			return nil, nil, err
		}
		if err := validateAmount("trigger price", o.TriggerPrice); err != nil {
			return nil, nil, err
		}
		slippage := o.SlippagePercent
		if slippage == 0 {
			slippage = e.opts.SlippagePercent
		}
		if err := validateSlippage(slippage); err != nil {
			return nil, nil, err
		}

		makers = append(makers, maker)
		specs = append(specs, backend.LimitOrderSpec{
			Maker:        maker.PublicKey.String(),
			Mint:         o.Mint,
			Side:         o.Side,
			AmountSol:    o.AmountSol,
			TriggerPrice: o.TriggerPrice,
			SlippagePct:  slippage,
		})
	}
	return specs, makers, nil
}
