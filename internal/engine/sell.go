// =============================================
// File: internal/engine/sell.go
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

// SellParams configures a multi-wallet sell.
type SellParams struct {
	WalletNames     []string
	Mint            string
	Percent         float64 // share of holdings to sell, (0, 100]
	Dex             string  // optional DEX/protocol selector, passed through
	SlippagePercent float64
	PriorityFeeSol  string
	Mode            SubmitMode
}

// SellTokens sells a percentage of each wallet's holdings of a mint. The
// backend builds one sell transaction per wallet in request order; each
// wallet signs its own, and bundles go out critical-first.
func (e *Engine) SellTokens(ctx context.Context, p SellParams) *Report {
	const opName = "sell"
	log := logger.WithOperation(e.logger, opName).With(zap.String("mint", p.Mint))

	sellers, err := e.validateSell(&p)
	if err != nil {
		log.Warn("validation failed", zap.Error(err))
		return failedReport(opName, err)
	}

	addresses := make([]string, len(sellers))
	for i, w := range sellers {
		addresses[i] = w.PublicKey.String()
	}

	resp, err := e.fetcher.SellTokens(ctx, backend.SellRequest{
		Wallets:         addresses,
		Mint:            p.Mint,
		Percent:         p.Percent,
		Dex:             p.Dex,
		SlippagePercent: p.SlippagePercent,
		PriorityFeeSol:  p.PriorityFeeSol,
	})
	if err != nil {
		log.Error("failed to fetch sell transactions", zap.Error(err))
		return failedReport(opName, err)
	}
	if len(resp.Transactions) == 0 {
		return failedReport(opName, fmt.Errorf("backend returned no transactions"))
	}

	ring := wallet.NewKeyring(sellers...)
	signed, signErrs := e.signer.SignAll(resp.Transactions, ring)

	// Drop unsignable transactions instead of aborting: each sell stands
	// alone, unlike a launch bundle.
	if len(signErrs) > 0 {
		bad := make(map[int]bool, len(signErrs))
		for _, se := range signErrs {
			bad[se.Index] = true
		}
		kept := signed[:0]
		for i, tx := range signed {
			if !bad[i] {
				kept = append(kept, tx)
			}
		}
		signed = kept
		log.Warn("some sell transactions were skipped",
			zap.Int("skipped", len(signErrs)),
			zap.Int("remaining", len(signed)))
	}
	if len(signed) == 0 {
		return failedReport(opName, fmt.Errorf("no signable transactions: %w", signErrs[0]))
	}

	bundles, err := bundle.Assemble(signed, e.opts.MaxBundleSize)
	if err != nil {
		return failedReport(opName, err)
	}

	outcome := e.submitWave(ctx, log, bundles, p.Mode)
	return &Report{Operation: opName, Mint: p.Mint, Outcome: outcome}
}

func (e *Engine) validateSell(p *SellParams) ([]*wallet.Wallet, error) {
	if len(p.WalletNames) == 0 {
		return nil, fmt.Errorf("no wallets")
	}
	if err := validateAddress(p.Mint); err != nil {
		return nil, fmt.Errorf("invalid mint: %w", err)
	}
	if p.Percent <= 0 || p.Percent > 100 {
		return nil, fmt.Errorf("percent must be within (0, 100], got %v", p.Percent)
	}
	if p.SlippagePercent == 0 {
		p.SlippagePercent = e.opts.SlippagePercent
	}
	if err := validateSlippage(p.SlippagePercent); err != nil {
		return nil, err
	}
	if p.PriorityFeeSol == "" {
		p.PriorityFeeSol = e.opts.PriorityFeeSol
	}

	sellers := make([]*wallet.Wallet, 0, len(p.WalletNames))
	for _, name := range p.WalletNames {
		w, err := e.walletByName(name)
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, w)
	}
	return sellers, nil
}
