// =============================================
// File: internal/engine/create.go
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

// BuyerSpend names one local buyer wallet and its buy-in.
type BuyerSpend struct {
	WalletName string
	AmountSol  float64
}

// CreateParams configures a token launch on a launchpad.
type CreateParams struct {
	Launchpad         string // "bags" or "letsbonk"
	CreatorWallet     string
	Name              string
	Symbol            string
	MetadataURI       string
	DevBuySol         float64
	Buyers            []BuyerSpend
	CreatorBalanceSol float64 // 0 skips the balance check
	SlippagePercent   float64 // 0 uses the configured default
	PriorityFeeSol    string
	Mode              SubmitMode
}

// CreateToken launches a token: the backend builds the mint/pool-creation
// transaction plus buy transactions, the creator and buyer wallets sign
// locally, and the mint-creation bundle goes out first under the critical
// retry policy. A signing failure inside the critical bundle is fatal to
// the whole operation.
func (e *Engine) CreateToken(ctx context.Context, p CreateParams) *Report {
	const opName = "create-token"
	log := logger.WithOperation(e.logger, opName).With(zap.String("launchpad", p.Launchpad))

	creator, buyers, err := e.validateCreate(&p)
	if err != nil {
		log.Warn("validation failed", zap.Error(err))
		return failedReport(opName, err)
	}

	req := backend.CreateTokenRequest{
		Creator:         creator.PublicKey.String(),
		Name:            p.Name,
		Symbol:          p.Symbol,
		MetadataURI:     p.MetadataURI,
		DevBuySol:       p.DevBuySol,
		SlippagePercent: p.SlippagePercent,
		PriorityFeeSol:  p.PriorityFeeSol,
	}
	for i, b := range p.Buyers {
		req.Buyers = append(req.Buyers, backend.BuyerEntry{
			Address:   buyers[i].PublicKey.String(),
			AmountSol: b.AmountSol,
		})
	}

	var resp *backend.CreateTokenResponse
	switch p.Launchpad {
	case "letsbonk":
		resp, err = e.fetcher.CreateBonkToken(ctx, req)
	default:
		resp, err = e.fetcher.CreateBagsToken(ctx, req)
	}
	if err != nil {
		log.Error("failed to fetch launch transactions", zap.Error(err))
		return failedReport(opName, err)
	}

	flat, shapes := flatten(resp, e.opts.MaxBundleSize)
	if len(flat) == 0 {
		return failedReport(opName, fmt.Errorf("backend returned no transactions"))
	}

	ring := wallet.NewKeyring(append([]*wallet.Wallet{creator}, buyers...)...)
	signed, signErrs := e.signer.SignAll(flat, ring)

	criticalSize := shapes[0]
	for _, se := range signErrs {
		if se.Index < criticalSize {
			err := fmt.Errorf("signing failed inside critical bundle: %w", se)
			log.Error("aborting launch", zap.Error(err))
			return failedReport(opName, err)
		}
	}

	bundles := regroup(signed, shapes)
	log.Info("submitting launch bundles",
		zap.String("mint", resp.Mint),
		zap.Int("bundles", len(bundles)),
		zap.Int("transactions", len(signed)))

	outcome := e.submitWave(ctx, log, bundles, p.Mode)
	return &Report{Operation: opName, Mint: resp.Mint, Outcome: outcome}
}

func (e *Engine) validateCreate(p *CreateParams) (*wallet.Wallet, []*wallet.Wallet, error) {
	switch p.Launchpad {
	case "bags", "letsbonk":
	case "":
		p.Launchpad = "bags"
	default:
		return nil, nil, fmt.Errorf("unknown launchpad %q", p.Launchpad)
	}
	if p.Name == "" || p.Symbol == "" {
		return nil, nil, fmt.Errorf("token name and symbol are required")
	}
	if err := validateAmount("dev buy", p.DevBuySol); err != nil {
		return nil, nil, err
	}
	if p.SlippagePercent == 0 {
		p.SlippagePercent = e.opts.SlippagePercent
	}
	if err := validateSlippage(p.SlippagePercent); err != nil {
		return nil, nil, err
	}
	if p.PriorityFeeSol == "" {
		p.PriorityFeeSol = e.opts.PriorityFeeSol
	}

	creator, err := e.walletByName(p.CreatorWallet)
	if err != nil {
		return nil, nil, err
	}

	total := p.DevBuySol
	buyers := make([]*wallet.Wallet, 0, len(p.Buyers))
	for _, b := range p.Buyers {
		if err := validateAmount("buyer amount", b.AmountSol); err != nil {
			return nil, nil, err
		}
		w, err := e.walletByName(b.WalletName)
		if err != nil {
			return nil, nil, err
		}
		buyers = append(buyers, w)
		total += b.AmountSol
	}

	// One creation transaction plus one buy per buyer, give or take.
	if err := checkBalance(p.CreatorBalanceSol, total, len(p.Buyers)+1); err != nil {
		return nil, nil, err
	}
	return creator, buyers, nil
}

// flatten linearizes a launch response into one ordered transaction list
// plus the bundle shape to restore afterwards. Pre-grouped responses keep
// their grouping; flat responses get the configured cap.
func flatten(resp *backend.CreateTokenResponse, maxPerBundle int) ([]string, []int) {
	if len(resp.Bundles) > 0 {
		var flat []string
		shapes := make([]int, 0, len(resp.Bundles))
		for _, group := range resp.Bundles {
			flat = append(flat, group...)
			shapes = append(shapes, len(group))
		}
		return flat, shapes
	}
	n := len(resp.Transactions)
	if n == 0 {
		return nil, nil
	}
	shapes := make([]int, 0, (n+maxPerBundle-1)/maxPerBundle)
	for remaining := n; remaining > 0; remaining -= maxPerBundle {
		size := maxPerBundle
		if remaining < size {
			size = remaining
		}
		shapes = append(shapes, size)
	}
	return resp.Transactions, shapes
}

// regroup rebuilds bundles from a signed flat list and recorded shapes,
// preserving original order across the split.
func regroup(signed []string, shapes []int) []bundle.Bundle {
	bundles := make([]bundle.Bundle, 0, len(shapes))
	cursor := 0
	for _, size := range shapes {
		end := cursor + size
		if end > len(signed) {
			end = len(signed)
		}
		bundles = append(bundles, bundle.Bundle{
			Index:        len(bundles),
			Transactions: signed[cursor:end],
		})
		cursor = end
	}
	return bundles
}
