// =============================================
// File: internal/engine/transfer.go
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

// Recipient is one destination of a mix or distribution. WalletName is
// set when the recipient is locally held (its key may be a required
// signer for unwrapping temporary accounts); Address covers external
// destinations.
type Recipient struct {
	WalletName string
	Address    string
	AmountSol  float64
}

// TransferParams configures a mix or distribute run.
type TransferParams struct {
	SenderWallet     string
	Recipients       []Recipient
	SenderBalanceSol float64 // 0 skips the balance check
	PriorityFeeSol   string
}

// Mix moves SOL to each recipient through backend-allocated mixer hops.
func (e *Engine) Mix(ctx context.Context, p TransferParams) *Report {
	return e.transfer(ctx, "mix", p, e.fetcher.MixTransfer)
}

// Distribute fans SOL out to each recipient directly.
func (e *Engine) Distribute(ctx context.Context, p TransferParams) *Report {
	return e.transfer(ctx, "distribute", p, e.fetcher.DistributeTransfer)
}

type transferFetch func(context.Context, backend.TransferRequest) (*backend.TransferResponse, error)

// transfer processes recipients strictly one at a time with a fixed
// inter-recipient delay. Legs share backend-allocated helper wallets that
// cannot be reused concurrently, so this loop is deliberately not
// parallelized. A failed leg is counted and the loop moves on.
func (e *Engine) transfer(ctx context.Context, opName string, p TransferParams, fetch transferFetch) *Report {
	log := logger.WithOperation(e.logger, opName)

	sender, err := e.validateTransfer(&p)
	if err != nil {
		log.Warn("validation failed", zap.Error(err))
		return failedReport(opName, err)
	}

	var succeeded, failed int
	var firstErr error
	for i, rcpt := range p.Recipients {
		if i > 0 {
			if err := e.sleep(ctx, e.opts.RecipientDelay); err != nil {
				failed += len(p.Recipients) - i
				if firstErr == nil {
					firstErr = err
				}
				break
			}
		}

		if err := e.transferLeg(ctx, log, sender, rcpt, p.PriorityFeeSol, fetch); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			log.Warn("transfer leg failed",
				zap.Int("recipient_index", i),
				zap.String("recipient", rcpt.Address),
				zap.Error(err))
			continue
		}
		succeeded++
	}

	log.Info("transfer finished",
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed))
	return &Report{Operation: opName, Outcome: bundle.Summarize(succeeded, failed, firstErr)}
}

func (e *Engine) transferLeg(ctx context.Context, log *zap.Logger, sender *wallet.Wallet,
	rcpt Recipient, priorityFeeSol string, fetch transferFetch) error {

	resp, err := fetch(ctx, backend.TransferRequest{
		From:           sender.PublicKey.String(),
		To:             rcpt.Address,
		AmountSol:      rcpt.AmountSol,
		PriorityFeeSol: priorityFeeSol,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch transfer transactions: %w", err)
	}
	if len(resp.Transactions) == 0 {
		return fmt.Errorf("backend returned no transactions")
	}

	// Both the depositor and the recipient go into the ring; the
	// required-signer scan decides per transaction which keys apply.
	signers := []*wallet.Wallet{sender}
	if rcpt.WalletName != "" {
		if w, err := e.walletByName(rcpt.WalletName); err == nil {
			signers = append(signers, w)
		} else {
			return err
		}
	}
	ring := wallet.NewKeyring(signers...)

	signed, signErrs := e.signer.SignAll(resp.Transactions, ring)
	if len(signErrs) > 0 {
		// Every leg transaction feeds the same deposit/withdraw chain;
		// a hole anywhere voids the leg.
		return fmt.Errorf("signing failed: %w", signErrs[0])
	}

	bundles, err := bundle.Assemble(signed, e.opts.MaxBundleSize)
	if err != nil {
		return err
	}

	outcome := e.submitWave(ctx, log, bundles, Sequential)
	if outcome.Kind == bundle.OutcomeFailed {
		return outcome.Err
	}
	return nil
}

func (e *Engine) validateTransfer(p *TransferParams) (*wallet.Wallet, error) {
	sender, err := e.walletByName(p.SenderWallet)
	if err != nil {
		return nil, err
	}
	if len(p.Recipients) == 0 {
		return nil, fmt.Errorf("no recipients")
	}
	if p.PriorityFeeSol == "" {
		p.PriorityFeeSol = e.opts.PriorityFeeSol
	}

	total := 0.0
	for i := range p.Recipients {
		rcpt := &p.Recipients[i]
		if rcpt.Address == "" && rcpt.WalletName != "" {
			w, err := e.walletByName(rcpt.WalletName)
			if err != nil {
				return nil, err
			}
			rcpt.Address = w.PublicKey.String()
		}
		if err := validateAddress(rcpt.Address); err != nil {
			return nil, err
		}
		if err := validateAmount("transfer amount", rcpt.AmountSol); err != nil {
			return nil, err
		}
		total += rcpt.AmountSol
	}

	// Two transactions per leg is the common case (deposit + unwrap).
	if err := checkBalance(p.SenderBalanceSol, total, len(p.Recipients)*2); err != nil {
		return nil, err
	}
	return sender, nil
}
