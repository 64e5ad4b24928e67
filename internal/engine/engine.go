// =============================================
// File: internal/engine/engine.go
// =============================================

// Package engine hosts the operation orchestrators: each trading action
// (token launch, mix, distribute, sell, limit orders) fetches unsigned
// transactions from the backend, signs them locally, groups them into
// bundles, and drives submission with the first-bundle-critical policy.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/timurkhasanov/solana-bundler/internal/backend"
	"github.com/timurkhasanov/solana-bundler/internal/bundle"
	"github.com/timurkhasanov/solana-bundler/internal/logger"
	"github.com/timurkhasanov/solana-bundler/internal/ratelimit"
	"github.com/timurkhasanov/solana-bundler/internal/retry"
	"github.com/timurkhasanov/solana-bundler/internal/txcodec"
	"github.com/timurkhasanov/solana-bundler/internal/wallet"
)

// SubmitMode selects how bundles after the critical first one go out.
type SubmitMode int

const (
	// Sequential preserves bundle order with a fixed inter-bundle delay.
	Sequential SubmitMode = iota
	// AllInOne fans the tail out concurrently with a staggered start per
	// bundle. Later bundles may land out of order relative to each other,
	// acceptable once the order-sensitive first bundle has landed.
	AllInOne
)

// Options carries the orchestration knobs, normally taken from config.
type Options struct {
	MaxBundleSize   int
	BundleDelay     time.Duration // between sequential tail bundles
	RecipientDelay  time.Duration // between batch mix/distribute legs
	StaggerDelay    time.Duration // per-index offset in AllInOne mode
	SlippagePercent float64
	PriorityFeeSol  string
}

func (o *Options) withDefaults() {
	if o.MaxBundleSize <= 0 {
		o.MaxBundleSize = bundle.MaxTransactions
	}
	if o.RecipientDelay <= 0 {
		o.RecipientDelay = 3 * time.Second
	}
	if o.StaggerDelay <= 0 {
		o.StaggerDelay = 100 * time.Millisecond
	}
}

// Engine wires the pipeline components together. One Engine serves every
// operation; the rate limiter it holds is the process-wide submission
// gate.
type Engine struct {
	fetcher   *backend.Client
	submitter retry.Submitter
	retrier   *retry.Controller
	limiter   *ratelimit.Limiter
	signer    *txcodec.Signer
	wallets   map[string]*wallet.Wallet
	opts      Options
	logger    *zap.Logger
	sleep     func(context.Context, time.Duration) error
}

func New(fetcher *backend.Client, submitter retry.Submitter, retrier *retry.Controller,
	limiter *ratelimit.Limiter, wallets map[string]*wallet.Wallet, opts Options, logger *zap.Logger) *Engine {
	opts.withDefaults()
	return &Engine{
		fetcher:   fetcher,
		submitter: submitter,
		retrier:   retrier,
		limiter:   limiter,
		signer:    txcodec.NewSigner(logger),
		wallets:   wallets,
		opts:      opts,
		logger:    logger.Named("engine"),
		sleep:     sleepCtx,
	}
}

// submitWave drives one operation's bundles: the first through the retry
// controller (its failure voids the wave), the rest once each per the
// selected mode. Tail failures are counted, never retried, and never stop
// the loop.
func (e *Engine) submitWave(ctx context.Context, log *zap.Logger, bundles []bundle.Bundle, mode SubmitMode) bundle.Outcome {
	if len(bundles) == 0 {
		return bundle.Complete(0)
	}

	if _, err := e.retrier.SendCritical(ctx, e.submitter, bundles[0]); err != nil {
		log.Error("critical bundle failed, aborting operation", zap.Error(err))
		return bundle.Failure(len(bundles), err)
	}

	rest := bundles[1:]
	if len(rest) == 0 {
		return bundle.Complete(1)
	}

	var succeeded, failed int
	var firstErr error
	succeeded = 1 // the critical bundle

	record := func(b bundle.Bundle, err error) {
		if err == nil {
			succeeded++
			return
		}
		failed++
		if firstErr == nil {
			firstErr = err
		}
		logger.WithBundle(log, b.Index, len(b.Transactions)).
			Warn("bundle submission failed", zap.Error(err))
	}

	if mode == AllInOne {
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		for i, b := range rest {
			i, b := i, b
			g.Go(func() error {
				err := e.submitStaggered(gctx, b, time.Duration(i)*e.opts.StaggerDelay)
				mu.Lock()
				record(b, err)
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, b := range rest {
			if err := e.sleep(ctx, e.opts.BundleDelay); err != nil {
				record(b, err)
				continue
			}
			record(b, e.submitOnce(ctx, b))
		}
	}

	return bundle.Summarize(succeeded, failed, firstErr)
}

func (e *Engine) submitStaggered(ctx context.Context, b bundle.Bundle, offset time.Duration) error {
	if err := e.sleep(ctx, offset); err != nil {
		return err
	}
	return e.submitOnce(ctx, b)
}

// submitOnce is the best-effort single-shot path for non-critical bundles.
func (e *Engine) submitOnce(ctx context.Context, b bundle.Bundle) error {
	if err := e.limiter.Acquire(ctx); err != nil {
		return err
	}
	_, err := e.submitter.SubmitBundle(ctx, b)
	return err
}

func (e *Engine) walletByName(name string) (*wallet.Wallet, error) {
	w, ok := e.wallets[name]
	if !ok {
		return nil, &UnknownWalletError{Name: name}
	}
	return w, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
