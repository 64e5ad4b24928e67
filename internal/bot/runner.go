// internal/bot/runner.go
package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/timurkhasanov/solana-bundler/internal/backend"
	"github.com/timurkhasanov/solana-bundler/internal/config"
	"github.com/timurkhasanov/solana-bundler/internal/engine"
	"github.com/timurkhasanov/solana-bundler/internal/jito"
	"github.com/timurkhasanov/solana-bundler/internal/ratelimit"
	"github.com/timurkhasanov/solana-bundler/internal/retry"
	"github.com/timurkhasanov/solana-bundler/internal/task"
	"github.com/timurkhasanov/solana-bundler/internal/wallet"
)

// Runner wires the pipeline and executes the configured tasks in order.
type Runner struct {
	logger      *zap.Logger
	config      *config.Config
	engine      *engine.Engine
	taskManager *task.Manager
	wallets     map[string]*wallet.Wallet
	shutdownCh  chan os.Signal
}

func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{
		logger:     logger,
		shutdownCh: make(chan os.Signal, 1),
	}
}

// Initialize wires the pipeline from a loaded configuration.
func (r *Runner) Initialize(cfg *config.Config) error {
	r.config = cfg

	wallets, err := wallet.LoadWallets(cfg.WalletsFile)
	if err != nil {
		return fmt.Errorf("failed to load wallets: %w", err)
	}
	r.wallets = wallets
	r.logger.Info("wallets loaded", zap.Int("count", len(wallets)))

	client := backend.NewClient(backend.Options{
		BaseURL:  cfg.BackendURL,
		RelayURL: cfg.RelayURL,
		Timeout:  time.Duration(cfg.RequestTimeoutMs) * time.Millisecond,
		FetchRPS: cfg.FetchRPS,
	}, r.logger)

	var submitter retry.Submitter = client
	if cfg.Relay == "jito" {
		submitter = jito.NewClient(cfg.JitoURL, cfg.JitoUUID, r.logger)
	}

	limiter := ratelimit.New(cfg.SubmitsPerSecond)
	retrier := retry.NewController(limiter, r.logger).WithLimits(
		cfg.MaxRetryAttempts,
		cfg.MaxConsecutiveErrors,
		time.Duration(cfg.BaseRetryDelayMs)*time.Millisecond,
	)

	r.engine = engine.New(client, submitter, retrier, limiter, wallets, engine.Options{
		MaxBundleSize:   cfg.MaxBundleSize,
		BundleDelay:     time.Duration(cfg.BundleDelayMs) * time.Millisecond,
		RecipientDelay:  time.Duration(cfg.RecipientDelayMs) * time.Millisecond,
		SlippagePercent: cfg.SlippagePercent,
		PriorityFeeSol:  cfg.PriorityFeeSol,
	}, r.logger)

	r.taskManager = task.NewManager(r.logger)
	return nil
}

// Run executes every task from the tasks file, in file order. A failed
// task is reported and the run continues.
func (r *Runner) Run(ctx context.Context) error {
	signal.Notify(r.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sig := <-r.shutdownCh
		r.logger.Info("signal received: " + sig.String())
		cancel()
	}()

	tasks, err := r.taskManager.LoadTasks(r.config.TasksFile)
	if err != nil {
		return err
	}
	r.logger.Info("loaded tasks", zap.Int("count", len(tasks)))

	for _, t := range tasks {
		if runCtx.Err() != nil {
			return runCtx.Err()
		}
		report := r.execute(runCtx, t)
		if report == nil {
			continue
		}
		r.logger.Info("task finished",
			zap.String("task", t.TaskName),
			zap.String("report", report.String()))
	}
	return nil
}

func (r *Runner) execute(ctx context.Context, t *task.Task) *engine.Report {
	mode := engine.Sequential
	if t.AllInOne {
		mode = engine.AllInOne
	}

	switch t.Operation {
	case task.OperationCreate:
		p := engine.CreateParams{
			Launchpad:       t.Launchpad,
			CreatorWallet:   t.Wallet,
			Name:            t.TokenName,
			Symbol:          t.TokenSymbol,
			MetadataURI:     t.MetadataURI,
			DevBuySol:       t.DevBuySol,
			SlippagePercent: t.SlippagePercent,
			PriorityFeeSol:  t.PriorityFeeSol,
			Mode:            mode,
		}
		for _, b := range t.Buyers {
			p.Buyers = append(p.Buyers, engine.BuyerSpend{WalletName: b.Wallet, AmountSol: b.AmountSol})
		}
		return r.engine.CreateToken(ctx, p)

	case task.OperationMix, task.OperationDistribute:
		p := engine.TransferParams{
			SenderWallet:   t.Wallet,
			PriorityFeeSol: t.PriorityFeeSol,
		}
		for _, rc := range t.Recipients {
			p.Recipients = append(p.Recipients, engine.Recipient{
				WalletName: rc.Wallet,
				Address:    rc.Address,
				AmountSol:  rc.AmountSol,
			})
		}
		if t.Operation == task.OperationMix {
			return r.engine.Mix(ctx, p)
		}
		return r.engine.Distribute(ctx, p)

	case task.OperationSell:
		return r.engine.SellTokens(ctx, engine.SellParams{
			WalletNames:     t.SellWallets(),
			Mint:            t.TokenMint,
			Percent:         t.Percent,
			SlippagePercent: t.SlippagePercent,
			PriorityFeeSol:  t.PriorityFeeSol,
			Mode:            mode,
		})

	case task.OperationLimitCreate:
		return r.engine.PlaceLimitOrders(ctx, []engine.LimitOrder{{
			WalletName:      t.Wallet,
			Mint:            t.TokenMint,
			Side:            t.Side,
			AmountSol:       t.AmountSol,
			TriggerPrice:    t.TriggerPrice,
			SlippagePercent: t.SlippagePercent,
		}})

	case task.OperationLimitCancel:
		return r.engine.CancelLimitOrder(ctx, t.Wallet, t.OrderID)
	}

	r.logger.Error("unsupported operation", zap.String("operation", string(t.Operation)))
	return nil
}
