// internal/drift/drifter.go
package drift

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cryptoex/internal/domain"
	"cryptoex/internal/metrics"
	"cryptoex/internal/repository"
	"cryptoex/pkg/db"

	"go.uber.org/zap"
)

// ErrAlreadyRunning is returned by Start while a drift loop is active.
var ErrAlreadyRunning = errors.New("rate drifter already running")

// Config controls how often and how far exchange rates move.
type Config struct {
	Interval      time.Duration
	LowerBoundPct int // Inclusive
	UpperBoundPct int // Exclusive
}

// Validate checks that every drawn percentage keeps a rate strictly positive.
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("drift interval must be positive, got %s", c.Interval)
	}
	if c.LowerBoundPct <= -100 {
		return fmt.Errorf("drift lower bound must be above -100%%, got %d", c.LowerBoundPct)
	}
	if c.LowerBoundPct >= c.UpperBoundPct {
		return fmt.Errorf("drift lower bound %d must be below upper bound %d", c.LowerBoundPct, c.UpperBoundPct)
	}
	return nil
}

// RateDrifter periodically moves every currency's exchange rate by a random percentage.
// Each sweep rewrites all currencies in one transaction.
type RateDrifter struct {
	dbBeginner   db.DBTxBeginner
	currencyRepo repository.CurrencyRepository
	txFuncs      db.TxFuncs
	random       domain.RandomSource
	metrics      *metrics.Metrics
	logger       *zap.Logger

	mu     sync.Mutex
	cfg    Config
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRateDrifter creates a stopped RateDrifter. cfg is used by Tick until Start replaces it.
func NewRateDrifter(
	dbBeginner db.DBTxBeginner,
	currencyRepo repository.CurrencyRepository,
	cfg Config,
	random domain.RandomSource,
	m *metrics.Metrics,
	logger *zap.Logger,
	txFuncs db.TxFuncs,
) *RateDrifter {
	return &RateDrifter{
		dbBeginner:   dbBeginner,
		currencyRepo: currencyRepo,
		txFuncs:      txFuncs,
		random:       random,
		metrics:      m,
		logger:       logger,
		cfg:          cfg,
	}
}

// Start launches the drift loop. It returns immediately; the loop runs until Stop is called or ctx is done.
func (d *RateDrifter) Start(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done != nil {
		select {
		case <-d.done:
			// previous loop exited on its own context
		default:
			return ErrAlreadyRunning
		}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	d.cfg = cfg
	d.cancel = cancel
	d.done = make(chan struct{})

	go d.loop(loopCtx, cfg, d.done)

	d.logger.Info("Rate drifter started",
		zap.Duration("interval", cfg.Interval),
		zap.Int("lower_bound_pct", cfg.LowerBoundPct),
		zap.Int("upper_bound_pct", cfg.UpperBoundPct),
	)
	return nil
}

// Stop cancels the loop and waits for it to exit. A sweep already in progress is allowed to commit.
// Stop on a drifter that is not running is a no-op.
func (d *RateDrifter) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	d.logger.Info("Rate drifter stopped")
}

func (d *RateDrifter) loop(ctx context.Context, cfg Config, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A failed sweep is logged and counted by sweep; the next one runs on schedule.
			_, _ = d.sweep(context.WithoutCancel(ctx), cfg)
		}
	}
}

// Tick applies exactly one drift sweep with the current configuration and returns the new rates.
func (d *RateDrifter) Tick(ctx context.Context) ([]domain.Currency, error) {
	d.mu.Lock()
	cfg := d.cfg
	d.mu.Unlock()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return d.sweep(ctx, cfg)
}

func (d *RateDrifter) sweep(ctx context.Context, cfg Config) ([]domain.Currency, error) {
	start := time.Now()
	var adjusted []domain.Currency

	err := d.txFuncs.Run(ctx, d.dbBeginner, func(tx db.TxController) error {
		q, ok := tx.(repository.DBExecutor)
		if !ok {
			return fmt.Errorf("transaction controller does not implement DBExecutor")
		}

		currencies, err := d.currencyRepo.ListCurrenciesForUpdate(ctx, q)
		if err != nil {
			return err
		}

		for i := range currencies {
			pct := domain.DriftPercent(d.random, cfg.LowerBoundPct, cfg.UpperBoundPct)
			rate := domain.DriftRate(currencies[i].ExchangeRate, pct)
			if err := d.currencyRepo.UpdateExchangeRate(ctx, q, currencies[i].ID, rate); err != nil {
				return err
			}
			currencies[i].ExchangeRate = rate
		}
		adjusted = currencies
		return nil
	})

	elapsed := time.Since(start)
	d.metrics.ObserveDriftTick(elapsed, err)
	if err != nil {
		d.logger.Error("Rate drift tick failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return nil, fmt.Errorf("drift tick: %w", err)
	}

	for _, c := range adjusted {
		d.metrics.SetExchangeRate(c.Name, c.ExchangeRate)
	}
	d.logger.Debug("Rate drift tick applied", zap.Int("currencies", len(adjusted)), zap.Duration("elapsed", elapsed))
	return adjusted, nil
}
