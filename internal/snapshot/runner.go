package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/constants"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/ledger"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/models"
	"github.com/aman-zulfiqar/solana-pool-snapshot/internal/report"
)

// PoolResolver values one discovered pool
type PoolResolver interface {
	Resolve(ctx context.Context, raw ledger.RawAccount) (models.PoolRow, error)
}

// Config holds the collaborators of a Runner
type Config struct {
	Discoverer  ledger.PoolDiscoverer
	Resolver    PoolResolver
	Concurrency int
	Logger      *logrus.Logger
}

// Runner takes one snapshot of every pool owned by a program
type Runner struct {
	discoverer  ledger.PoolDiscoverer
	resolver    PoolResolver
	concurrency int
	logger      *logrus.Logger
}

// NewRunner creates a snapshot runner
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Discoverer == nil {
		return nil, errors.New("pool discoverer is nil")
	}
	if cfg.Resolver == nil {
		return nil, errors.New("pool resolver is nil")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = constants.DefaultConcurrency
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Runner{
		discoverer:  cfg.Discoverer,
		resolver:    cfg.Resolver,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
	}, nil
}

// Run discovers the program's pools and resolves each of them. A discovery
// failure aborts the run. A pool that cannot be resolved becomes an
// unresolved row and the others carry on. Rows are returned in discovery
// order. If ctx ends mid-run the rows gathered so far are returned with the
// context error.
func (r *Runner) Run(ctx context.Context, program solana.PublicKey) ([]models.PoolRow, error) {
	start := time.Now()

	pools, err := r.discoverer.DiscoverPools(ctx, program)
	if err != nil {
		return nil, fmt.Errorf("discover pools: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"program": program.String(),
		"pools":   len(pools),
	}).Info("discovered pools")

	builder := report.NewBuilder(len(pools))

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i, raw := range pools {
		if ctx.Err() != nil {
			break
		}
		i, raw := i, raw
		g.Go(func() error {
			var row models.PoolRow
			if err := ctx.Err(); err != nil {
				row = models.UnresolvedRow(raw.Address.String(), "", "", err.Error())
			} else {
				// failures are already logged by the resolver and recorded on the row
				row, _ = r.resolver.Resolve(ctx, raw)
			}
			return builder.Put(i, row)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, i := range builder.Missing() {
		reason := "not attempted"
		if ctx.Err() != nil {
			reason = ctx.Err().Error()
		}
		if err := builder.Put(i, models.UnresolvedRow(pools[i].Address.String(), "", "", reason)); err != nil {
			return nil, err
		}
	}

	rows := builder.Rows()
	summary := report.Summarize(rows)

	r.logger.WithFields(logrus.Fields{
		"program":    program.String(),
		"pools":      summary.Total,
		"resolved":   summary.Resolved,
		"unresolved": summary.Unresolved,
		"duration":   time.Since(start),
	}).Info("snapshot complete")

	return rows, ctx.Err()
}
