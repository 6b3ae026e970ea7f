package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"masksync/domain"
	"masksync/internal/maskconfig"
)

// Options control a single reconciliation run.
type Options struct {
	// DryRun computes and reports drift without touching the warehouse.
	DryRun bool
	// Grantees, when non-empty, restricts corrections to the named
	// principals and silences drift logging: the expected state is still
	// computed in full, so out-of-scope findings are filtered, not
	// reported. Used for safe incremental rollout.
	Grantees []string
}

// Result summarizes a completed run.
type Result struct {
	RunID    string        `json:"run_id"`
	Expected int           `json:"expected"`
	Actual   int           `json:"actual"`
	Drift    domain.Drift  `json:"drift"`
	Applied  bool          `json:"applied"`
	Took     time.Duration `json:"took"`
}

// Reconciler drives one full fetch → resolve → build → diff → correct pass.
// It holds no state between runs: every cycle recomputes expected and
// actual state from scratch.
type Reconciler struct {
	cfg     *maskconfig.Config
	catalog domain.CatalogReader
	writer  domain.PolicyWriter
	logger  *slog.Logger
}

// New wires a reconciler from its collaborators.
func New(cfg *maskconfig.Config, catalog domain.CatalogReader, writer domain.PolicyWriter, logger *slog.Logger) *Reconciler {
	return &Reconciler{cfg: cfg, catalog: catalog, writer: writer, logger: logger}
}

// Run executes one reconciliation cycle. Read failures abort the cycle
// before any write; individual correction failures are handled inside the
// writer and do not fail the run.
func (r *Reconciler) Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)
	logger.Info("reconciliation started", "dry_run", opts.DryRun, "grantee_subset", len(opts.Grantees))

	users, err := r.catalog.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	directory := domain.NewPrincipalDirectory(users)
	resolver := NewUserResolver(r.cfg, directory, logger)
	builder := NewPolicyBuilder(r.cfg, resolver, logger)

	// Column types and attached policies are independent read-only queries,
	// so they fan out concurrently. Corrections stay strictly sequential.
	var (
		types  map[domain.Column]domain.ColumnType
		actual []domain.PolicyAttachment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		types, err = r.catalog.ColumnTypes(gctx, r.configuredColumns())
		return err
	})
	g.Go(func() error {
		var err error
		actual, err = r.catalog.AttachedPolicies(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !opts.DryRun {
		if err := r.writer.EnsurePolicies(ctx, types); err != nil {
			return nil, err
		}
	}

	expected := builder.BuildExpectedState(types)

	subset := len(opts.Grantees) > 0
	drift := NewDriftDetector(logger).Detect(expected, actual, subset)
	if subset {
		drift = filterDrift(drift, opts.Grantees)
	}

	res := &Result{
		RunID:    runID,
		Expected: len(expected),
		Actual:   len(actual),
		Drift:    drift,
		Took:     time.Since(started),
	}
	if opts.DryRun {
		logger.Info("dry run finished",
			"expected", res.Expected,
			"missing", len(drift.Missing),
			"extra", len(drift.Extra),
			"mismatched", len(drift.Mismatched),
		)
		return res, nil
	}

	if err := r.writer.Apply(ctx, drift); err != nil {
		return nil, err
	}
	res.Applied = true
	logger.Info("reconciliation finished", "corrections", drift.Corrections(), "took", res.Took)
	return res, nil
}

// configuredColumns returns the parseable configured column identifiers.
func (r *Reconciler) configuredColumns() []domain.Column {
	var cols []domain.Column
	for _, entry := range r.cfg.ColumnsConfig() {
		if col, ok := domain.ParseColumn(entry.ID); ok {
			cols = append(cols, col)
		}
	}
	return cols
}

// filterDrift keeps only the findings whose grantee is in the subset,
// matched case-insensitively.
func filterDrift(drift domain.Drift, grantees []string) domain.Drift {
	inSubset := make(map[string]struct{}, len(grantees))
	for _, g := range grantees {
		inSubset[strings.ToUpper(g)] = struct{}{}
	}
	keep := func(a domain.PolicyAttachment) bool {
		_, ok := inSubset[strings.ToUpper(a.Grantee)]
		return ok
	}

	var out domain.Drift
	for _, a := range drift.Missing {
		if keep(a) {
			out.Missing = append(out.Missing, a)
		}
	}
	for _, a := range drift.Extra {
		if keep(a) {
			out.Extra = append(out.Extra, a)
		}
	}
	for _, m := range drift.Mismatched {
		if keep(m.Expected) {
			out.Mismatched = append(out.Mismatched, m)
		}
	}
	return out
}
