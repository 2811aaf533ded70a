// Package pipeline runs the roster validation and reconciliation workflow:
// normalize, dedupe, reconcile addresses, validate, partition, classify and
// build the upload document.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/roster-cli/internal/address"
	"github.com/sells-group/roster-cli/internal/classify"
	"github.com/sells-group/roster-cli/internal/document"
	"github.com/sells-group/roster-cli/internal/metrics"
	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/normalize"
	"github.com/sells-group/roster-cli/internal/rules"
)

// DefaultConcurrency bounds concurrent postal-code lookups.
const DefaultConcurrency = 8

// Reconciler resolves one record's address. *address.Reconciler satisfies it.
type Reconciler interface {
	Reconcile(ctx context.Context, rec model.CleanRecord) address.Result
}

// Pipeline wires the stages together.
type Pipeline struct {
	reconciler  Reconciler
	engine      *rules.Engine
	metrics     *metrics.Metrics
	concurrency int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithConcurrency bounds concurrent lookups. Values below 1 mean 1.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.concurrency = n
	}
}

// WithMetrics records run counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// New creates a Pipeline.
func New(reconciler Reconciler, engine *rules.Engine, opts ...Option) *Pipeline {
	p := &Pipeline{
		reconciler:  reconciler,
		engine:      engine,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.concurrency < 1 {
		p.concurrency = 1
	}
	return p
}

// Result is the partitioned output of a run.
type Result struct {
	Valid      []model.ClassifiedRecord
	Invalid    []model.Outcome
	Customers  []model.Customer
	Summary    model.Summary
	Duration   time.Duration
	Normalized int
}

// Run processes the batch. total is the number of source data rows, used
// for the "neither" count; pass len(raws) when every row became a record.
// Lookup failures never abort the run; only context cancellation does.
func (p *Pipeline) Run(ctx context.Context, raws []model.RawRecord, total int, ref classify.ReferenceSet) (*Result, error) {
	start := time.Now()
	log := zap.L().With(zap.String("component", "pipeline"))

	clean := normalize.Dedupe(normalize.Records(raws))
	log.Info("pipeline: records normalized",
		zap.Int("rows", len(raws)),
		zap.Int("unique", len(clean)),
	)

	outcomes, err := p.validate(ctx, clean)
	if err != nil {
		return nil, err
	}

	res := &Result{Normalized: len(clean)}
	var valid []model.CleanRecord
	for _, o := range outcomes {
		p.metrics.ObserveOutcome(o)
		if o.Valid() {
			valid = append(valid, o.Record)
			continue
		}
		res.Invalid = append(res.Invalid, o)
	}
	log.Info("pipeline: validation complete",
		zap.Int("valid", len(valid)),
		zap.Int("invalid", len(res.Invalid)),
	)

	if len(valid) == 0 {
		log.Warn("pipeline: no valid records, skipping classification and document build")
	} else {
		res.Valid = classify.Classify(valid, ref)
		for _, c := range res.Valid {
			p.metrics.ObserveKind(c.Kind)
		}
		res.Customers = document.BuildAll(res.Valid)
	}

	res.Summary = summarize(total, res)
	res.Duration = time.Since(start)
	return res, nil
}

// validate reconciles addresses on a bounded pool and evaluates the rules.
// Outcomes keep the order of recs.
func (p *Pipeline) validate(ctx context.Context, recs []model.CleanRecord) ([]model.Outcome, error) {
	outcomes := make([]model.Outcome, len(recs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, rec := range recs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			addr := p.reconciler.Reconcile(gCtx, rec)
			logAddress(rec, addr)
			outcomes[i] = p.engine.Evaluate(rules.Subject{Record: rec, Address: addr})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: validate")
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: validate")
	}
	return outcomes, nil
}

func logAddress(rec model.CleanRecord, res address.Result) {
	switch {
	case res.Status == address.LookupFailed:
		zap.L().Debug("pipeline: cep lookup failed",
			zap.Int("row", rec.Row),
			zap.String("cep", rec.CEP),
			zap.Error(res.Err),
		)
	case res.Status == address.Mismatch && res.Canonical != nil:
		zap.L().Debug("pipeline: address does not match cep",
			zap.Int("row", rec.Row),
			zap.String("cep", rec.CEP),
			zap.String("street", res.Canonical.Street),
			zap.String("neighborhood", res.Canonical.Neighborhood),
			zap.String("city", res.Canonical.City),
			zap.String("state", res.Canonical.State),
		)
	}
}

func summarize(total int, res *Result) model.Summary {
	s := model.Summary{
		Total:   total,
		Valid:   len(res.Valid),
		Invalid: len(res.Invalid),
		Reasons: make(map[model.Reason]int),
	}
	s.Neither = total - s.Valid - s.Invalid
	if s.Neither < 0 {
		s.Neither = 0
	}
	for _, c := range res.Valid {
		if c.Kind == model.KindExisting {
			s.Existing++
		} else {
			s.New++
		}
	}
	for _, o := range res.Invalid {
		for _, r := range o.Reasons {
			s.Reasons[r]++
		}
	}
	return s
}
