// Package address cross-checks self-reported addresses against the canonical
// address registered for their postal code.
package address

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/pkg/viacep"
)

// Status is the outcome of reconciling one record.
type Status int

// Reconciliation statuses.
const (
	// LookupFailed covers transport errors, non-200 responses, timeouts and
	// CEPs the service does not know.
	LookupFailed Status = iota
	Mismatch
	Matched
)

func (s Status) String() string {
	switch s {
	case Matched:
		return "matched"
	case Mismatch:
		return "mismatch"
	default:
		return "lookup_failed"
	}
}

// Result carries the status, the canonical address when the lookup
// succeeded, and the lookup error when it did not.
type Result struct {
	Status    Status
	Canonical *viacep.Address
	Err       error
}

// Observer receives one callback per lookup. It may be nil.
type Observer interface {
	ObserveLookup(result string, d time.Duration)
}

// Reconciler resolves a record's CEP and compares the canonical address with
// the record's own street, neighborhood, city and state.
type Reconciler struct {
	client      viacep.Client
	foldAccents bool
	observer    Observer
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithFoldAccents controls whether comparisons ignore diacritics and collapse
// inner whitespace. Disabled by default: fields are compared uppercased.
func WithFoldAccents(fold bool) Option {
	return func(r *Reconciler) {
		r.foldAccents = fold
	}
}

// WithObserver reports lookup results and latencies to o.
func WithObserver(o Observer) Option {
	return func(r *Reconciler) {
		r.observer = o
	}
}

// NewReconciler creates a Reconciler backed by client.
func NewReconciler(client viacep.Client, opts ...Option) *Reconciler {
	r := &Reconciler{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile performs one best-effort lookup for rec.CEP. Failures never
// escape as errors; they are folded into a LookupFailed result.
func (r *Reconciler) Reconcile(ctx context.Context, rec model.CleanRecord) Result {
	start := time.Now()
	canonical, err := r.client.Lookup(ctx, rec.CEP)
	if err != nil {
		label := "error"
		if errors.Is(err, viacep.ErrNotFound) {
			label = "not_found"
		}
		r.observe(label, time.Since(start))
		return Result{Status: LookupFailed, Err: err}
	}
	r.observe("found", time.Since(start))

	if !r.Matches(canonical, rec) {
		return Result{Status: Mismatch, Canonical: canonical}
	}
	return Result{Status: Matched, Canonical: canonical}
}

// Matches reports whether rec agrees with the canonical address. The
// canonical street only needs to appear inside the reported street, while
// neighborhood, city and state must be equal.
func (r *Reconciler) Matches(canonical *viacep.Address, rec model.CleanRecord) bool {
	if canonical == nil {
		return false
	}
	return strings.Contains(r.key(rec.Street), r.key(canonical.Street)) &&
		r.key(canonical.Neighborhood) == r.key(rec.Neighborhood) &&
		r.key(canonical.City) == r.key(rec.City) &&
		r.key(canonical.State) == r.key(rec.State)
}

func (r *Reconciler) observe(result string, d time.Duration) {
	if r.observer != nil {
		r.observer.ObserveLookup(result, d)
	}
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// key builds the comparison form of s: trimmed and uppercased, and with
// collapsed whitespace and no diacritics when folding is enabled.
func (r *Reconciler) key(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !r.foldAccents {
		return s
	}
	s = strings.Join(strings.Fields(s), " ")
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return folded
}
