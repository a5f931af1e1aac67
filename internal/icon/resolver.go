package icon

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/punsnhoses-dot/my-event-map/internal/domain"
	"github.com/punsnhoses-dot/my-event-map/internal/observability"
)

// Prober reports whether a resource locator exists on the static host.
// Implementations must respect the context deadline; an unconfirmed probe
// counts as absent.
type Prober interface {
	Exists(ctx context.Context, locator string) bool
}

// key identifies one memoized resolution.
type key struct {
	Type domain.EventType
	Day  domain.DayLabel
}

// flight is a single in-progress or completed resolution. Concurrent calls
// for the same key wait on done instead of issuing duplicate probes.
type flight struct {
	done   chan struct{}
	handle domain.IconHandle
}

// Resolver memoizes icon resolution per (type, day) key. Failure is memoized
// too: once every candidate has failed for a key, the "no icon" sentinel is
// the cached answer for the rest of the ingestion. A Resolver's cache spans
// exactly one ingestion cycle; build a fresh one per cycle.
type Resolver struct {
	prober  Prober
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	flights map[key]*flight
	failed  map[string]struct{}
}

// NewResolver creates a resolver probing through the given prober, bounding
// each candidate probe by timeout.
func NewResolver(prober Prober, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		prober:  prober,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
		flights: make(map[key]*flight),
		failed:  make(map[string]struct{}),
	}
}

// Resolve returns the icon handle for (type, day), probing candidates in
// order on first use. The zero handle means no candidate exists; callers
// fall back to the day-coloured default marker.
func (r *Resolver) Resolve(ctx context.Context, t domain.EventType, day domain.DayLabel) domain.IconHandle {
	k := key{Type: t, Day: day}

	r.mu.Lock()
	if f, ok := r.flights[k]; ok {
		r.mu.Unlock()
		select {
		case <-f.done:
			r.metrics.IconCache.WithLabelValues("hit").Inc()
			return f.handle
		default:
		}
		// Still in flight: this caller shares the pending result.
		r.metrics.IconCache.WithLabelValues("joined").Inc()
		select {
		case <-f.done:
			return f.handle
		case <-ctx.Done():
			return domain.IconHandle{}
		}
	}
	f := &flight{done: make(chan struct{})}
	r.flights[k] = f
	r.mu.Unlock()

	r.metrics.IconCache.WithLabelValues("miss").Inc()
	f.handle = r.probeCandidates(ctx, t, day)
	close(f.done)
	return f.handle
}

// probeCandidates walks the candidate list in order and returns the first
// confirmed locator. Timed-out probes fall through like failed ones.
func (r *Resolver) probeCandidates(ctx context.Context, t domain.EventType, day domain.DayLabel) domain.IconHandle {
	for _, locator := range Candidates(t, day) {
		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		ok := r.prober.Exists(attemptCtx, locator)
		cancel()

		if ok {
			r.metrics.IconProbes.WithLabelValues("confirmed").Inc()
			return domain.IconHandle{URL: locator}
		}
		r.metrics.IconProbes.WithLabelValues("failed").Inc()
		r.recordFailure(locator)
	}

	r.logger.Debug("no icon resolved", "type", t, "day", day)
	return domain.IconHandle{}
}

func (r *Resolver) recordFailure(locator string) {
	r.mu.Lock()
	r.failed[locator] = struct{}{}
	r.mu.Unlock()
}

// FailedLocators returns every candidate locator that failed a probe during
// this ingestion, sorted. Consumed by the legend/debug surface.
func (r *Resolver) FailedLocators() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.failed))
	for locator := range r.failed {
		out = append(out, locator)
	}
	sort.Strings(out)
	return out
}
