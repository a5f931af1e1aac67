// Package ingest orchestrates the fetch-classify-resolve-index pipeline and
// owns the published snapshot the HTTP API serves from.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/punsnhoses-dot/my-event-map/internal/domain"
	"github.com/punsnhoses-dot/my-event-map/internal/index"
	"github.com/punsnhoses-dot/my-event-map/internal/observability"
)

// Source delivers the raw records of one ingestion cycle.
type Source interface {
	Fetch(ctx context.Context) ([]domain.RawRecord, error)
}

// Resolver is the icon resolver built fresh for each cycle; its cache and
// failure diagnostics span exactly one ingestion.
type Resolver interface {
	index.IconResolver
	FailedLocators() []string
}

// ResolverFactory builds a fresh Resolver per ingestion cycle.
type ResolverFactory func() Resolver

// Snapshot is the immutable result of one ingestion cycle plus the filter
// state derived from it. Filter changes publish a new Snapshot value; a
// published Snapshot is never mutated.
type Snapshot struct {
	ID             string
	IngestedAt     time.Time
	Index          *index.Index
	Filter         index.State
	FailedLocators []string
}

// Service runs ingestion cycles and holds the current snapshot. Cycles are
// serialized; a new cycle fully replaces the snapshot and resets the filter.
type Service struct {
	source      Source
	newResolver ResolverFactory
	logger      *slog.Logger
	metrics     *observability.Metrics

	ingestMu sync.Mutex // serializes ingestion cycles

	mu   sync.RWMutex // guards snap
	snap *Snapshot
}

// New creates a Service. No ingestion runs until Ingest is called.
func New(source Source, newResolver ResolverFactory, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		source:      source,
		newResolver: newResolver,
		logger:      logger,
		metrics:     metrics,
	}
}

// Ingest runs one full cycle. On fetch failure the previous snapshot stays
// in place and the error is returned; classification and icon resolution
// never fail a cycle.
func (s *Service) Ingest(ctx context.Context) (*Snapshot, error) {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	s.metrics.IngestRunning.Set(1)
	defer s.metrics.IngestRunning.Set(0)
	start := time.Now()

	records, err := s.source.Fetch(ctx)
	if err != nil {
		s.metrics.IngestRuns.WithLabelValues("error").Inc()
		s.logger.Error("ingestion aborted, keeping previous snapshot", "error", err)
		return nil, err
	}

	resolver := s.newResolver()
	idx := index.NewBuilder(resolver, s.logger, s.metrics).Build(ctx, records)

	snap := &Snapshot{
		ID:             uuid.NewString(),
		IngestedAt:     time.Now().UTC(),
		Index:          idx,
		Filter:         index.Initial(idx.Days),
		FailedLocators: resolver.FailedLocators(),
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.metrics.IngestRuns.WithLabelValues("success").Inc()
	s.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("ingestion complete",
		"ingestion_id", snap.ID,
		"rows", len(records),
		"dropped", idx.Dropped,
		"days", len(idx.Days),
	)
	return snap, nil
}

// Snapshot returns the current snapshot, or nil before the first successful
// ingestion.
func (s *Service) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// CheckReadiness reports nil once a snapshot has been published.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.Snapshot() == nil {
		return errors.New("no ingestion has completed yet")
	}
	return nil
}

// Toggle flips one day's visibility in the current snapshot. Returns the
// published snapshot and false when no snapshot exists yet.
func (s *Service) Toggle(day domain.DayLabel) (*Snapshot, bool) {
	return s.updateFilter(func(f index.State) index.State { return f.Toggle(day) })
}

// SelectAll marks every day visible.
func (s *Service) SelectAll() (*Snapshot, bool) {
	return s.updateFilter(index.State.SelectAll)
}

// ClearAll marks every day hidden.
func (s *Service) ClearAll() (*Snapshot, bool) {
	return s.updateFilter(index.State.ClearAll)
}

// updateFilter publishes a copy of the current snapshot with a transformed
// filter state, leaving the old value untouched for in-flight readers.
func (s *Service) updateFilter(transform func(index.State) index.State) (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap == nil {
		return nil, false
	}
	next := *s.snap
	next.Filter = transform(s.snap.Filter)
	s.snap = &next
	return s.snap, true
}
