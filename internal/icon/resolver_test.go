package icon

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/punsnhoses-dot/my-event-map/internal/domain"
	"github.com/punsnhoses-dot/my-event-map/internal/observability"
)

// fakeProber confirms the locators in exists and records every probe.
type fakeProber struct {
	mu     sync.Mutex
	exists map[string]bool
	probes []string
	delay  time.Duration
}

func (p *fakeProber) Exists(_ context.Context, locator string) bool {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probes = append(p.probes, locator)
	return p.exists[locator]
}

func (p *fakeProber) probed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.probes...)
}

func newTestResolver(p Prober) *Resolver {
	return NewResolver(p, time.Second, slog.Default(), observability.NewMetricsForTesting())
}

func TestResolveFirstConfirmedCandidateWins(t *testing.T) {
	prober := &fakeProber{exists: map[string]bool{
		"PhoneQuizMon.png": true,
		"PhoneQuiz.png":    true,
	}}
	r := newTestResolver(prober)

	handle := r.Resolve(context.Background(), domain.TypePhone, "Monday")

	assert.Equal(t, "PhoneQuizMon.png", handle.URL)
	// Probing stops at the first confirmed candidate.
	assert.Equal(t, []string{"PhoneQuizMonday.png", "PhoneQuizMon.png"}, prober.probed())
}

func TestResolveMemoizesPerKey(t *testing.T) {
	prober := &fakeProber{exists: map[string]bool{"PhoneQuizMonday.png": true}}
	r := newTestResolver(prober)

	first := r.Resolve(context.Background(), domain.TypePhone, "Monday")
	second := r.Resolve(context.Background(), domain.TypePhone, "Monday")

	assert.Equal(t, first, second)
	assert.Len(t, prober.probed(), 1)
}

func TestResolveMemoizesFailure(t *testing.T) {
	prober := &fakeProber{exists: map[string]bool{}}
	r := newTestResolver(prober)

	first := r.Resolve(context.Background(), domain.TypePen, domain.DayUnknown)
	probesAfterFirst := len(prober.probed())
	second := r.Resolve(context.Background(), domain.TypePen, domain.DayUnknown)

	assert.True(t, first.None())
	assert.True(t, second.None())
	// Failure is cached; the second call issues no probes.
	assert.Len(t, prober.probed(), probesAfterFirst)
}

func TestResolveSingleFlight(t *testing.T) {
	prober := &fakeProber{
		exists: map[string]bool{"PhoneQuizMonday.png": true},
		delay:  20 * time.Millisecond,
	}
	r := newTestResolver(prober)

	const callers = 8
	var confirmed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if h := r.Resolve(context.Background(), domain.TypePhone, "Monday"); !h.None() {
				confirmed.Add(1)
			}
		}()
	}
	wg.Wait()

	// All callers share the one probe sequence and the one handle.
	assert.Equal(t, int64(callers), confirmed.Load())
	assert.Len(t, prober.probed(), 1)
}

// gatedProber signals when the first probe starts and blocks it until released.
type gatedProber struct {
	entered chan struct{}
	release chan struct{}
}

func (p *gatedProber) Exists(_ context.Context, _ string) bool {
	close(p.entered)
	<-p.release
	return true
}

func TestResolveCacheOutcomes(t *testing.T) {
	prober := &gatedProber{entered: make(chan struct{}), release: make(chan struct{})}
	m := observability.NewMetricsForTesting()
	r := NewResolver(prober, time.Second, slog.Default(), m)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Resolve(context.Background(), domain.TypePhone, "Monday")
	}()
	<-prober.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Resolve(context.Background(), domain.TypePhone, "Monday")
	}()

	// A caller sharing an in-flight resolution counts as joined, not hit.
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.IconCache.WithLabelValues("joined")) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, testutil.ToFloat64(m.IconCache.WithLabelValues("hit")))

	close(prober.release)
	wg.Wait()

	r.Resolve(context.Background(), domain.TypePhone, "Monday")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.IconCache.WithLabelValues("miss")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.IconCache.WithLabelValues("joined")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.IconCache.WithLabelValues("hit")))
}

func TestResolveDistinctKeysProbeIndependently(t *testing.T) {
	prober := &fakeProber{exists: map[string]bool{
		"PhoneQuizMonday.png": true,
		"PenQuizMonday.png":   true,
	}}
	r := newTestResolver(prober)

	phone := r.Resolve(context.Background(), domain.TypePhone, "Monday")
	pen := r.Resolve(context.Background(), domain.TypePen, "Monday")

	assert.Equal(t, "PhoneQuizMonday.png", phone.URL)
	assert.Equal(t, "PenQuizMonday.png", pen.URL)
}

func TestFailedLocators(t *testing.T) {
	prober := &fakeProber{exists: map[string]bool{"PhoneQuiz.png": true}}
	r := newTestResolver(prober)

	r.Resolve(context.Background(), domain.TypePhone, domain.DayUnknown)

	assert.Empty(t, r.FailedLocators())

	r.Resolve(context.Background(), domain.TypePen, domain.DayUnknown)
	assert.Equal(t, []string{"PenQuiz.png", "fallback.png"}, r.FailedLocators())
}
