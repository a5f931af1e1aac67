package icon

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/punsnhoses-dot/my-event-map/internal/domain"
	"github.com/punsnhoses-dot/my-event-map/internal/observability"
)

func TestHTTPProberExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/PhoneQuizMonday.png" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewHTTPProber(srv.URL, time.Second)

	assert.True(t, p.Exists(context.Background(), "PhoneQuizMonday.png"))
	assert.False(t, p.Exists(context.Background(), "PenQuizMonday.png"))
}

func TestHTTPProberSlowHostIsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewHTTPProber(srv.URL, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	ok := p.Exists(ctx, "PhoneQuizMonday.png")

	// An unconfirmed check counts as absent, within the deadline.
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}

func TestResolveSlowCandidateFallsThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fallback.png" {
			w.WriteHeader(http.StatusOK)
			return
		}
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	prober := NewHTTPProber(srv.URL, time.Second)
	r := NewResolver(prober, 50*time.Millisecond, slog.Default(), observability.NewMetricsForTesting())

	handle := r.Resolve(context.Background(), domain.TypePhone, domain.DayUnknown)

	// The timed-out type-only candidate falls through like a failed one.
	assert.Equal(t, "fallback.png", handle.URL)
	assert.Equal(t, []string{"PhoneQuiz.png"}, r.FailedLocators())
}
