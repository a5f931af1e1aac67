package icon

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPProber checks resource existence with a HEAD request against the icon
// base URL. Any response other than 200 within the deadline, or any
// transport error, counts as absent.
type HTTPProber struct {
	client *resty.Client
}

// NewHTTPProber creates a prober for the given static host base URL. The
// client timeout is a backstop; per-attempt deadlines come from the context.
func NewHTTPProber(baseURL string, timeout time.Duration) *HTTPProber {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)
	return &HTTPProber{client: client}
}

func (p *HTTPProber) Exists(ctx context.Context, locator string) bool {
	resp, err := p.client.R().SetContext(ctx).Head("/" + locator)
	return err == nil && resp.StatusCode() == http.StatusOK
}
