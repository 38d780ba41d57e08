package httpinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wdp.dev/cli/internal/core/domain"
	"wdp.dev/cli/internal/core/ports"
)

const maxListingBytes = 4 << 20

// PageLister reads the proxy's /json page listing. One request, no retries.
type PageLister struct {
	client  *http.Client
	headers http.Header
}

func NewPageLister(timeout time.Duration, userAgent string) *PageLister {
	return &PageLister{
		client:  &http.Client{Timeout: timeout},
		headers: ClientHeaders(userAgent, map[string]string{"Accept": "application/json"}),
	}
}

func (l *PageLister) ListPages(ctx context.Context, endpoint domain.Endpoint) ([]domain.Page, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.ListingURL(), nil)
	if err != nil {
		return nil, err
	}
	for k, v := range l.headers {
		httpReq.Header[k] = v
	}

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages at %s: %w", endpoint.ListingURL(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListingBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read page listing: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page listing returned %s", resp.Status)
	}

	var pages []domain.Page
	if err := json.Unmarshal(body, &pages); err != nil {
		return nil, fmt.Errorf("invalid page listing: %w", err)
	}
	return pages, nil
}

var _ ports.PageLister = (*PageLister)(nil)
