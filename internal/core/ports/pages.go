package ports

import (
	"context"

	"wdp.dev/cli/internal/core/domain"
)

// PageLister fetches the pages a debug proxy exposes
type PageLister interface {
	ListPages(ctx context.Context, endpoint domain.Endpoint) ([]domain.Page, error)
}
