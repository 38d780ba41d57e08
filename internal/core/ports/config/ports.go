package configports

import (
	"context"

	configdomain "wdp.dev/cli/internal/core/domain/config"
)

// Loader produces a snapshot of configuration entries from one source
type Loader interface {
	Load(ctx context.Context) (configdomain.Snapshot, error)
	Name() string
}
