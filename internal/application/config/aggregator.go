package appconfig

import (
	"context"
	"fmt"

	configdomain "wdp.dev/cli/internal/core/domain/config"
	configports "wdp.dev/cli/internal/core/ports/config"
)

// Aggregator merges multiple loader snapshots, honoring priorities.
type Aggregator struct {
	loaders []configports.Loader
}

func NewAggregator(loaders ...configports.Loader) *Aggregator {
	return &Aggregator{loaders: loaders}
}

// LoadSnapshot returns the merged snapshot, including CLI overrides as priority 1
func (a *Aggregator) LoadSnapshot(ctx context.Context, overrides map[string]interface{}) (configdomain.Snapshot, error) {
	snap := make(configdomain.Snapshot)
	for field, v := range overrides {
		snap[field] = configdomain.Entry{
			Key:        field,
			Value:      v,
			Source:     "cli",
			SourcePath: "command_line_flag",
			Priority:   configdomain.PriorityCLI,
		}
	}

	for _, l := range a.loaders {
		s, err := l.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s config: %w", l.Name(), err)
		}
		snap.Merge(s)
	}
	return snap, nil
}

// Load resolves and validates the typed configuration
func (a *Aggregator) Load(ctx context.Context, overrides map[string]interface{}) (configdomain.Config, error) {
	snap, err := a.LoadSnapshot(ctx, overrides)
	if err != nil {
		return configdomain.Config{}, err
	}
	cfg, err := configdomain.FromSnapshot(snap)
	if err != nil {
		return configdomain.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return configdomain.Config{}, err
	}
	return cfg, nil
}
