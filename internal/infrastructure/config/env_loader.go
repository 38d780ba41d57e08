package configinfra

import (
	"context"
	"os"

	configdomain "wdp.dev/cli/internal/core/domain/config"
	configports "wdp.dev/cli/internal/core/ports/config"
)

type EnvLoader struct {
	lookup func(string) (string, bool)
}

func NewEnvLoader() *EnvLoader { return &EnvLoader{lookup: os.LookupEnv} }

// NewEnvLoaderFrom reads variables from a map instead of the process environment
func NewEnvLoaderFrom(env map[string]string) *EnvLoader {
	return &EnvLoader{lookup: func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}}
}

func (l *EnvLoader) Name() string { return "env" }

// Load implements Loader by returning the environment snapshot.
func (l *EnvLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	return l.LoadEnv(), nil
}

// LoadEnv builds a snapshot from WDP_* environment variables (priority 2).
// Values stay strings; the typed config converts them.
func (l *EnvLoader) LoadEnv() configdomain.Snapshot {
	snap := make(configdomain.Snapshot)
	add := func(key, field string) {
		if v, ok := l.lookup(key); ok && v != "" {
			snap[field] = configdomain.Entry{Key: field, Value: v, Source: "env", SourcePath: key, Priority: configdomain.PriorityEnv}
		}
	}

	add("WDP_HOST", configdomain.FieldHost)
	add("WDP_PORT", configdomain.FieldPort)
	add("WDP_PAGE", configdomain.FieldPage)
	add("WDP_URL", configdomain.FieldURL)
	add("WDP_LOG_LEVEL", configdomain.FieldLogLevel)
	add("WDP_LOG_FORMAT", configdomain.FieldLogFormat)
	add("WDP_HANDSHAKE_TIMEOUT", configdomain.FieldHandshakeTimeout)
	add("WDP_SCRIPT", configdomain.FieldScript)

	return snap
}

var _ configports.Loader = (*EnvLoader)(nil)
