package configdomain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Values(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9222, cfg.Port)
	assert.Equal(t, 1, cfg.Page)
	assert.Equal(t, "http://www.google.com", cfg.URL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.HandshakeTimeout)
	assert.NoError(t, cfg.Validate())

	endpoint, err := cfg.Endpoint()
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:9222/devtools/page/1", endpoint.URL())
	assert.Equal(t, "default", cfg.Source(FieldPort).Source)
}

func TestSnapshot_MergeRespectsPriority(t *testing.T) {
	snap := Snapshot{
		FieldPort: {Key: FieldPort, Value: "9300", Source: "env", Priority: PriorityEnv},
	}
	snap.Merge(Snapshot{
		FieldPort: {Key: FieldPort, Value: 9400, Source: "file", Priority: PriorityFile},
		FieldPage: {Key: FieldPage, Value: 3, Source: "file", Priority: PriorityFile},
	})
	snap.Merge(Snapshot{
		FieldPort: {Key: FieldPort, Value: "9500", Source: "cli", Priority: PriorityCLI},
	})

	assert.Equal(t, "cli", snap[FieldPort].Source)
	assert.Equal(t, "9500", snap[FieldPort].Value)
	assert.Equal(t, 3, snap[FieldPage].Value)
}

func TestFromSnapshot_ConvertsLoaderShapes(t *testing.T) {
	snap := Snapshot{
		FieldHost:             {Value: "10.0.0.2", Source: "env", Priority: PriorityEnv},
		FieldPort:             {Value: float64(9223), Source: "file", Priority: PriorityFile},
		FieldPage:             {Value: int64(5), Source: "file", Priority: PriorityFile},
		FieldHandshakeTimeout: {Value: "2s", Source: "env", Priority: PriorityEnv},
		FieldCommands:         {Value: []interface{}{"A", "B"}, Source: "file", Priority: PriorityFile},
	}

	cfg, err := FromSnapshot(snap)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.2", cfg.Host)
	assert.Equal(t, 9223, cfg.Port)
	assert.Equal(t, 5, cfg.Page)
	assert.Equal(t, 2*time.Second, cfg.HandshakeTimeout)
	assert.Equal(t, []string{"A", "B"}, cfg.Commands)
	assert.Equal(t, "file", cfg.Source(FieldPort).Source)
}

func TestSetValue_Errors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value interface{}
	}{
		{name: "PortNotANumber", field: FieldPort, value: "abc"},
		{name: "FractionalPage", field: FieldPage, value: 1.5},
		{name: "BadDuration", field: FieldHandshakeTimeout, value: "soon"},
		{name: "HostNotString", field: FieldHost, value: 42},
		{name: "UnknownField", field: "colour", value: "blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.SetValue(tt.field, Entry{Value: tt.value, Source: "env", SourcePath: "WDP_TEST", Priority: PriorityEnv})
			assert.Error(t, err)
		})
	}
}

func TestSetValue_LowerPriorityDoesNotOverride(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetValue(FieldPort, Entry{Value: 9300, Source: "cli", Priority: PriorityCLI}))
	require.NoError(t, cfg.SetValue(FieldPort, Entry{Value: 9400, Source: "file", Priority: PriorityFile}))

	assert.Equal(t, 9300, cfg.Port)
	assert.Equal(t, "cli", cfg.Source(FieldPort).Source)
}

func TestFromSnapshot_CommandsAndScriptByPriority(t *testing.T) {
	t.Run("FlagCommandsShadowFileScript", func(t *testing.T) {
		cfg, err := FromSnapshot(Snapshot{
			FieldCommands: {Key: FieldCommands, Value: []string{"A"}, Source: "cli", Priority: PriorityCLI},
			FieldScript:   {Key: FieldScript, Value: "commands.txt", Source: "file", Priority: PriorityFile},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"A"}, cfg.Commands)
		assert.Empty(t, cfg.Script)
		assert.Equal(t, "default", cfg.Source(FieldScript).Source)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("FlagScriptShadowsEnvCommands", func(t *testing.T) {
		cfg, err := FromSnapshot(Snapshot{
			FieldCommands: {Key: FieldCommands, Value: "A", Source: "env", Priority: PriorityEnv},
			FieldScript:   {Key: FieldScript, Value: "commands.txt", Source: "cli", Priority: PriorityCLI},
		})
		require.NoError(t, err)

		assert.Empty(t, cfg.Commands)
		assert.Equal(t, "commands.txt", cfg.Script)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("SamePriorityConflicts", func(t *testing.T) {
		cfg, err := FromSnapshot(Snapshot{
			FieldCommands: {Key: FieldCommands, Value: []string{"A"}, Source: "cli", Priority: PriorityCLI},
			FieldScript:   {Key: FieldScript, Value: "commands.txt", Source: "cli", Priority: PriorityCLI},
		})
		require.NoError(t, err)

		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{name: "EmptyHost", mutate: func(c *Config) { c.Host = "" }, message: "host cannot be empty"},
		{name: "PortOutOfRange", mutate: func(c *Config) { c.Port = 70000 }, message: "port must be between"},
		{name: "NegativePage", mutate: func(c *Config) { c.Page = -2 }, message: "page must not be negative"},
		{name: "BadLogLevel", mutate: func(c *Config) { c.LogLevel = "loud" }, message: "invalid log_level"},
		{name: "BadLogFormat", mutate: func(c *Config) { c.LogFormat = "xml" }, message: "invalid log_format"},
		{name: "NegativeTimeout", mutate: func(c *Config) { c.HandshakeTimeout = -time.Second }, message: "handshake_timeout"},
		{
			name: "CommandsAndScript",
			mutate: func(c *Config) {
				c.Commands = []string{"A"}
				c.Script = "commands.txt"
			},
			message: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
