package configdomain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"wdp.dev/cli/internal/core/domain"
)

// Entry represents a single configuration value with provenance and priority.
type Entry struct {
	Key        string
	Value      interface{}
	Source     string
	SourcePath string
	Priority   int
}

// Snapshot is a collection of config entries keyed by field name.
type Snapshot map[string]Entry

// Merge merges another snapshot into this one respecting priority
// (lower number indicates higher priority).
func (s Snapshot) Merge(other Snapshot) {
	for k, e := range other {
		if existing, ok := s[k]; !ok || e.Priority <= existing.Priority {
			s[k] = e
		}
	}
}

// Field names shared by every loader
const (
	FieldHost             = "host"
	FieldPort             = "port"
	FieldPage             = "page"
	FieldURL              = "url"
	FieldLogLevel         = "log_level"
	FieldLogFormat        = "log_format"
	FieldHandshakeTimeout = "handshake_timeout"
	FieldCommands         = "commands"
	FieldScript           = "script"
)

// Source priorities, 1 is highest
const (
	PriorityCLI     = 1
	PriorityEnv     = 2
	PriorityFile    = 3
	PriorityDefault = 4
)

const DefaultNavigateURL = "http://www.google.com"

// Config is the resolved configuration of one run. It is built once at
// startup and passed by value into the components that need it.
type Config struct {
	Host             string        `json:"host" yaml:"host" toml:"host"`
	Port             int           `json:"port" yaml:"port" toml:"port"`
	Page             int           `json:"page" yaml:"page" toml:"page"`
	URL              string        `json:"url" yaml:"url" toml:"url"`
	LogLevel         string        `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat        string        `json:"log_format" yaml:"log_format" toml:"log_format"`
	HandshakeTimeout time.Duration `json:"handshake_timeout" yaml:"handshake_timeout" toml:"handshake_timeout"`
	Commands         []string      `json:"commands,omitempty" yaml:"commands,omitempty" toml:"commands,omitempty"`
	Script           string        `json:"script,omitempty" yaml:"script,omitempty" toml:"script,omitempty"`

	// Sources records where each field came from
	Sources map[string]Entry `json:"-" yaml:"-" toml:"-"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Host:             domain.DefaultHost,
		Port:             domain.DefaultPort,
		Page:             domain.DefaultPage,
		URL:              DefaultNavigateURL,
		LogLevel:         "info",
		LogFormat:        "text",
		HandshakeTimeout: 10 * time.Second,
		Sources:          make(map[string]Entry),
	}
}

// FromSnapshot applies every entry of snap on top of the defaults
func FromSnapshot(snap Snapshot) (Config, error) {
	cfg := Default()
	for field, entry := range snap {
		if err := cfg.SetValue(field, entry); err != nil {
			return Config{}, err
		}
	}
	cfg.dropShadowedQueueSource()
	return cfg, nil
}

// dropShadowedQueueSource keeps only the higher-priority one of commands
// and script. When both come from the same priority they are left for
// Validate to reject.
func (c *Config) dropShadowedQueueSource() {
	if len(c.Commands) == 0 || c.Script == "" {
		return
	}
	commands, script := c.Source(FieldCommands), c.Source(FieldScript)
	switch {
	case commands.Priority < script.Priority:
		c.Script = ""
		delete(c.Sources, FieldScript)
	case script.Priority < commands.Priority:
		c.Commands = nil
		delete(c.Sources, FieldCommands)
	}
}

// SetValue sets a field from a loader entry. Values are converted from
// the shapes the loaders produce (strings from env and flags, int64 from
// TOML, float64 from JSON).
func (c *Config) SetValue(field string, entry Entry) error {
	if c.Sources == nil {
		c.Sources = make(map[string]Entry)
	}
	if existing, ok := c.Sources[field]; ok && existing.Priority < entry.Priority {
		return nil
	}

	var err error
	switch field {
	case FieldHost:
		c.Host, err = toString(entry.Value)
	case FieldPort:
		c.Port, err = toInt(entry.Value)
	case FieldPage:
		c.Page, err = toInt(entry.Value)
	case FieldURL:
		c.URL, err = toString(entry.Value)
	case FieldLogLevel:
		c.LogLevel, err = toString(entry.Value)
	case FieldLogFormat:
		c.LogFormat, err = toString(entry.Value)
	case FieldHandshakeTimeout:
		c.HandshakeTimeout, err = toDuration(entry.Value)
	case FieldCommands:
		c.Commands, err = toStrings(entry.Value)
	case FieldScript:
		c.Script, err = toString(entry.Value)
	default:
		return fmt.Errorf("unknown config field: %s", field)
	}
	if err != nil {
		return fmt.Errorf("invalid %s from %s (%s): %w", field, entry.Source, entry.SourcePath, err)
	}

	c.Sources[field] = entry
	return nil
}

// Source returns where a field was set, or a "default" entry
func (c Config) Source(field string) Entry {
	if e, ok := c.Sources[field]; ok {
		return e
	}
	return Entry{Key: field, Source: "default", Priority: PriorityDefault}
}

// Endpoint returns the validated debugging endpoint
func (c Config) Endpoint() (domain.Endpoint, error) {
	return domain.NewEndpoint(c.Host, c.Port, c.Page)
}

// Validate performs domain-level validation on the configuration
func (c Config) Validate() error {
	var problems []string

	if _, err := c.Endpoint(); err != nil {
		problems = append(problems, err.Error())
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "trace", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log_level: %s (must be one of: debug, info, warn, error)", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		problems = append(problems, fmt.Sprintf("invalid log_format: %s (must be text or json)", c.LogFormat))
	}
	if c.HandshakeTimeout < 0 {
		problems = append(problems, "handshake_timeout must be non-negative")
	}
	if len(c.Commands) > 0 && c.Script != "" {
		problems = append(problems, "commands and script are mutually exclusive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func toString(v interface{}) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int(n), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toDuration(v interface{}) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		return time.ParseDuration(strings.TrimSpace(d))
	case int, int64, float64:
		secs, err := toInt(d)
		if err != nil {
			return 0, err
		}
		return time.Duration(secs) * time.Second, nil
	default:
		return 0, fmt.Errorf("expected duration, got %T", v)
	}
}

func toStrings(v interface{}) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, err := toString(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return []string{list}, nil
	default:
		return nil, fmt.Errorf("expected list of strings, got %T", v)
	}
}
