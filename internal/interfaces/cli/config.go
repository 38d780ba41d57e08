package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	appconfig "wdp.dev/cli/internal/application/config"
	configdomain "wdp.dev/cli/internal/core/domain/config"
)

// flagFields maps command line flags to config fields
var flagFields = map[string]string{
	"host":              configdomain.FieldHost,
	"port":              configdomain.FieldPort,
	"page":              configdomain.FieldPage,
	"url":               configdomain.FieldURL,
	"log-level":         configdomain.FieldLogLevel,
	"log-format":        configdomain.FieldLogFormat,
	"handshake-timeout": configdomain.FieldHandshakeTimeout,
	"command":           configdomain.FieldCommands,
	"script":            configdomain.FieldScript,
}

func addConfigFlags(cmd *cobra.Command) {
	defaults := configdomain.Default()
	flags := cmd.PersistentFlags()

	flags.String("config", "", "Config file path (.yaml, .toml or .json; default ./wdp.yaml or ~/.config/wdp/config.yaml)")
	flags.String("host", defaults.Host, "Debug proxy host")
	flags.Int("port", defaults.Port, "Debug proxy port")
	flags.Int("page", defaults.Page, "Page number to open (see 'wdp pages')")
	flags.String("url", defaults.URL, "URL for the default Page.navigate command")
	flags.String("log-level", defaults.LogLevel, "Diagnostic log level (debug, info, warn, error)")
	flags.String("log-format", defaults.LogFormat, "Diagnostic log format (text, json)")
	flags.Duration("handshake-timeout", defaults.HandshakeTimeout, "WebSocket opening handshake timeout")
	flags.StringArray("command", nil, "Raw command payload to send; repeat to queue several")
	flags.String("script", "", "File with one command payload per line")
}

// flagOverrides returns the flags the user set explicitly
func flagOverrides(cmd *cobra.Command) (map[string]interface{}, error) {
	overrides := make(map[string]interface{})
	flags := cmd.Flags()

	for name, field := range flagFields {
		if !flags.Changed(name) {
			continue
		}
		var (
			v   interface{}
			err error
		)
		switch name {
		case "port", "page":
			v, err = flags.GetInt(name)
		case "handshake-timeout":
			v, err = flags.GetDuration(name)
		case "command":
			v, err = flags.GetStringArray(name)
		default:
			v, err = flags.GetString(name)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", name, err)
		}
		overrides[field] = v
	}
	return overrides, nil
}

// loadConfig resolves flags, environment, config file and defaults
func loadConfig(cmd *cobra.Command, container *CLIContainer) (configdomain.Config, error) {
	overrides, err := flagOverrides(cmd)
	if err != nil {
		return configdomain.Config{}, err
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" && container.Getenv != nil {
		path = container.Getenv("WDP_CONFIG")
	}

	aggregator := appconfig.NewAggregator(container.EnvLoader, container.NewFileLoader(path))
	cfg, err := aggregator.Load(commandContext(cmd), overrides)
	if err != nil {
		return configdomain.Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// NewConfigCommand creates the config command
func NewConfigCommand(container *CLIContainer) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration wdp would use, and where each value came from.

Values are resolved in this order (first wins): command line flags,
WDP_* environment variables, the config file, built-in defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, container)
			if err != nil {
				return err
			}
			printConfig(cmd, cfg)
			return nil
		},
	}
	return configCmd
}

func printConfig(cmd *cobra.Command, cfg configdomain.Config) {
	out := cmd.OutOrStdout()
	endpoint, _ := cfg.Endpoint()

	rows := map[string]string{
		configdomain.FieldHost:             cfg.Host,
		configdomain.FieldPort:             fmt.Sprint(cfg.Port),
		configdomain.FieldPage:             fmt.Sprint(cfg.Page),
		configdomain.FieldURL:              cfg.URL,
		configdomain.FieldLogLevel:         cfg.LogLevel,
		configdomain.FieldLogFormat:        cfg.LogFormat,
		configdomain.FieldHandshakeTimeout: cfg.HandshakeTimeout.String(),
		configdomain.FieldScript:           cfg.Script,
		configdomain.FieldCommands:         fmt.Sprintf("%d queued", len(cfg.Commands)),
	}
	fields := make([]string, 0, len(rows))
	for f := range rows {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	fmt.Fprintln(out, "Current Configuration:")
	fmt.Fprintf(out, "  endpoint: %s\n", endpoint.URL())
	for _, f := range fields {
		src := cfg.Source(f)
		origin := src.Source
		if src.SourcePath != "" {
			origin += " " + src.SourcePath
		}
		fmt.Fprintf(out, "  %s: %s (%s)\n", f, rows[f], strings.TrimSpace(origin))
	}
}
