package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"wdp.dev/cli/internal/application/services"
	configdomain "wdp.dev/cli/internal/core/domain/config"
	"wdp.dev/cli/internal/core/ports"
	configports "wdp.dev/cli/internal/core/ports/config"
	"wdp.dev/cli/internal/infrastructure/logging"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	Out io.Writer
	Err io.Writer

	Getenv        func(string) string
	EnvLoader     configports.Loader
	NewFileLoader func(path string) configports.Loader

	SessionService *services.SessionService
	PageLister     ports.PageLister
}

// NewRootCommand creates the wdp command. Without a subcommand it opens
// the configured page session, sends the command queue and prints the
// transcript.
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "wdp",
		Short: "Send commands to a remote debugging page session",
		Long: `wdp connects to a WebKit/DevTools remote debugging endpoint
(ws://<host>:<port>/devtools/page/<page>), sends each queued command after the
previous reply arrives, prints everything sent and received, and disconnects
once the queue is exhausted.

By default the queue holds a single Page.navigate command for --url.

Examples:
  wdp                                   # navigate page 1 on localhost:9222
  wdp --port 9223 --page 5 --url https://example.com
  wdp --command '{"id":1,"method":"Runtime.evaluate","params":{"expression":"1+1"}}'
  wdp --script commands.txt
  wdp pages                             # list pages exposed by the proxy`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, container)
		},
	}

	rootCmd.SetOut(container.Out)
	rootCmd.SetErr(container.Err)
	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	addConfigFlags(rootCmd)

	rootCmd.AddCommand(NewPagesCommand(container))
	rootCmd.AddCommand(NewDashboardCommand(container))
	rootCmd.AddCommand(NewConfigCommand(container))
	rootCmd.AddCommand(NewValidateCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// runSession executes the default command
func runSession(cmd *cobra.Command, container *CLIContainer) error {
	cfg, err := loadConfig(cmd, container)
	if err != nil {
		return err
	}

	logger := newLogger(cmd, cfg, container.Err)
	observer := logging.NewConsoleLogger(container.Out, logger)

	_, err = container.SessionService.Run(commandContext(cmd), cfg, observer, logger)
	return err
}

// newLogger builds the diagnostics logger; entries carry the invoked command
func newLogger(cmd *cobra.Command, cfg configdomain.Config, w io.Writer) *logging.LogrusLogger {
	level, err := ports.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		level = ports.LogLevelInfo
	}
	return logging.NewLogrusLogger(w, ports.LoggingConfig{Level: level, Format: cfg.LogFormat}).
		WithField("command", cmd.CommandPath())
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Execute runs the root command and exits non-zero on error
func Execute(ctx context.Context, container *CLIContainer) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(container.Err, "Error: %v\n", err)
		os.Exit(1)
	}
}
