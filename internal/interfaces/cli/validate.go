package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wdp.dev/cli/internal/application/services"
	"wdp.dev/cli/internal/jsonrpc"
)

// NewValidateCommand creates the validate command
func NewValidateCommand(container *CLIContainer) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration, command queue and connectivity",
		Long: `Check everything a session needs without sending any command.

This command will:
- Resolve and validate the configuration
- Build the command queue and check every payload is a protocol request
- Read the proxy's page listing and check the configured page is there

Payloads that are not requests are reported but still sent as-is by a
real session; only configuration and connectivity failures are errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, container, offline)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the connectivity check")
	return cmd
}

// runValidate handles the validation process
func runValidate(cmd *cobra.Command, container *CLIContainer, offline bool) error {
	out := cmd.OutOrStdout()

	// 1. Load and validate configuration
	fmt.Fprint(out, "Checking configuration... ")
	cfg, err := loadConfig(cmd, container)
	if err != nil {
		fmt.Fprintln(out, "failed")
		return err
	}
	endpoint, err := cfg.Endpoint()
	if err != nil {
		fmt.Fprintln(out, "failed")
		return err
	}
	fmt.Fprintf(out, "ok (%s)\n", endpoint.URL())

	// 2. Check the command queue
	fmt.Fprint(out, "Checking command queue... ")
	queue, err := services.BuildQueue(cfg)
	if err != nil {
		fmt.Fprintln(out, "failed")
		return err
	}
	warnings := 0
	for _, c := range queue.Commands() {
		msg, err := jsonrpc.Parse([]byte(c.Payload), jsonrpc.DirectionOutbound)
		if err != nil || msg.Type() != jsonrpc.MessageTypeRequest {
			if warnings == 0 {
				fmt.Fprintln(out)
			}
			warnings++
			reportPayload(out, c.ID, msg, err)
		}
	}
	if warnings == 0 {
		fmt.Fprintf(out, "ok (%d commands)\n", queue.Len())
	} else {
		fmt.Fprintf(out, "  %d of %d commands are not protocol requests\n", warnings, queue.Len())
	}

	// 3. Test connectivity
	if offline {
		fmt.Fprintln(out, "Skipping connectivity check")
		return nil
	}
	fmt.Fprintf(out, "Checking %s... ", endpoint.ListingURL())
	pages, err := container.PageLister.ListPages(commandContext(cmd), endpoint)
	if err != nil {
		fmt.Fprintln(out, "failed")
		return err
	}
	fmt.Fprintf(out, "ok (%d pages)\n", len(pages))

	for _, p := range pages {
		if p.Number() != endpoint.Page() {
			continue
		}
		if p.Attached() {
			fmt.Fprintf(out, "Page %d (%s) is attached to another client\n", endpoint.Page(), p.URL)
		} else {
			fmt.Fprintf(out, "Page %d: %s\n", endpoint.Page(), p.URL)
		}
		return nil
	}
	return fmt.Errorf("page %d is not listed by %s (run 'wdp pages')", endpoint.Page(), endpoint.Address())
}

func reportPayload(out io.Writer, id int, msg *jsonrpc.Message, err error) {
	if err != nil {
		fmt.Fprintf(out, "  command %d: %v\n", id, err)
		return
	}
	fmt.Fprintf(out, "  command %d: %s, not a request\n", id, msg.Summary())
}
