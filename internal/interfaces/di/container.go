package di

import (
	"io"
	"os"
	"time"

	"wdp.dev/cli/internal/application/services"
	configports "wdp.dev/cli/internal/core/ports/config"
	configinfra "wdp.dev/cli/internal/infrastructure/config"
	httpinfra "wdp.dev/cli/internal/infrastructure/http"
	"wdp.dev/cli/internal/infrastructure/websocket"
	"wdp.dev/cli/internal/interfaces/cli"
)

// pageListingTimeout bounds the /json request of the pages command
const pageListingTimeout = 10 * time.Second

// Container holds all application dependencies
type Container struct {
	SessionService *services.SessionService
	PageLister     *httpinfra.PageLister
	EnvLoader      *configinfra.EnvLoader

	CLIContainer *cli.CLIContainer
}

// NewContainer wires the production dependencies. Transcript output goes
// to out, diagnostics and errors to errOut.
func NewContainer(out, errOut io.Writer) *Container {
	userAgent := "wdp/" + cli.Version
	handshakeHeaders := httpinfra.ClientHeaders(userAgent, nil)

	c := &Container{
		SessionService: services.NewSessionService(websocket.Factory(websocket.WithHeader(handshakeHeaders))),
		PageLister:     httpinfra.NewPageLister(pageListingTimeout, userAgent),
		EnvLoader:      configinfra.NewEnvLoader(),
	}

	c.CLIContainer = &cli.CLIContainer{
		Out:       out,
		Err:       errOut,
		Getenv:    os.Getenv,
		EnvLoader: c.EnvLoader,
		NewFileLoader: func(path string) configports.Loader {
			return configinfra.NewFileLoader(path)
		},
		SessionService: c.SessionService,
		PageLister:     c.PageLister,
	}
	return c
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}
