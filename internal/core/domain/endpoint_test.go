package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultEndpoint_URL(t *testing.T) {
	endpoint := DefaultEndpoint()

	assert.Equal(t, "localhost", endpoint.Host())
	assert.Equal(t, 9222, endpoint.Port())
	assert.Equal(t, 1, endpoint.Page())
	assert.Equal(t, "ws://localhost:9222/devtools/page/1", endpoint.URL())
	assert.Equal(t, "http://localhost:9222/json", endpoint.ListingURL())
	assert.Equal(t, endpoint.URL(), endpoint.String())
}

func TestNewEndpoint_Validation(t *testing.T) {
	tests := []struct {
		name        string
		host        string
		port        int
		page        int
		expectURL   string
		expectError bool
	}{
		{name: "OtherPortAndPage", host: "localhost", port: 9223, page: 5, expectURL: "ws://localhost:9223/devtools/page/5"},
		{name: "PageZero", host: "127.0.0.1", port: 9222, page: 0, expectURL: "ws://127.0.0.1:9222/devtools/page/0"},
		{name: "IPv6Host", host: "::1", port: 9222, page: 2, expectURL: "ws://[::1]:9222/devtools/page/2"},
		{name: "EmptyHost", host: "", port: 9222, page: 1, expectError: true},
		{name: "PortZero", host: "localhost", port: 0, page: 1, expectError: true},
		{name: "PortTooLarge", host: "localhost", port: 65536, page: 1, expectError: true},
		{name: "NegativePage", host: "localhost", port: 9222, page: -1, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint, err := NewEndpoint(tt.host, tt.port, tt.page)
			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidEndpoint)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectURL, endpoint.URL())
		})
	}
}

func TestEndpoint_URLFormat_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Draw(t, "port")
		page := rapid.IntRange(0, 10000).Draw(t, "page")

		endpoint, err := NewEndpoint("localhost", port, page)
		require.NoError(t, err)

		expected := fmt.Sprintf("ws://localhost:%d/devtools/page/%d", port, page)
		assert.Equal(t, expected, endpoint.URL())

		listed := Page{WebSocketDebuggerURL: endpoint.URL()}
		assert.Equal(t, page, listed.Number(), "page number should round-trip through the debugger URL")
	})
}

func TestPage_NumberAndAttached(t *testing.T) {
	tests := []struct {
		name           string
		page           Page
		expectNumber   int
		expectAttached bool
	}{
		{
			name: "FreePage",
			page: Page{
				DevtoolsFrontendURL:  "/devtools/devtools.html?ws=localhost:9222/devtools/page/1",
				WebSocketDebuggerURL: "ws://localhost:9222/devtools/page/1",
			},
			expectNumber: 1,
		},
		{
			name:           "AttachedPage",
			page:           Page{WebSocketDebuggerURL: "ws://localhost:9222/devtools/page/7"},
			expectNumber:   7,
			expectAttached: true,
		},
		{
			name:         "NoDebuggerURL",
			page:         Page{Title: "about:blank"},
			expectNumber: -1,
		},
		{
			name:           "UnexpectedPath",
			page:           Page{WebSocketDebuggerURL: "ws://localhost:9222/devtools/browser/abc"},
			expectNumber:   -1,
			expectAttached: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectNumber, tt.page.Number())
			assert.Equal(t, tt.expectAttached, tt.page.Attached())
		})
	}
}
