package httpinfra

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wdp.dev/cli/internal/core/domain"
)

func endpointFor(t *testing.T, server *httptest.Server) domain.Endpoint {
	t.Helper()
	host, portStr, err := net.SplitHostPort(server.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	endpoint, err := domain.NewEndpoint(host, port, 1)
	require.NoError(t, err)
	return endpoint
}

func TestPageLister_ListPages(t *testing.T) {
	seen := make(chan [2]string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- [2]string{r.URL.Path, r.Header.Get("User-Agent")}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
  {
    "devtoolsFrontendUrl": "/devtools/devtools.html?ws=localhost:9222/devtools/page/1",
    "faviconUrl": "",
    "thumbnailUrl": "/thumb/http://www.google.com/",
    "title": "Google",
    "url": "http://www.google.com/",
    "webSocketDebuggerUrl": "ws://localhost:9222/devtools/page/1"
  },
  {
    "faviconUrl": "",
    "thumbnailUrl": "/thumb/about:blank",
    "title": "",
    "url": "about:blank",
    "webSocketDebuggerUrl": "ws://localhost:9222/devtools/page/2"
  }
]`))
	}))
	defer server.Close()

	lister := NewPageLister(time.Second, "wdp/test")
	pages, err := lister.ListPages(context.Background(), endpointFor(t, server))
	require.NoError(t, err)

	assert.Equal(t, [2]string{"/json", "wdp/test"}, <-seen)
	require.Len(t, pages, 2)

	assert.Equal(t, "Google", pages[0].Title)
	assert.Equal(t, 1, pages[0].Number())
	assert.False(t, pages[0].Attached())

	assert.Equal(t, 2, pages[1].Number())
	assert.True(t, pages[1].Attached())
}

func TestPageLister_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		message string
	}{
		{
			name: "NonOKStatus",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusServiceUnavailable)
			},
			message: "page listing returned 503",
		},
		{
			name: "InvalidJSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"not":"a list"}`))
			},
			message: "invalid page listing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewPageLister(time.Second, "").ListPages(context.Background(), endpointFor(t, server))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestPageLister_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := endpointFor(t, server)
	server.Close()

	_, err := NewPageLister(time.Second, "").ListPages(context.Background(), endpoint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list pages")
}

func TestClientHeaders(t *testing.T) {
	h := ClientHeaders("wdp/1.0", map[string]string{"Accept": "application/json"})
	assert.Equal(t, "wdp/1.0", h.Get("User-Agent"))
	assert.Equal(t, "application/json", h.Get("Accept"))

	h = ClientHeaders("", map[string]string{"user-agent": "custom"})
	assert.Equal(t, "custom", h.Get("User-Agent"), "extra headers should override the default")
	assert.Empty(t, ClientHeaders("", nil))
}
