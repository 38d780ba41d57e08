package domain

import (
	"strconv"
	"strings"
)

// Page is one inspectable page as listed by the debug proxy at /json
type Page struct {
	DevtoolsFrontendURL  string `json:"devtoolsFrontendUrl"`
	FaviconURL           string `json:"faviconUrl"`
	ThumbnailURL         string `json:"thumbnailUrl"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// Number returns the page index parsed from the debugger URL, or -1 if
// the URL does not end in /devtools/page/<n>.
func (p Page) Number() int {
	i := strings.LastIndex(p.WebSocketDebuggerURL, devtoolsPagePath)
	if i < 0 {
		return -1
	}
	n, err := strconv.Atoi(p.WebSocketDebuggerURL[i+len(devtoolsPagePath):])
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// Attached reports whether another client already holds the page. The
// proxy omits the frontend URL for pages that are in use.
func (p Page) Attached() bool {
	return p.DevtoolsFrontendURL == "" && p.WebSocketDebuggerURL != ""
}
