package httpinfra

import "net/http"

// ClientHeaders returns the headers wdp sends on every request to the
// debug proxy, both the /json listing and the WebSocket handshake. extra
// entries override the defaults.
func ClientHeaders(userAgent string, extra map[string]string) http.Header {
	h := http.Header{}
	if userAgent != "" {
		h.Set("User-Agent", userAgent)
	}
	for k, v := range extra {
		h.Set(k, v)
	}
	return h
}
