package client

import (
	"bytes"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/retailsurvey/fieldsurvey-go/internal/config"
)

// maxLoggedBody caps how much of a body is written to the log.
const maxLoggedBody = 4 << 10

// newHTTPClient builds an http.Client honoring the configured timeouts.
// Connect bounds dialing and the TLS handshake, write+read bounds the wait for
// response headers, and the sum of all three bounds the whole exchange.
func newHTTPClient(cfg config.ClientConfig) *http.Client {
	connect := time.Duration(cfg.ConnectTimeoutMs) * time.Millisecond
	read := time.Duration(cfg.ReadTimeoutMs) * time.Millisecond
	write := time.Duration(cfg.WriteTimeoutMs) * time.Millisecond

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connect,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   connect,
		ResponseHeaderTimeout: write + read,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	return &http.Client{
		Transport: &loggingTransport{next: transport, logBody: cfg.LogBody},
		Timeout:   connect + write + read,
	}
}

// loggingTransport logs every exchange, optionally with bodies.
type loggingTransport struct {
	next    http.RoundTripper
	logBody bool
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	attrs := []any{"method", req.Method, "url", req.URL.String()}
	if t.logBody && req.Body != nil && req.Body != http.NoBody && !isMultipart(req.Header.Get("Content-Type")) {
		body, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		req = req.Clone(req.Context())
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		attrs = append(attrs, "request_body", truncate(body))
	}

	resp, err := t.next.RoundTrip(req)
	attrs = append(attrs, "duration", time.Since(start))
	if err != nil {
		slog.Warn("api request failed", append(attrs, "error", err)...)
		return nil, err
	}

	attrs = append(attrs, "status", resp.StatusCode)
	if t.logBody {
		head, err := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody+1))
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		resp.Body = &replayBody{
			Reader: io.MultiReader(bytes.NewReader(head), resp.Body),
			Closer: resp.Body,
		}
		attrs = append(attrs, "response_body", truncate(head))
	}

	slog.Debug("api request", attrs...)
	return resp, nil
}

// replayBody yields the already-logged prefix followed by the rest of the body.
type replayBody struct {
	io.Reader
	io.Closer
}

func isMultipart(contentType string) bool {
	return strings.HasPrefix(contentType, "multipart/")
}

func truncate(body []byte) string {
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "...(truncated)"
	}
	return string(body)
}
