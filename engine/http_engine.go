package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"
)

const (
	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	// DefaultMaxBodyBytes caps how much of a response body is read.
	DefaultMaxBodyBytes = 10 << 20

	maxRedirects = 10
)

// HTTPEngine fetches pages with a plain HTTP GET. It does not execute
// JavaScript.
type HTTPEngine struct {
	name         string
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

// Option configures an HTTPEngine.
type Option func(*HTTPEngine)

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(e *HTTPEngine) {
		if ua != "" {
			e.userAgent = ua
		}
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(e *HTTPEngine) {
		if n > 0 {
			e.maxBodyBytes = n
		}
	}
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at load time and reused for every connection.
var chromeH1Spec, chromeSpecErr = loadChromeH1Spec()

func loadChromeH1Spec() (tls.ClientHelloSpec, error) {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return tls.ClientHelloSpec{}, err
	}
	// Go's http.Transport cannot speak h2 over a utls connection.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	return spec, nil
}

// NewHTTPEngine creates an engine backed by the standard TLS stack.
func NewHTTPEngine(opts ...Option) *HTTPEngine {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return newEngine("http", transport, opts)
}

// NewChromeEngine creates an engine that presents a Chrome TLS fingerprint,
// for hosts that reject the Go client hello. ALPN is locked to http/1.1.
// It fails when the fingerprint could not be built.
func NewChromeEngine(opts ...Option) (*HTTPEngine, error) {
	if chromeSpecErr != nil {
		return nil, fmt.Errorf("chrome tls fingerprint unavailable: %w", chromeSpecErr)
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: 10 * time.Second}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2:   false,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return newEngine("chrome-tls", transport, opts), nil
}

func newEngine(name string, transport http.RoundTripper, opts []Option) *HTTPEngine {
	e := &HTTPEngine{
		name:         name,
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *HTTPEngine) Name() string { return e.name }

// Fetch performs a GET and returns the body of a successful HTML response.
// Deadlines come from ctx.
func (e *HTTPEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, e.fail(req.URL, 0, fmt.Errorf("build request: %w", err))
	}

	httpReq.Header.Set("User-Agent", e.userAgent)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, e.fail(req.URL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, e.fail(req.URL, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}
	if ct := resp.Header.Get("Content-Type"); !isHTMLContentType(ct) {
		return nil, e.fail(req.URL, 0, fmt.Errorf("non-html content type %q", ct))
	}

	// One extra byte tells a body of exactly maxBodyBytes from a longer one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodyBytes+1))
	if err != nil {
		return nil, e.fail(req.URL, 0, fmt.Errorf("read body: %w", err))
	}
	truncated := int64(len(body)) > e.maxBodyBytes
	if truncated {
		body = body[:e.maxBodyBytes]
		slog.Debug("response body truncated",
			"engine", e.name,
			"url", req.URL,
			"limit_bytes", e.maxBodyBytes,
		)
	}

	return &FetchResult{
		HTML:       string(body),
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
		EngineName: e.name,
		Truncated:  truncated,
	}, nil
}

func (e *HTTPEngine) fail(url string, status int, err error) *FetchError {
	return &FetchError{URL: url, Engine: e.name, StatusCode: status, Err: err}
}

// isHTMLContentType reports whether ct looks like HTML. A missing header is
// accepted.
func isHTMLContentType(ct string) bool {
	if ct == "" {
		return true
	}
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
