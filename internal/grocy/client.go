package grocy

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/bobmcallan/grocy-mcp/internal/common"
	"github.com/bobmcallan/grocy-mcp/internal/config"
	"github.com/bobmcallan/grocy-mcp/internal/metrics"
	"github.com/bobmcallan/grocy-mcp/internal/tracing"
)

// RequestTimeout bounds every Grocy call.
const RequestTimeout = 30 * time.Second

// maxResponseSize caps how much of an upstream body is read into memory.
const maxResponseSize = 50 << 20 // 50MB

const (
	timeoutMessage = "Connection timeout: The server took too long to respond. Please check your network connection or server availability."
	resetMessage   = "Connection reset: The server unexpectedly closed the connection. This might be due to server overload or network issues."
	networkMessage = "Network error: Unable to reach the Grocy server. Please verify that the server is running and accessible."
)

// Request is one outbound call. Path must already be normalized.
type Request struct {
	Method  string
	Path    string
	Headers Headers
	Body    any
}

// Response is what Grocy sent back. Status codes are data here, never errors.
type Response struct {
	URL        string
	StatusCode int
	StatusText string
	Header     http.Header
	Body       []byte
	Elapsed    time.Duration
}

// Decode parses the body as JSON. Non-JSON bodies come back as UTF-8 text and
// an empty body as nil.
func (r *Response) Decode() any {
	return decodeBody(r.Body)
}

// Client talks to one Grocy instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       *Authenticator
	sanitizer  *Sanitizer
	custom     Headers
	shaper     Shaper
	convert    bool
	sslVerify  bool
	logger     *common.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a client from the Grocy section of the configuration.
func NewClient(cfg config.GrocyConfig, logger *common.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !cfg.EnableSSLVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via GROCY_ENABLE_SSL_VERIFY=false
	}

	auth := NewAuthenticator(cfg.Auth)
	custom := make(Headers, len(cfg.Headers))
	custom.Merge(cfg.Headers)

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   RequestTimeout,
			Transport: transport,
		},
		auth:      auth,
		sanitizer: NewSanitizer(auth.APIKeyHeader(), cfg.Headers),
		custom:    custom,
		shaper:    NewShaper(cfg.ResponseSizeLimit),
		convert:   cfg.ConvertNumericStrings,
		sslVerify: cfg.EnableSSLVerify,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Auth returns the active authenticator.
func (c *Client) Auth() *Authenticator { return c.auth }

// Sanitizer returns the header sanitizer bound to this client's configuration.
func (c *Client) Sanitizer() *Sanitizer { return c.sanitizer }

// Shaper returns the response size policy.
func (c *Client) Shaper() Shaper { return c.shaper }

// ConvertsNumericStrings reports whether responses get string numbers converted.
func (c *Client) ConvertsNumericStrings() bool { return c.convert }

// SSLVerify reports whether TLS certificates are verified.
func (c *Client) SSLVerify() bool { return c.sslVerify }

// URL joins the base URL and a normalized path.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// BuildHeaders assembles outbound headers, lowest precedence first: custom
// headers, per-call headers, JSON content negotiation, then authentication.
func (c *Client) BuildHeaders(call map[string]string) Headers {
	h := c.custom.Clone()
	h.Merge(call)
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")
	c.auth.Apply(h)
	return h
}

// Execute performs one HTTP call. Any received response is returned as data
// whatever its status; only transport failures produce an error, classified
// as ConnectionTimeout, ConnectionReset or NetworkError.
func (c *Client) Execute(ctx context.Context, req Request) (*Response, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	target := c.URL(req.Path)
	headers := c.BuildHeaders(req.Headers)

	ctx, span := tracing.StartSpan(ctx, "grocy "+method)
	defer span.End()

	var bodyReader io.Reader
	var payload []byte
	if req.Body != nil && sendsBody(method) {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	if payload != nil && (method == http.MethodPost || method == http.MethodPut) {
		c.logger.Info().Str("method", method).Str("url", target).Str("body", string(payload)).Msg("grocy request")
	} else {
		c.logger.Info().Str("method", method).Str("url", target).Msg("grocy request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for name, value := range headers {
		httpReq.Header.Set(name, value)
	}
	tracing.InjectHeaders(ctx, httpReq.Header)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		classified := classifyTransportError(err)
		kind := string(KindOf(classified))
		if kind == "" {
			kind = "Other"
		}
		metrics.RecordUpstream(method, 0, elapsed.Seconds(), 0, kind)
		tracing.AddUpstreamAttributes(span, method, target, 0)
		tracing.RecordError(span, classified)
		c.logger.Error().Str("method", method).Str("url", target).Int64("duration_ms", elapsed.Milliseconds()).Str("kind", kind).Err(err).Msg("grocy request failed")
		return nil, classified
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		classified := classifyTransportError(err)
		tracing.RecordError(span, classified)
		c.logger.Error().Str("method", method).Str("url", target).Err(err).Msg("failed to read grocy response")
		return nil, classified
	}

	metrics.RecordUpstream(method, resp.StatusCode, elapsed.Seconds(), len(body), "")
	tracing.AddUpstreamAttributes(span, method, target, resp.StatusCode)
	c.logger.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Int64("duration_ms", elapsed.Milliseconds()).Msg("grocy response")

	return &Response{
		URL:        target,
		StatusCode: resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Header:     resp.Header,
		Body:       body,
		Elapsed:    elapsed,
	}, nil
}

// Do is Execute for callers that treat a status of 400 or above as failure.
// Such responses become an UpstreamHttpError carrying the body.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	resp, err := c.Execute(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		msg := fmt.Sprintf("API error (%d): %s", resp.StatusCode, bodyJSON(resp.Body))
		c.logger.Warn().Int("status", resp.StatusCode).Str("url", resp.URL).Msg(msg)
		return nil, &Error{Kind: KindUpstreamHTTP, Status: resp.StatusCode, Message: msg}
	}
	return resp, nil
}

// Call runs Do and decodes the body, converting numeric strings when enabled.
func (c *Client) Call(ctx context.Context, method, path string, body any) (any, error) {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	return c.Normalize(resp.Decode()), nil
}

// Normalize applies the configured response conversions to decoded data.
func (c *Client) Normalize(data any) any {
	if c.convert {
		return ConvertStringToNumber(data)
	}
	return data
}

func sendsBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// classifyTransportError maps a failed round trip onto an error kind.
// Caller cancellation is returned unchanged.
func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindConnectionTimeout, Message: timeoutMessage, Err: err}
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || strings.HasSuffix(err.Error(), "EOF") ||
		strings.Contains(err.Error(), "connection reset") {
		return &Error{Kind: KindConnectionReset, Message: resetMessage, Err: err}
	}

	var urlErr *url.Error
	var opErr *net.OpError
	if errors.As(err, &urlErr) || errors.As(err, &opErr) {
		return &Error{Kind: KindNetworkError, Message: networkMessage, Err: err}
	}

	return err
}

// decodeBody parses JSON with numbers kept exact.
func decodeBody(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return EnsureUTF8(string(body))
	}
	return v
}

// bodyJSON renders a body the way it appears in error messages: compact JSON,
// or a quoted string when the body is not JSON.
func bodyJSON(body []byte) string {
	var buf bytes.Buffer
	if len(bytes.TrimSpace(body)) > 0 && json.Compact(&buf, body) == nil {
		return buf.String()
	}
	quoted, _ := json.Marshal(EnsureUTF8(string(body)))
	return string(quoted)
}
