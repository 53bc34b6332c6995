// Package invoker defines the Operation Invoker abstraction the engine
// consumes: given a resolved operation reference, grouped parameters, and
// a request body, it returns a response record. The engine never talks to
// an HTTP client directly — it only ever calls through this interface, so
// tests drive it with MockInvoker and real runs plug in HTTPInvoker or a
// caller-supplied implementation.
package invoker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/genelet/arazzoengine/enginerr"
)

// ParamLocation mirrors arazzo1.Parameter.In: the named slot a resolved
// parameter value is delivered into on the outgoing call.
type ParamLocation string

const (
	ParamPath   ParamLocation = "path"
	ParamQuery  ParamLocation = "query"
	ParamHeader ParamLocation = "header"
	ParamCookie ParamLocation = "cookie"
	ParamBody   ParamLocation = "body"
)

// Param is one resolved (name, value) parameter pair.
type Param struct {
	Name  string
	Value any
}

// Target identifies the operation or already-resolved URL a step invokes.
// Exactly one of OperationID or OperationPath is set, mirroring the Step's
// own exactly-one-of invariant over its invocation target.
type Target struct {
	OperationID   string
	OperationPath string
}

// Request is everything the step runner has resolved about one operation
// call: the target, parameters grouped by location, and the request body.
type Request struct {
	Target      Target
	Parameters  map[ParamLocation][]Param
	Body        any
	ContentType string
}

// Response is the invoker's typed reply: the transport succeeded and
// produced an HTTP-shaped result, whether or not that result's status code
// indicates success — a non-2xx response is data the success-criteria
// evaluator examines, not an invocation error.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       any

	// Method and URL are optional: an Invoker implementation that knows
	// how it resolved the target (HTTPInvoker does) may populate them so
	// the step runner can record them into the execution context's
	// per-step url/method slot. An Invoker that doesn't resolve a real
	// HTTP call (or a MockInvoker in tests) may leave them empty.
	Method string
	URL    string
}

// Invoker is the abstract sink the step runner calls through. A transport-
// level failure (connection refused, context deadline, DNS failure) is
// returned as an error; anything that reached the far end and produced an
// HTTP response, even a 5xx one, is returned as a Response.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (*Response, error)
}

// MockResult scripts one call's outcome for MockInvoker: either a Response
// or an error, never both.
type MockResult struct {
	Response *Response
	Err      error
}

// MockInvoker is a scripted, sequence-based Invoker for engine tests: each
// call consumes the next configured MockResult (the last one repeats once
// exhausted), and every received Request is recorded for assertions.
type MockInvoker struct {
	mu      sync.Mutex
	results []MockResult
	calls   []Request
}

// NewMockInvoker builds a MockInvoker that returns results in sequence.
func NewMockInvoker(results ...MockResult) *MockInvoker {
	return &MockInvoker{results: results}
}

// Invoke records req and returns the next scripted result.
func (m *MockInvoker) Invoke(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if len(m.results) == 0 {
		return &Response{StatusCode: 200}, nil
	}
	idx := len(m.calls) - 1
	if idx >= len(m.results) {
		idx = len(m.results) - 1
	}
	result := m.results[idx]
	if result.Err != nil {
		return nil, result.Err
	}
	return result.Response, nil
}

// Calls returns every Request received so far, in call order.
func (m *MockInvoker) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount reports how many times Invoke has been called.
func (m *MockInvoker) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Resolver resolves a Target to a method and absolute URL. Resolving an
// operationPath against a loaded OpenAPI source description is explicitly
// out of the engine's concerns; a caller wires its own Resolver over
// whatever source descriptions it has loaded.
type Resolver interface {
	Resolve(target Target) (method, url string, err error)
}

// HTTPInvoker is the default Invoker: a thin net/http client that resolves
// a Target via a caller-supplied Resolver, applies path/query/header/
// cookie parameters, sends the request, and decodes a JSON response body.
// Transport-level errors are retried with a bounded constant backoff —
// distinct from the document-level retry failure action, which is the
// step runner's concern, not the transport's.
type HTTPInvoker struct {
	Client        *http.Client
	Resolver      Resolver
	MaxRetries    uint
	RetryInterval time.Duration
}

// HTTPInvokerOption configures an HTTPInvoker at construction time.
type HTTPInvokerOption func(*HTTPInvoker)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(client *http.Client) HTTPInvokerOption {
	return func(h *HTTPInvoker) { h.Client = client }
}

// WithMaxRetries bounds the number of transport-level retry attempts.
func WithMaxRetries(n uint) HTTPInvokerOption {
	return func(h *HTTPInvoker) { h.MaxRetries = n }
}

// WithRetryInterval sets the constant delay between transport-level retry
// attempts.
func WithRetryInterval(d time.Duration) HTTPInvokerOption {
	return func(h *HTTPInvoker) { h.RetryInterval = d }
}

// NewHTTPInvoker builds an HTTPInvoker over resolver with sane defaults: a
// 30s-timeout http.Client, up to 2 transport retries, 200ms apart.
func NewHTTPInvoker(resolver Resolver, opts ...HTTPInvokerOption) *HTTPInvoker {
	h := &HTTPInvoker{
		Client:        &http.Client{Timeout: 30 * time.Second},
		Resolver:      resolver,
		MaxRetries:    2,
		RetryInterval: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTPInvoker) Invoke(ctx context.Context, req Request) (*Response, error) {
	method, rawURL, err := h.Resolver.Resolve(req.Target)
	if err != nil {
		return nil, enginerr.ErrInvocation.Wrap("resolving operation target", err)
	}

	resolvedURL, err := applyPathAndQueryParams(rawURL, req.Parameters)
	if err != nil {
		return nil, enginerr.ErrInvocation.Wrap("applying parameters to "+rawURL, err)
	}

	op := func() (*Response, error) {
		return h.doOnce(ctx, method, resolvedURL, req)
	}

	resp, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(h.RetryInterval)),
		backoff.WithMaxTries(h.MaxRetries+1),
	)
	if err != nil {
		return nil, enginerr.ErrInvocation.Wrap(method+" "+resolvedURL, err)
	}
	return resp, nil
}

func (h *HTTPInvoker) doOnce(ctx context.Context, method, resolvedURL string, req Request) (*Response, error) {
	var bodyReader io.Reader
	contentType := req.ContentType
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("encoding request body: %w", err))
		}
		bodyReader = bytes.NewReader(payload)
		if contentType == "" {
			contentType = "application/json"
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, resolvedURL, bodyReader)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("building request: %w", err))
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for _, p := range req.Parameters[ParamHeader] {
		httpReq.Header.Set(p.Name, fmt.Sprintf("%v", p.Value))
	}
	for _, p := range req.Parameters[ParamCookie] {
		httpReq.AddCookie(&http.Cookie{Name: p.Name, Value: fmt.Sprintf("%v", p.Value)})
	}

	httpResp, err := h.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	var decoded any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			decoded = string(raw)
		}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       decoded,
		Method:     method,
		URL:        resolvedURL,
	}, nil
}

func applyPathAndQueryParams(rawURL string, params map[ParamLocation][]Param) (string, error) {
	resolved := rawURL
	for _, p := range params[ParamPath] {
		resolved = strings.ReplaceAll(resolved, "{"+p.Name+"}", url.PathEscape(fmt.Sprintf("%v", p.Value)))
	}

	parsed, err := url.Parse(resolved)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	for _, p := range params[ParamQuery] {
		query.Set(p.Name, fmt.Sprintf("%v", p.Value))
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
