package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vk/pullgrid/internal/ctxlog"
	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/internal/port"
	"github.com/zclconf/go-cty/cty"
)

// Request pops a URL from "url" and pushes the response as an object with
// "status_code" and "body". Non-2xx statuses are results, not errors.
type Request struct {
	node.Base
	method  string
	timeout time.Duration
	client  *http.Client
	url     *port.Input
	out     *port.Output
}

// NewRequest creates a request node. Templates get no client.
func NewRequest(g node.Graph, name, method string, timeout time.Duration) *Request {
	r := &Request{Base: node.NewBase(TagGet, g, name), method: method, timeout: timeout}
	r.url = r.AddInput("url", cty.String)
	r.out = r.AddOutput("response", ResponseType)
	if g != nil {
		r.client = newClient(timeout)
	}
	return r
}

func (r *Request) Clone(g node.Graph, name string) (node.Node, error) {
	return NewRequest(g, name, r.method, r.timeout), nil
}

func (r *Request) ComputeNext(ctx context.Context) (bool, error) {
	pushed := false
	for r.out.Requested() > 0 && r.url.Remaining() > 0 {
		u, err := r.url.Pop()
		if err != nil {
			return pushed, err
		}
		if u.IsNull() {
			return pushed, fmt.Errorf("url is null")
		}
		resp, err := r.do(ctx, u.AsString())
		if err != nil {
			return pushed, err
		}
		if err := r.out.Push(resp); err != nil {
			return pushed, err
		}
		pushed = true
	}
	return pushed, nil
}

func (r *Request) do(ctx context.Context, url string) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx).With("node", r.Name(), "method", r.method, "url", url)
	logger.Debug("Making HTTP request")

	req, err := http.NewRequestWithContext(ctx, r.method, url, nil)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to read response body: %w", err)
	}
	logger.Debug("Received HTTP response", "status", resp.Status, "bytes", len(body))

	return cty.ObjectVal(map[string]cty.Value{
		"status_code": cty.NumberIntVal(int64(resp.StatusCode)),
		"body":        cty.StringVal(string(body)),
	}), nil
}

// Close drops idle connections.
func (r *Request) Close() error {
	if r.client != nil {
		r.client.CloseIdleConnections()
	}
	return nil
}

func (r *Request) Settings() node.Settings {
	return node.Settings{Values: map[string]cty.Value{
		"method":  cty.StringVal(r.method),
		"timeout": cty.StringVal(r.timeout.String()),
	}}
}

// Configure accepts "method" (default GET) and a "timeout" duration string
// (default 30s).
func (r *Request) Configure(s node.Settings) (node.Node, error) {
	if err := s.CheckKeys("method", "timeout"); err != nil {
		return nil, err
	}
	method := "GET"
	if _, err := s.Decode("method", &method); err != nil {
		return nil, err
	}
	method = strings.ToUpper(method)
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	timeout := defaultTimeout
	var raw string
	ok, err := s.Decode("timeout", &raw)
	if err != nil {
		return nil, err
	}
	if ok {
		if timeout, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("timeout: %w", err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("timeout must be positive, got %s", raw)
		}
	}
	return NewRequest(nil, r.Name(), method, timeout), nil
}
