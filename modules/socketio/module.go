// Package socketio provides a terminal node that forwards every value it
// receives to a socket.io event.
package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/pullgrid/internal/ctxlog"
	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/internal/port"
	"github.com/vk/pullgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	TagEmit        = "socketio.emit"
	defaultTimeout = 10 * time.Second
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(NewEmit(nil, TagEmit, Config{Namespace: "/", Timeout: defaultTimeout}))
}

// Config holds the connection settings of an emit node.
type Config struct {
	URL                string
	Namespace          string
	Event              string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Emit has a single "value" input of any type. Values are encoded as JSON and
// emitted as the payload of Event. The connection is opened on first use and
// released by Close.
type Emit struct {
	node.Base
	cfg Config
	in  *port.Input
	io  *socket.Socket
}

// NewEmit creates an emit node.
func NewEmit(g node.Graph, name string, cfg Config) *Emit {
	e := &Emit{Base: node.NewBase(TagEmit, g, name), cfg: cfg}
	e.in = e.AddInput("value", cty.DynamicPseudoType)
	return e
}

func (e *Emit) Clone(g node.Graph, name string) (node.Node, error) {
	return NewEmit(g, name, e.cfg), nil
}

// ComputeNext emits every buffered value. It never produces.
func (e *Emit) ComputeNext(ctx context.Context) (bool, error) {
	logger := ctxlog.FromContext(ctx).With("node", e.Name(), "url", e.cfg.URL, "event", e.cfg.Event)
	if e.cfg.URL == "" {
		return false, errors.New(`"url" is not configured`)
	}
	if e.io == nil {
		io, err := e.connect(ctx)
		if err != nil {
			return false, err
		}
		e.io = io
	}
	for e.in.Remaining() > 0 {
		v, err := e.in.Pop()
		if err != nil {
			return false, err
		}
		payload, err := encode(v)
		if err != nil {
			return false, err
		}
		logger.Debug("Emitting event", "type", v.Type().FriendlyName())
		if err := e.io.Emit(e.cfg.Event, payload); err != nil {
			return false, fmt.Errorf("emit %q: %w", e.cfg.Event, err)
		}
	}
	return false, nil
}

func encode(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", v.Type().FriendlyName(), err)
	}
	var payload any
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, fmt.Errorf("encode %s: %w", v.Type().FriendlyName(), err)
	}
	return payload, nil
}

func (e *Emit) connect(ctx context.Context) (*socket.Socket, error) {
	logger := ctxlog.FromContext(ctx).With("node", e.Name(), "url", e.cfg.URL)

	parsedURL, err := url.Parse(e.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if e.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(e.cfg.Namespace, opts)

	done := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "namespace", e.cfg.Namespace, "sid", io.Id())
		select {
		case done <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect error")
		if len(errs) > 0 {
			if cause, ok := errs[0].(error); ok {
				err = cause
			}
		}
		select {
		case done <- err:
		default:
		}
	})
	io.Connect()

	timeout := e.cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-opCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out while waiting for initial connection to %s", e.cfg.URL)
	case err := <-done:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("connect %s: %w", e.cfg.URL, err)
		}
		return io, nil
	}
}

// Close disconnects the socket if it was opened.
func (e *Emit) Close() error {
	if e.io != nil {
		e.io.Disconnect()
		e.io = nil
	}
	return nil
}

func (e *Emit) Settings() node.Settings {
	vals := map[string]cty.Value{
		"url":       cty.StringVal(e.cfg.URL),
		"namespace": cty.StringVal(e.cfg.Namespace),
		"event":     cty.StringVal(e.cfg.Event),
		"timeout":   cty.StringVal(e.cfg.Timeout.String()),
	}
	if e.cfg.InsecureSkipVerify {
		vals["insecure_skip_verify"] = cty.True
	}
	return node.Settings{Values: vals}
}

// Configure accepts "url" and "event" (required for a usable node), plus
// "namespace", "timeout" and "insecure_skip_verify".
func (e *Emit) Configure(s node.Settings) (node.Node, error) {
	if err := s.CheckKeys("url", "namespace", "event", "timeout", "insecure_skip_verify"); err != nil {
		return nil, err
	}
	cfg := Config{Namespace: "/", Timeout: defaultTimeout}
	if _, err := s.Decode("url", &cfg.URL); err != nil {
		return nil, err
	}
	if _, err := s.Decode("namespace", &cfg.Namespace); err != nil {
		return nil, err
	}
	if _, err := s.Decode("event", &cfg.Event); err != nil {
		return nil, err
	}
	if _, err := s.Decode("insecure_skip_verify", &cfg.InsecureSkipVerify); err != nil {
		return nil, err
	}
	var timeout string
	ok, err := s.Decode("timeout", &timeout)
	if err != nil {
		return nil, err
	}
	if ok {
		cfg.Timeout, err = time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("timeout: %w", err)
		}
	}
	if cfg.URL != "" {
		u, err := url.Parse(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("url %q must be absolute", cfg.URL)
		}
		if cfg.Event == "" {
			return nil, fmt.Errorf(`"event" is required`)
		}
	}
	return NewEmit(nil, e.Name(), cfg), nil
}
