package socketio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pullgrid/internal/graph"
	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/internal/registry"
	"github.com/vk/pullgrid/modules/sink"
	"github.com/vk/pullgrid/modules/value"
	"github.com/zclconf/go-cty/cty"
)

func TestEmit_Configure(t *testing.T) {
	tpl := NewEmit(nil, TagEmit, Config{Namespace: "/", Timeout: defaultTimeout})

	n, err := tpl.Configure(node.Settings{Values: map[string]cty.Value{
		"url":     cty.StringVal("http://localhost:3000/socket.io/"),
		"event":   cty.StringVal("tick"),
		"timeout": cty.StringVal("2s"),
	}})
	require.NoError(t, err)
	cfg := n.(*Emit).cfg
	assert.Equal(t, "/", cfg.Namespace)
	assert.Equal(t, 2*time.Second, cfg.Timeout)

	again, err := n.(*Emit).Configure(n.(*Emit).Settings())
	require.NoError(t, err)
	assert.Equal(t, cfg, again.(*Emit).cfg)

	for name, vals := range map[string]map[string]cty.Value{
		"relative url":  {"url": cty.StringVal("/socket.io"), "event": cty.StringVal("e")},
		"missing event": {"url": cty.StringVal("http://localhost:3000")},
		"bad timeout":   {"url": cty.StringVal("http://localhost:3000"), "event": cty.StringVal("e"), "timeout": cty.StringVal("soon")},
		"unknown key":   {"port": cty.NumberIntVal(1)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tpl.Configure(node.Settings{Values: vals})
			require.Error(t, err)
		})
	}
}

func TestEncode(t *testing.T) {
	payload, err := encode(cty.ObjectVal(map[string]cty.Value{
		"n":    cty.NumberIntVal(3),
		"tags": cty.ListVal([]cty.Value{cty.StringVal("a")}),
	}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(3), "tags": []any{"a"}}, payload)

	payload, err = encode(cty.NullVal(cty.String))
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestEmit_ConnectFailureSurfaces(t *testing.T) {
	g, err := graph.New()
	require.NoError(t, err)
	tpl, err := NewEmit(nil, TagEmit, Config{}).Configure(node.Settings{Values: map[string]cty.Value{
		"url":     cty.StringVal("http://127.0.0.1:1/socket.io/"),
		"event":   cty.StringVal("tick"),
		"timeout": cty.StringVal("500ms"),
	}})
	require.NoError(t, err)

	src, err := g.AddCopyOf(value.NewConstant(nil, value.TagValue, cty.NumberIntVal(1)), "src")
	require.NoError(t, err)
	emit, err := g.AddCopyOf(tpl, "emit")
	require.NoError(t, err)
	ret, err := g.AddCopyOf(sink.NewReturn(nil, sink.TagReturn, cty.Number), "out")
	require.NoError(t, err)
	require.NoError(t, g.Connect(src, "val", emit, "value"))
	require.NoError(t, g.Connect(src, "val", ret, "in"))

	_, err = ret.(*sink.Return).Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `compute "emit"`)
	require.NoError(t, g.Close())
}

func TestEmit_UnconfiguredURL(t *testing.T) {
	g, err := graph.New()
	require.NoError(t, err)
	emit, err := g.AddCopyOf(NewEmit(nil, TagEmit, Config{}), "emit")
	require.NoError(t, err)

	_, err = emit.ComputeNext(context.Background())
	require.Error(t, err)
}

func TestModule_Register(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.Validate(context.Background()))
}
