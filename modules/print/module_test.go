package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pullgrid/internal/graph"
	"github.com/vk/pullgrid/internal/registry"
	"github.com/vk/pullgrid/modules/sink"
	"github.com/vk/pullgrid/modules/value"
	"github.com/zclconf/go-cty/cty"
)

func TestPrint_ObservesSiblingDemand(t *testing.T) {
	var buf bytes.Buffer
	g, err := graph.New()
	require.NoError(t, err)

	src, err := g.AddCopyOf(value.NewConstant(nil, value.TagValue, cty.ObjectVal(map[string]cty.Value{
		"n": cty.NumberIntVal(1),
	})), "src")
	require.NoError(t, err)
	dbg, err := g.AddCopyOf(NewPrint(nil, TagPrint, &buf), "dbg")
	require.NoError(t, err)
	ret, err := g.AddCopyOf(sink.NewReturn(nil, sink.TagReturn, cty.DynamicPseudoType), "out")
	require.NoError(t, err)
	require.NoError(t, g.Connect(src, "val", dbg, "value"))
	require.NoError(t, g.Connect(src, "val", ret, "in"))

	// Without demand from the return node nothing flows.
	require.NoError(t, g.Drive(context.Background()))
	assert.Empty(t, buf.String())

	_, err = ret.(*sink.Return).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dbg = {\"n\":1}\n", buf.String())
	assert.Zero(t, dbg.Inputs()["value"].Remaining())
}

func TestRender_Null(t *testing.T) {
	s, err := Render(cty.NullVal(cty.String))
	require.NoError(t, err)
	assert.Equal(t, "(null)", s)
}

func TestModule_Register(t *testing.T) {
	var buf bytes.Buffer
	r := registry.New()
	(&Module{Out: &buf}).Register(r)
	tpl, ok := r.Lookup(TagPrint)
	require.True(t, ok)
	assert.Same(t, &buf, tpl.(*Print).w)
	assert.Empty(t, tpl.Outputs())
}
