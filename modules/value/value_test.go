package value

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pullgrid/internal/graph"
	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/internal/port"
	"github.com/vk/pullgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// collect wires a plain input to out so tests can pull from it directly.
func collect(t *testing.T, g *graph.Graph, out *port.Output) *port.Input {
	t.Helper()
	in := g.NewInput("reader", "in", cty.DynamicPseudoType)
	require.NoError(t, port.Link(out, in))
	return in
}

func pull(t *testing.T, g *graph.Graph, in *port.Input, n int) []cty.Value {
	t.Helper()
	// The reader is not a graph member, so raise the producer's demand too.
	in.RequestUpTo(n)
	in.Upstream().RequestUpTo(in.Requested())
	require.NoError(t, g.Drive(context.Background()))
	var got []cty.Value
	for in.Remaining() > 0 {
		v, err := in.Pop()
		require.NoError(t, err)
		got = append(got, v)
	}
	return got
}

func ints(t *testing.T, vals []cty.Value) []int64 {
	t.Helper()
	out := make([]int64, len(vals))
	for i, v := range vals {
		n, acc := v.AsBigFloat().Int64()
		require.Zero(t, acc, "not an integer: %s", v.GoString())
		out[i] = n
	}
	return out
}

func TestConstant_PushesOncePerDemand(t *testing.T) {
	g, err := graph.New()
	require.NoError(t, err)
	c, err := g.AddCopyOf(NewConstant(nil, TagValue, cty.StringVal("hi")), "greeting")
	require.NoError(t, err)
	in := collect(t, g, c.Outputs()["val"])

	got := pull(t, g, in, 3)
	assert.Equal(t, []cty.Value{cty.StringVal("hi"), cty.StringVal("hi"), cty.StringVal("hi")}, got)
}

func TestConstant_NoDemandNoPush(t *testing.T) {
	g, err := graph.New()
	require.NoError(t, err)
	c, err := g.AddCopyOf(NewConstant(nil, TagValue, cty.NumberIntVal(7)), "seven")
	require.NoError(t, err)

	produced, err := c.ComputeNext(context.Background())
	require.NoError(t, err)
	assert.False(t, produced)
}

func TestConstant_Configure(t *testing.T) {
	tpl := NewConstant(nil, TagValue, cty.NumberIntVal(0))

	t.Run("converts to the given type", func(t *testing.T) {
		n, err := tpl.Configure(node.Settings{
			Type:   cty.String,
			Values: map[string]cty.Value{"value": cty.NumberIntVal(12)},
		})
		require.NoError(t, err)
		assert.Equal(t, cty.StringVal("12"), n.(*Constant).Value())
	})

	t.Run("infers the type from the value", func(t *testing.T) {
		n, err := tpl.Configure(node.Settings{Values: map[string]cty.Value{"value": cty.True}})
		require.NoError(t, err)
		assert.Equal(t, cty.Bool, n.(*Constant).Settings().Type)
	})

	t.Run("rejects", func(t *testing.T) {
		cases := map[string]node.Settings{
			"missing value": {},
			"unknown key":   {Values: map[string]cty.Value{"value": cty.True, "extra": cty.True}},
			"null value":    {Values: map[string]cty.Value{"value": cty.NullVal(cty.Number)}},
			"bad conversion": {
				Type:   cty.Number,
				Values: map[string]cty.Value{"value": cty.StringVal("nope")},
			},
		}
		for name, s := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := tpl.Configure(s)
				require.Error(t, err)
			})
		}
	})

	t.Run("round trips through settings", func(t *testing.T) {
		orig := NewConstant(nil, TagValue, cty.ListVal([]cty.Value{cty.NumberIntVal(1)}))
		again, err := orig.Configure(orig.Settings())
		require.NoError(t, err)
		assert.True(t, orig.Value().RawEquals(again.(*Constant).Value()))
	})
}

func TestSequence(t *testing.T) {
	g, err := graph.New()
	require.NoError(t, err)
	tpl, err := NewSequence(nil, TagSequence, cty.NumberIntVal(0), cty.NumberIntVal(1)).Configure(node.Settings{
		Values: map[string]cty.Value{"start": cty.NumberIntVal(10), "step": cty.NumberIntVal(5)},
	})
	require.NoError(t, err)
	seq, err := g.AddCopyOf(tpl, "seq")
	require.NoError(t, err)
	in := collect(t, g, seq.Outputs()["val"])

	assert.Equal(t, []int64{10, 15}, ints(t, pull(t, g, in, 2)))
	assert.Equal(t, []int64{20}, ints(t, pull(t, g, in, 1)))

	t.Run("clones restart", func(t *testing.T) {
		again, err := g.AddCopyOf(seq, "seq2")
		require.NoError(t, err)
		in2 := collect(t, g, again.Outputs()["val"])
		assert.Equal(t, []int64{10}, ints(t, pull(t, g, in2, 1)))
	})

	t.Run("rejects non-numeric settings", func(t *testing.T) {
		_, err := tpl.(*Sequence).Configure(node.Settings{Values: map[string]cty.Value{"step": cty.StringVal("x")}})
		require.Error(t, err)
		_, err = tpl.(*Sequence).Configure(node.Settings{Type: cty.String})
		require.Error(t, err)
	})
}

func TestModule_Register(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	assert.Equal(t, []string{TagSequence, TagValue}, r.Tags())
	require.NoError(t, r.Validate(context.Background()))
}
