package env_vars

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pullgrid/internal/graph"
	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/modules/sink"
	"github.com/zclconf/go-cty/cty"
)

func fetch(t *testing.T, tpl node.Node) (cty.Value, error) {
	t.Helper()
	g, err := graph.New()
	require.NoError(t, err)
	src, err := g.AddCopyOf(tpl, "env")
	require.NoError(t, err)
	ret, err := g.AddCopyOf(sink.NewReturn(nil, sink.TagReturn, cty.DynamicPseudoType), "out")
	require.NoError(t, err)
	require.NoError(t, g.Connect(src, "val", ret, "in"))
	return ret.(*sink.Return).Get(context.Background())
}

func configure(t *testing.T, vals map[string]cty.Value) node.Node {
	t.Helper()
	tpl, err := NewEnv(nil, TagEnv, "", nil).Configure(node.Settings{Values: vals})
	require.NoError(t, err)
	return tpl
}

func TestEnv_Variable(t *testing.T) {
	t.Setenv("PULLGRID_TEST_VAR", "hello")

	v, err := fetch(t, configure(t, map[string]cty.Value{"name": cty.StringVal("PULLGRID_TEST_VAR")}))
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("hello"), v)
}

func TestEnv_Default(t *testing.T) {
	tpl := configure(t, map[string]cty.Value{
		"name":    cty.StringVal("PULLGRID_TEST_SURELY_UNSET"),
		"default": cty.StringVal("fallback"),
	})
	v, err := fetch(t, tpl)
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("fallback"), v)
	assert.Equal(t, tpl.(*Env).Settings(), configure(t, tpl.(*Env).Settings().Values).(*Env).Settings())
}

func TestEnv_UnsetIsAnError(t *testing.T) {
	_, err := fetch(t, configure(t, map[string]cty.Value{"name": cty.StringVal("PULLGRID_TEST_SURELY_UNSET")}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PULLGRID_TEST_SURELY_UNSET")
}

func TestEnv_WholeEnvironment(t *testing.T) {
	t.Setenv("PULLGRID_TEST_ALL", "yes")

	v, err := fetch(t, NewEnv(nil, TagEnv, "", nil))
	require.NoError(t, err)
	require.True(t, v.Type().Equals(cty.Map(cty.String)))
	assert.Equal(t, cty.StringVal("yes"), v.Index(cty.StringVal("PULLGRID_TEST_ALL")))
}

func TestEnv_Configure(t *testing.T) {
	tpl := NewEnv(nil, TagEnv, "", nil)
	_, err := tpl.Configure(node.Settings{Values: map[string]cty.Value{"default": cty.StringVal("x")}})
	require.Error(t, err)
	_, err = tpl.Configure(node.Settings{Values: map[string]cty.Value{"other": cty.StringVal("x")}})
	require.Error(t, err)
}
