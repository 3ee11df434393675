package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		m := &Model{Nodes: []*Node{
			{Type: "value", Name: "one"},
			{Type: "return", Name: "out", Inputs: []Wire{{Input: "in", FromNode: "one", FromOutput: "val"}}},
		}}
		require.NoError(t, m.Validate())
	})

	t.Run("reports every problem", func(t *testing.T) {
		m := &Model{Nodes: []*Node{
			{Type: "value", Name: "one"},
			{Type: "value", Name: "one"},
			{Type: "", Name: "typeless"},
			{Type: "value", Name: ""},
			{Type: "math.add", Name: "sum", Inputs: []Wire{
				{Input: "a", FromNode: "one", FromOutput: "val"},
				{Input: "a", FromNode: "one", FromOutput: "val"},
				{Input: "b", FromNode: "ghost", FromOutput: "val"},
			}},
			{Type: "math.add", Name: "loop", Inputs: []Wire{{Input: "a", FromNode: "loop", FromOutput: "val"}}},
		}}
		err := m.Validate()
		require.Error(t, err)
		for _, want := range []string{
			`node "one": declared more than once`,
			`node "typeless": empty type`,
			`node #3: empty name`,
			`node "sum": input "a" wired more than once`,
			`node "sum": input "b" reads from unknown node "ghost"`,
			`node "loop": input "a" reads from itself`,
		} {
			assert.ErrorContains(t, err, want)
		}
	})
}

func TestModel_LookupAndSort(t *testing.T) {
	m := &Model{Nodes: []*Node{{Type: "math.add", Name: "sum", Inputs: []Wire{
		{Input: "b", FromNode: "y", FromOutput: "val"},
		{Input: "a", FromNode: "x", FromOutput: "val"},
	}}}}
	m.SortInputs()

	n, ok := m.Lookup("sum")
	require.True(t, ok)
	assert.Equal(t, "a <- x.val", n.Inputs[0].String())
	_, ok = m.Lookup("nope")
	assert.False(t, ok)
}
