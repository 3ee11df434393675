package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestSettings_Decode(t *testing.T) {
	s := Settings{Values: map[string]cty.Value{
		"size":  cty.NumberIntVal(3),
		"label": cty.StringVal("12"),
		"empty": cty.NullVal(cty.String),
	}}

	var size int
	ok, err := s.Decode("size", &size)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, size)

	// Strings holding numbers convert.
	var label int64
	ok, err = s.Decode("label", &label)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 12, label)

	var missing string
	ok, err = s.Decode("missing", &missing)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Decode("empty", &missing)
	require.NoError(t, err)
	assert.False(t, ok)

	var flag bool
	_, err = s.Decode("size", &flag)
	assert.ErrorContains(t, err, `setting "size"`)

	_, err = s.Decode("size", size)
	assert.ErrorContains(t, err, "non-nil pointer")
}

func TestSettings_CheckKeys(t *testing.T) {
	s := Settings{Values: map[string]cty.Value{
		"value": cty.True,
		"extra": cty.False,
	}}
	assert.Equal(t, []string{"extra", "value"}, s.Keys())
	assert.NoError(t, s.CheckKeys("value", "extra"))
	assert.ErrorContains(t, s.CheckKeys("value"), `unsupported setting "extra"`)
}

func TestSettings_IsZero(t *testing.T) {
	assert.True(t, Settings{}.IsZero())
	assert.False(t, Settings{Type: cty.Number}.IsZero())
	assert.False(t, Settings{Values: map[string]cty.Value{"v": cty.True}}.IsZero())
}
