package node

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Settings is the persisted configuration of a node: an optional element
// type and named values.
type Settings struct {
	// Type is cty.NilType when no element type was given.
	Type   cty.Type
	Values map[string]cty.Value
}

// IsZero reports whether s carries neither a type nor values.
func (s Settings) IsZero() bool {
	return s.Type == cty.NilType && len(s.Values) == 0
}

// Keys returns the setting names in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s.Values))
	for k := range s.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the named value.
func (s Settings) Get(key string) (cty.Value, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// Configurable is implemented by kinds whose configuration must survive a
// round trip through a graph file.
type Configurable interface {
	Node
	// Settings returns the configuration of the node.
	Settings() Settings
	// Configure returns a template carrying the given configuration.
	Configure(s Settings) (Node, error)
}

// Decode converts the named setting into target, which must be a pointer to
// a Go value gocty understands. Missing settings leave target untouched and
// report false.
func (s Settings) Decode(key string, target any) (bool, error) {
	val, ok := s.Values[key]
	if !ok || val.IsNull() {
		return false, nil
	}
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return false, fmt.Errorf("setting %q: target must be a non-nil pointer, got %T", key, target)
	}
	ty, err := gocty.ImpliedType(ptr.Elem().Interface())
	if err != nil {
		return false, fmt.Errorf("setting %q: %w", key, err)
	}
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return false, fmt.Errorf("setting %q: cannot convert %s to %s: %w",
			key, val.Type().FriendlyName(), ty.FriendlyName(), err)
	}
	if err := gocty.FromCtyValue(converted, target); err != nil {
		return false, fmt.Errorf("setting %q: %w", key, err)
	}
	return true, nil
}

// CheckKeys fails when s carries a value whose name is not in allowed.
func (s Settings) CheckKeys(allowed ...string) error {
	permitted := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		permitted[k] = struct{}{}
	}
	for _, k := range s.Keys() {
		if _, ok := permitted[k]; !ok {
			return fmt.Errorf("unsupported setting %q", k)
		}
	}
	return nil
}
