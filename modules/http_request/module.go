// Package http_request provides the http.get node, which performs one HTTP
// request per URL it receives.
package http_request

import (
	"time"

	"github.com/vk/pullgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

const TagGet = "http.get"

const defaultTimeout = 30 * time.Second

// ResponseType is the element type of the "response" output.
var ResponseType = cty.Object(map[string]cty.Type{
	"status_code": cty.Number,
	"body":        cty.String,
})

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the templates with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(NewRequest(nil, TagGet, "GET", defaultTimeout))
}
