package app

import (
	"io"

	"github.com/vk/pullgrid/internal/registry"
	"github.com/vk/pullgrid/modules/env_vars"
	"github.com/vk/pullgrid/modules/http_request"
	"github.com/vk/pullgrid/modules/math"
	prnt "github.com/vk/pullgrid/modules/print"
	"github.com/vk/pullgrid/modules/sink"
	"github.com/vk/pullgrid/modules/socketio"
	"github.com/vk/pullgrid/modules/value"
)

// coreModules is the definitive list of all modules that are compiled into
// the pullgrid binary. Print nodes write to out.
func coreModules(out io.Writer) []registry.Module {
	return []registry.Module{
		&value.Module{},
		&sink.Module{},
		&math.Module{},
		&prnt.Module{Out: out},
		&http_request.Module{},
		&env_vars.Module{},
		&socketio.Module{},
	}
}
