package app

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pullgrid/internal/graph"
	"github.com/vk/pullgrid/internal/hcl"
	"github.com/vk/pullgrid/internal/scheduler"
	"github.com/vk/pullgrid/modules/sink"
)

const twelveGraph = `
node "value" "one"  { value = 1 }
node "value" "four" { value = 4 }
node "value" "two"  { value = 2 }

node "math.add" "sum" {
  connect {
    a = one.val
    b = four.val
  }
}

node "math.subtract" "diff" {
  connect {
    a = two.val
    b = four.val
  }
}

node "math.add" "mid" {
  connect {
    a = sum.val
    b = diff.val
  }
}

node "math.add" "left" {
  connect {
    a = mid.val
    b = mid.val
  }
}

node "math.add" "right" {
  connect {
    a = mid.val
    b = mid.val
  }
}

node "math.add" "total" {
  connect {
    a = left.val
    b = right.val
  }
}

node "return" "out" {
  type = number
  connect { in = total.val }
}
`

func writeGraph(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "graph.hcl")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func newTestConfig(t *testing.T, cfg Config) *Config {
	t.Helper()
	c, err := NewConfig(cfg)
	require.NoError(t, err)
	return c
}

func TestRun_EndToEnd(t *testing.T) {
	for _, mode := range []scheduler.Mode{scheduler.ModeSweep, scheduler.ModeWorklist} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := newTestConfig(t, Config{GraphPaths: []string{writeGraph(t, twelveGraph)}, Schedule: mode})
			a, out, logs := SetupAppTest(t, cfg)

			require.NoError(t, a.Run(context.Background()))
			assert.Equal(t, "out = 12\n", out.String())
			assert.Contains(t, logs.String(), "drive_id")
		})
	}
}

func TestRun_SelectedSinks(t *testing.T) {
	path := writeGraph(t, `
node "value" "greeting" { value = "hi" }
node "value" "answer"   { value = 42 }
node "return" "a" {
  connect { in = greeting.val }
}
node "return" "b" {
  connect { in = answer.val }
}
`)

	t.Run("all", func(t *testing.T) {
		a, out, _ := SetupAppTest(t, newTestConfig(t, Config{GraphPaths: []string{path}}))
		require.NoError(t, a.Run(context.Background()))
		assert.Equal(t, "a = \"hi\"\nb = 42\n", out.String())
	})

	t.Run("one", func(t *testing.T) {
		a, out, _ := SetupAppTest(t, newTestConfig(t, Config{GraphPaths: []string{path}, Sinks: []string{"b"}}))
		require.NoError(t, a.Run(context.Background()))
		assert.Equal(t, "b = 42\n", out.String())
	})

	t.Run("unknown", func(t *testing.T) {
		a, out, _ := SetupAppTest(t, newTestConfig(t, Config{GraphPaths: []string{path}, Sinks: []string{"nope", "a"}}))
		err := a.Run(context.Background())
		require.ErrorIs(t, err, sink.ErrNoSuchNode)
		assert.Equal(t, "a = \"hi\"\n", out.String())
	})

	t.Run("not a return node", func(t *testing.T) {
		a, _, _ := SetupAppTest(t, newTestConfig(t, Config{GraphPaths: []string{path}, Sinks: []string{"answer"}}))
		require.ErrorIs(t, a.Run(context.Background()), sink.ErrNotReturn)
	})
}

func TestRun_PrintObservesFanOut(t *testing.T) {
	path := writeGraph(t, `
node "value" "one"  { value = 1 }
node "value" "four" { value = 4 }
node "math.add" "sum" {
  connect {
    a = one.val
    b = four.val
  }
}
node "print" "dbg" {
  connect { value = sum.val }
}
node "return" "out" {
  connect { in = sum.val }
}
`)
	a, out, _ := SetupAppTest(t, newTestConfig(t, Config{GraphPaths: []string{path}}))
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "dbg = 5\nout = 5\n", out.String())
}

func TestRun_EnvNode(t *testing.T) {
	t.Setenv("PULLGRID_APP_TEST", "from-env")
	path := writeGraph(t, `
node "env" "var" { name = "PULLGRID_APP_TEST" }
node "return" "out" {
  type = string
  connect { in = var.val }
}
`)
	a, out, _ := SetupAppTest(t, newTestConfig(t, Config{GraphPaths: []string{path}}))
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "out = \"from-env\"\n", out.String())
}

func TestRun_BuildError(t *testing.T) {
	path := writeGraph(t, `
node "value" "word" { value = "x" }
node "math.add" "sum" {
  connect { a = word.val }
}
`)
	a, _, _ := SetupAppTest(t, newTestConfig(t, Config{GraphPaths: []string{path}}))
	err := a.Run(context.Background())
	require.ErrorIs(t, err, graph.ErrTypeMismatch)
	assert.ErrorContains(t, err, "failed to build graph")
}

func TestRun_NoSinks(t *testing.T) {
	a, out, logs := SetupAppTest(t, newTestConfig(t, Config{GraphPaths: []string{writeGraph(t, `node "value" "x" { value = 1 }`)}}))
	require.NoError(t, a.Run(context.Background()))
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "No return nodes found")
}

func TestRun_SaveRoundTrip(t *testing.T) {
	saved := filepath.Join(t.TempDir(), "saved.hcl")
	cfg := newTestConfig(t, Config{GraphPaths: []string{writeGraph(t, twelveGraph)}, SavePath: saved})
	a, _, _ := SetupAppTest(t, cfg)
	require.NoError(t, a.Run(context.Background()))

	b, out, _ := SetupAppTest(t, newTestConfig(t, Config{GraphPaths: []string{saved}}))
	assert.Equal(t, len(a.Model().Nodes), len(b.Model().Nodes))
	require.NoError(t, b.Run(context.Background()))
	assert.Equal(t, "out = 12\n", out.String())
}

func TestRun_Dump(t *testing.T) {
	cfg := newTestConfig(t, Config{GraphPaths: []string{writeGraph(t, twelveGraph)}, Dump: true})
	a, out, _ := SetupAppTest(t, cfg)
	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "#0 one (value)")
	assert.Contains(t, out.String(), "from=total.val")
}

func TestRun_CanceledContext(t *testing.T) {
	a, _, _ := SetupAppTest(t, newTestConfig(t, Config{GraphPaths: []string{writeGraph(t, twelveGraph)}}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, a.Run(ctx), context.Canceled)
}

func TestNewApp_PanicsOnLoadError(t *testing.T) {
	cfg := newTestConfig(t, Config{GraphPaths: []string{writeGraph(t, `node "value" {`)}})
	require.Panics(t, func() {
		NewApp(io.Discard, io.Discard, cfg, hcl.NewLoader(), hcl.NewWriter())
	})
}

func TestRoutes(t *testing.T) {
	a, _, _ := SetupAppTest(t, newTestConfig(t, Config{GraphPaths: []string{writeGraph(t, twelveGraph)}}))
	require.NoError(t, a.Run(context.Background()))

	rec := httptest.NewRecorder()
	a.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	rec = httptest.NewRecorder()
	a.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `pullgrid_drives_total{outcome="ok"}`)
}

func TestNewConfig(t *testing.T) {
	tests := map[string]struct {
		cfg     Config
		wantErr string
	}{
		"no paths":       {cfg: Config{}, wantErr: "GraphPaths"},
		"negative":       {cfg: Config{GraphPaths: []string{"g"}, MaxPasses: -1}, wantErr: "max passes"},
		"bad port":       {cfg: Config{GraphPaths: []string{"g"}, HealthcheckPort: 70000}, wantErr: "port"},
		"bad schedule":   {cfg: Config{GraphPaths: []string{"g"}, Schedule: "random"}, wantErr: "unknown schedule"},
		"duplicate sink": {cfg: Config{GraphPaths: []string{"g"}, Sinks: []string{"a", "a"}}, wantErr: "more than once"},
		"empty sink":     {cfg: Config{GraphPaths: []string{"g"}, Sinks: []string{""}}, wantErr: "empty"},
		"defaults":       {cfg: Config{GraphPaths: []string{"g"}}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := NewConfig(tt.cfg)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, scheduler.ModeSweep, got.Schedule)
		})
	}
}
