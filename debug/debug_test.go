package debug

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thomasfermi/types"
)

func feed(d types.Debug) {
	mesh := []float64{0, 0.5, 1, 1.5, 2}
	d.Init(types.RunInfo{
		Mesh:      mesh,
		Initial:   []float64{1, 0.6, 0.4, 0.3, 0.2},
		Boundary:  [2]float64{1, 0.2},
		Slope:     -1.5,
		Alpha:     0.5,
		Tolerance: 1e-6,
	})
	d.Update(types.Step{Iteration: 1, Error: 1e-2, Alpha: 0.5})
	d.Update(types.Step{Iteration: 2, Error: 2e-2, Alpha: 0.075, Reduced: true})
	d.Update(types.Step{Iteration: 3, Error: 1e-7, Alpha: 0.075})
	d.Finish(types.Solution{
		Mesh:       mesh,
		Y:          []float64{1, 0.55, 0.38, 0.28, 0.2},
		Beta:       []float64{2, 0.5, 0.2, 0.1, 0.06},
		Iterations: 3,
		Error:      1e-7,
		Alpha:      0.075,
		Converged:  true,
	})
}

func TestRecord(t *testing.T) {
	var r Record
	feed(&r)
	assert.Equal(t, []int{1, 2, 3}, r.Iteration)
	assert.Equal(t, []float64{1e-2, 2e-2, 1e-7}, r.Error)
	assert.Equal(t, []float64{0.5, 0.075, 0.075}, r.Alpha)
	assert.Equal(t, []int{2}, r.Reduced)
	assert.Len(t, r.Y, 5)
	assert.True(t, r.Converged)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	var back Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, r, back)
}

func TestRecord_InitResets(t *testing.T) {
	var r Record
	feed(&r)
	r.Init(types.RunInfo{Mesh: []float64{0, 1}})
	assert.Empty(t, r.Iteration)
	assert.Empty(t, r.Error)
	assert.Empty(t, r.Reduced)
	assert.Equal(t, []float64{0, 1}, r.Mesh)
}

func TestRecord_CopiesInput(t *testing.T) {
	var r Record
	mesh := []float64{0, 1}
	r.Init(types.RunInfo{Mesh: mesh})
	mesh[1] = 9
	assert.Equal(t, 1.0, r.Mesh[1])
}

func TestMulti(t *testing.T) {
	a, b := &Record{}, &Record{}
	feed(Multi{a, b})
	assert.Equal(t, a, b)
	assert.Len(t, a.Iteration, 3)
}

func TestCharts(t *testing.T) {
	c := &Charts{}
	feed(c)
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Thomas-Fermi")

	rec := httptest.NewRecorder()
	c.Handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "echarts")
}

func TestPlot(t *testing.T) {
	p := &Plot{}
	feed(p)

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf, "png"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	buf.Reset()
	require.NoError(t, p.RenderConvergence(&buf, "svg"))
	assert.Contains(t, buf.String(), "<svg")

	assert.Error(t, p.Render(&buf, "bogus"))
}

func gauge(t *testing.T, m *Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			metric := f.GetMetric()[0]
			if g := metric.GetGauge(); g != nil {
				return g.GetValue()
			}
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestMetrics(t *testing.T) {
	m := NewMetrics(nil)
	feed(m)
	assert.Equal(t, 5.0, gauge(t, m, "thomasfermi_mesh_nodes"))
	assert.Equal(t, 3.0, gauge(t, m, "thomasfermi_iterations_total"))
	assert.Equal(t, 1.0, gauge(t, m, "thomasfermi_alpha_reductions_total"))
	assert.Equal(t, 1e-7, gauge(t, m, "thomasfermi_iteration_error"))
	assert.Equal(t, 0.075, gauge(t, m, "thomasfermi_alpha"))
	assert.Equal(t, 1.0, gauge(t, m, "thomasfermi_converged"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "thomasfermi_iterations_total 3"))
}
