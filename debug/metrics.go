package debug

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"thomasfermi/types"
)

// Metrics prometheus 指标
type Metrics struct {
	registry   *prometheus.Registry
	nodes      prometheus.Gauge
	iterations prometheus.Counter
	reductions prometheus.Counter
	err        prometheus.Gauge
	alpha      prometheus.Gauge
	converged  prometheus.Gauge
}

// NewMetrics 创建并注册指标，reg 为 nil 时使用新的注册表
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thomasfermi_mesh_nodes",
			Help: "Number of mesh nodes",
		}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "thomasfermi_iterations_total",
			Help: "Total number of self-consistent iterations",
		}),
		reductions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "thomasfermi_alpha_reductions_total",
			Help: "Number of iterations that reduced the mixing coefficient",
		}),
		err: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thomasfermi_iteration_error",
			Help: "L2 distance between the last two iterates",
		}),
		alpha: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thomasfermi_alpha",
			Help: "Current mixing coefficient",
		}),
		converged: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thomasfermi_converged",
			Help: "1 once the iteration has converged",
		}),
	}
	reg.MustRegister(m.nodes, m.iterations, m.reductions, m.err, m.alpha, m.converged)
	return m
}

// Registry 指标注册表
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler 指标发布接口
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Init(info types.RunInfo) {
	m.nodes.Set(float64(len(info.Mesh)))
	m.alpha.Set(info.Alpha)
	m.converged.Set(0)
}

func (m *Metrics) Update(step types.Step) {
	m.iterations.Inc()
	if step.Reduced {
		m.reductions.Inc()
	}
	m.err.Set(step.Error)
	m.alpha.Set(step.Alpha)
}

func (m *Metrics) Finish(sol types.Solution) {
	if sol.Converged {
		m.converged.Set(1)
	}
}
