package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vmxsphere"

// Metrics 重装编排与宿主机调用的运行指标，/metrics 暴露。
// 持有独立 registry，进程内可重复构建（测试里每个用例一套）。
type Metrics struct {
	registry *prometheus.Registry

	ReinstallTotal    *prometheus.CounterVec
	ReinstallDuration prometheus.Histogram
	ReinstallRunning  prometheus.Gauge
	GuestIPAttempts   prometheus.Histogram
	VmrunErrorsTotal  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		ReinstallTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reinstall_total",
			Help:      "Completed reinstall tasks by outcome.",
		}, []string{"outcome"}), // success / warning / failure

		ReinstallDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reinstall_duration_seconds",
			Help:      "Wall time of a full reinstall run.",
			Buckets:   []float64{30, 60, 120, 300, 600, 1200, 1800},
		}),

		ReinstallRunning: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reinstall_running",
			Help:      "Reinstall tasks currently in progress.",
		}),

		GuestIPAttempts: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "guest_ip_attempts",
			Help:      "Polling attempts until the guest reported an IP.",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 40, 60},
		}),

		VmrunErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vmrun_errors_total",
			Help:      "vmrun failures by operation and error kind.",
		}, []string{"op", "kind"}),
	}
}

// Registry 供 promhttp 挂载
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
