package montecarlo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Metrics bundles the prometheus collectors updated by an Estimator.
type Metrics struct {
	Registry           *prometheus.Registry
	TrialsTotal        *prometheus.CounterVec
	DowntimeMinutes    prometheus.Counter
	ScheduleRejections prometheus.Counter
	ActiveWorkers      prometheus.Gauge
	RunSeconds         prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		Registry: registry,
		TrialsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availsim_trials_total",
			Help: "Total number of simulated trials.",
		}, []string{"worker"}),
		DowntimeMinutes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "availsim_downtime_minutes_total",
			Help: "Total simulated downtime across all trials, in minutes.",
		}),
		ScheduleRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "availsim_schedule_rejections_total",
			Help: "Total number of release candidates rejected for violating the spacing constraint.",
		}),
		ActiveWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "availsim_active_workers",
			Help: "Number of workers currently running trials.",
		}),
		RunSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "availsim_last_run_seconds",
			Help: "Wall-clock duration of the last estimation run.",
		}),
	}

	registry.MustRegister(
		m.TrialsTotal,
		m.DowntimeMinutes,
		m.ScheduleRejections,
		m.ActiveWorkers,
		m.RunSeconds,
	)

	return m
}

// Log writes every gathered sample at debug level.
func (m *Metrics) Log(log *logrus.Entry) {
	if !log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	families, err := m.Registry.Gather()
	if err != nil {
		log.Warnf("Gathering metrics failed: %v", err)
		return
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			fields := logrus.Fields{}
			for _, lp := range metric.GetLabel() {
				fields[lp.GetName()] = lp.GetValue()
			}
			value := metric.GetCounter().GetValue() + metric.GetGauge().GetValue()
			log.WithFields(fields).Debugf("%s = %g", mf.GetName(), value)
		}
	}
}
