package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "battmon"

// Metrics exports loop activity to Prometheus. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	cycles    prometheus.Counter
	invalid   prometheus.Counter
	emissions *prometheus.CounterVec
	percent   prometheus.Gauge
	charging  prometheus.Gauge
}

// NewMetrics creates the loop metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cycles_total",
			Help:      "Number of monitor cycles run.",
		}),
		invalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "invalid_readings_total",
			Help:      "Number of cycles skipped because the battery reading was unavailable.",
		}),
		emissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "emissions_total",
			Help:      "Number of notification updates, by kind.",
		}, []string{"kind"}),
		percent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "battery_percent",
			Help:      "Battery charge of the last valid reading.",
		}),
		charging: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "battery_charging",
			Help:      "1 if the last valid reading was charging.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.cycles, m.invalid, m.emissions, m.percent, m.charging)
	}

	return m
}

func (m *Metrics) observe(c Cycle) {
	if m == nil {
		return
	}

	m.cycles.Inc()

	if !c.Valid() {
		m.invalid.Inc()
		return
	}

	m.percent.Set(float64(c.Reading.Percent))
	if c.Reading.Charging {
		m.charging.Set(1)
	} else {
		m.charging.Set(0)
	}

	if c.Notice.Emit {
		kind := "charging"
		if c.Notice.Unplug {
			kind = "unplug"
		}
		m.emissions.WithLabelValues(kind).Inc()
	}
}
