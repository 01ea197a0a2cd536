package adms

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeAccepted = "accepted"

	pollDelivered = "delivered"
	pollIdle      = "idle"
)

// Metrics は端末プロトコルの取り込み・配信状況
type Metrics struct {
	lines     *prometheus.CounterVec
	polls     *prometheus.CounterVec
	completed prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adms",
			Name:      "attendance_lines_total",
			Help:      "cdata lines by outcome (accepted, fields, pin, time).",
		}, []string{"outcome"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adms",
			Name:      "polls_total",
			Help:      "getrequest polls by result (delivered, idle).",
		}, []string{"result"}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "adms",
			Name:      "commands_completed_total",
			Help:      "Commands moved from sent to completed by devicecmd reports.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.lines, m.polls, m.completed)
	}
	return m
}

func (m *Metrics) accepted(n int) {
	m.lines.WithLabelValues(outcomeAccepted).Add(float64(n))
}

func (m *Metrics) dropped(r DropReason) {
	m.lines.WithLabelValues(string(r)).Inc()
}

func (m *Metrics) poll(delivered bool) {
	if delivered {
		m.polls.WithLabelValues(pollDelivered).Inc()
		return
	}
	m.polls.WithLabelValues(pollIdle).Inc()
}
