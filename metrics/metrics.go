package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "brackets"

// Metrics holds the bracket service counters. A nil *Metrics records nothing.
type Metrics struct {
	bracketsGenerated   *prometheus.CounterVec
	matchesCompleted    *prometheus.CounterVec
	byesAdvanced        *prometheus.CounterVec
	tournamentsComplete *prometheus.CounterVec
	versionConflicts    prometheus.Counter
}

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		bracketsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generated_total",
			Help:      "Brackets generated, by format.",
		}, []string{"format"}),
		matchesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_completed_total",
			Help:      "Match results applied, by format.",
		}, []string{"format"}),
		byesAdvanced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "byes_advanced_total",
			Help:      "Byes resolved, by format.",
		}, []string{"format"}),
		tournamentsComplete: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_completed_total",
			Help:      "Tournaments that reached a winner, by format.",
		}, []string{"format"}),
		versionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_conflicts_total",
			Help:      "Bracket writes rejected because another writer got there first.",
		}),
	}
	reg.MustRegister(
		m.bracketsGenerated,
		m.matchesCompleted,
		m.byesAdvanced,
		m.tournamentsComplete,
		m.versionConflicts,
	)
	return m
}

func (m *Metrics) BracketGenerated(format string) {
	if m == nil {
		return
	}
	m.bracketsGenerated.WithLabelValues(format).Inc()
}

func (m *Metrics) MatchCompleted(format string) {
	if m == nil {
		return
	}
	m.matchesCompleted.WithLabelValues(format).Inc()
}

func (m *Metrics) ByesAdvanced(format string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.byesAdvanced.WithLabelValues(format).Add(float64(n))
}

func (m *Metrics) TournamentCompleted(format string) {
	if m == nil {
		return
	}
	m.tournamentsComplete.WithLabelValues(format).Inc()
}

func (m *Metrics) VersionConflict() {
	if m == nil {
		return
	}
	m.versionConflicts.Inc()
}

// Handler exposes the registry for scraping.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
