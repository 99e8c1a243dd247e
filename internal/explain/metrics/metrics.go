package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the explain commands.
type Metrics struct {
	Commands      *prometheus.CounterVec
	CommandErrors *prometheus.CounterVec
	TagsResolved  prometheus.Counter
	EmptyReports  prometheus.Counter
}

// New registers the explain metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tonetags_commands_total",
			Help: "Commands handled, by command name",
		}, []string{"command"}),
		CommandErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tonetags_command_errors_total",
			Help: "Commands that failed, by command name",
		}, []string{"command"}),
		TagsResolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "tonetags_tags_resolved_total",
			Help: "Tone tags explained across all reports",
		}),
		EmptyReports: factory.NewCounter(prometheus.CounterOpts{
			Name: "tonetags_empty_reports_total",
			Help: "Explain requests where no tone tag was found",
		}),
	}
}

func (m *Metrics) IncrementCommand(command string) {
	m.Commands.WithLabelValues(command).Inc()
}

func (m *Metrics) IncrementCommandError(command string) {
	m.CommandErrors.WithLabelValues(command).Inc()
}

// ObserveReport records how many lines a report carried.
func (m *Metrics) ObserveReport(lines int) {
	if lines == 0 {
		m.EmptyReports.Inc()
		return
	}
	m.TagsResolved.Add(float64(lines))
}
