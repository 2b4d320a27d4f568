package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	FillsTotal        *prometheus.CounterVec
	FieldsTotal       *prometheus.CounterVec
	DetectionsTotal   *prometheus.CounterVec
	ApplicationsTotal *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		FillsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "autoapply_fills_total",
			Help: "The total number of fill invocations",
		}, []string{"site"}),
		FieldsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "autoapply_fields_total",
			Help: "The total number of per-field fill outcomes",
		}, []string{"site", "outcome"}), // 'filled', 'missed'
		DetectionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "autoapply_detections_total",
			Help: "The total number of application-page detections",
		}, []string{"site"}),
		ApplicationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "autoapply_applications_saved_total",
			Help: "The total number of applications recorded",
		}, []string{"site"}),
		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "autoapply_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g. 'fill_failed', 'app_save_failed'
	}
}

func (m *Metrics) IncFills(site string) {
	m.FillsTotal.WithLabelValues(site).Inc()
}

func (m *Metrics) AddFields(site, outcome string, n int) {
	m.FieldsTotal.WithLabelValues(site, outcome).Add(float64(n))
}

func (m *Metrics) IncDetections(site string) {
	m.DetectionsTotal.WithLabelValues(site).Inc()
}

func (m *Metrics) IncApplications(site string) {
	m.ApplicationsTotal.WithLabelValues(site).Inc()
}

func (m *Metrics) IncErrorsTotal(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
