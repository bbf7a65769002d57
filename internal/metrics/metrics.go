package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickethub_scans_total",
			Help: "Scan executions by source and result",
		},
		[]string{"source", "result"}, // ok|empty|fetch_error
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickethub_notifications_total",
			Help: "Publish attempts by source and result",
		},
		[]string{"source", "result"}, // sent|failed|encode_error
	)

	TokenDecodesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickethub_token_decodes_total",
			Help: "Token decode attempts by family and result",
		},
		[]string{"family", "result"}, // ticket|receipt , ok|not_found|malformed
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		ScansTotal,
		NotificationsTotal,
		TokenDecodesTotal,
	)
}
