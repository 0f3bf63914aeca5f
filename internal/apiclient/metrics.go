package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var backendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nextstep",
	Name:      "backend_requests_total",
	Help:      "Calls made to the job-board backend, by operation and status class.",
}, []string{"op", "status"})

func observe(op, status string) {
	backendRequests.WithLabelValues(op, status).Inc()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
