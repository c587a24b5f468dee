package getresponse

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK             = "ok"
	outcomeVendorError    = "vendor_error"
	outcomeTransportError = "transport_error"
	outcomeExpired        = "expired"
	outcomeFailed         = "failed"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "getresponse_client",
			Name:      "requests_total",
			Help:      "API requests by operation and outcome, replays included.",
		},
		[]string{"operation", "outcome"},
	)

	renewalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "getresponse_client",
			Name:      "token_renewals_total",
			Help:      "Access token renewals triggered by expired token responses.",
		},
		[]string{"outcome"},
	)
)
