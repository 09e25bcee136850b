// Package metrics holds the process-wide Prometheus collectors. The
// health server exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OddsRequests counts odds endpoint fetches by result
	// ("ok", "fetch_error", "decrypt_error", "assemble_error").
	OddsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "robbinodds_odds_requests_total",
		Help: "Odds endpoint requests by result.",
	}, []string{"result"})

	// MarketsParsed counts markets assembled into aggregates, by side.
	MarketsParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "robbinodds_markets_parsed_total",
		Help: "Markets assembled from odds responses, by back/lay side.",
	}, []string{"side"})

	// SessionExtractions counts match-page session extractions by result
	// ("ok", "error", "browser_fallback").
	SessionExtractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "robbinodds_session_extractions_total",
		Help: "Match page session parameter extractions by result.",
	}, []string{"result"})

	// RecordsCoerced counts records accepted by the stats API coercion
	// layer, by endpoint.
	RecordsCoerced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "robbinodds_records_coerced_total",
		Help: "Stats API records coerced successfully, by endpoint.",
	}, []string{"endpoint"})

	// RecordsRejected counts records the coercion layer rejected.
	RecordsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "robbinodds_records_rejected_total",
		Help: "Stats API records rejected by the coercion layer, by endpoint.",
	}, []string{"endpoint"})
)
