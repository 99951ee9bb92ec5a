package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the voting core.
type Metrics struct {
	EnrollmentsTotal    prometheus.Counter
	AuthFailuresTotal   *prometheus.CounterVec
	CodesIssuedTotal    prometheus.Counter
	CredentialsIssued   prometheus.Counter
	VotesCastTotal      prometheus.Counter
	VotesRejectedTotal  *prometheus.CounterVec
	ChainVerifyDuration prometheus.Histogram
	RequestDuration     *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		EnrollmentsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "securevote_enrollments_total",
			Help: "Total number of completed voter enrollments",
		}),
		AuthFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "securevote_auth_failures_total",
			Help: "Authentication failures by stage (biometric, code)",
		}, []string{"stage"}),
		CodesIssuedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "securevote_codes_issued_total",
			Help: "One-time passcodes issued",
		}),
		CredentialsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "securevote_credentials_issued_total",
			Help: "Session credentials minted after full two-factor auth",
		}),
		VotesCastTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "securevote_votes_cast_total",
			Help: "Ballots appended to the ledger",
		}),
		VotesRejectedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "securevote_votes_rejected_total",
			Help: "Vote attempts rejected by reason",
		}, []string{"reason"}),
		ChainVerifyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "securevote_chain_verify_duration_seconds",
			Help:    "Latency of full ledger chain verification",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "securevote_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	m.RequestDuration.WithLabelValues(route, status).Observe(d.Seconds())
}
