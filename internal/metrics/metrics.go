package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business Metrics
var (
	SignInsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSignInsTotal,
			Help: HelpTextSignInsTotal,
		},
	)

	SignupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSignupsTotal,
			Help: HelpTextSignupsTotal,
		},
	)

	SocialLinksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSocialLinksTotal,
			Help: HelpTextSocialLinksTotal,
		},
		[]string{LabelNetwork},
	)

	ReviewDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameReviewDecisionsTotal,
			Help: HelpTextReviewDecisionsTotal,
		},
		[]string{LabelDecision},
	)

	ChallengesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameChallengesIssued,
			Help: HelpTextChallengesIssued,
		},
	)

	ChallengesPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameChallengesPurged,
			Help: HelpTextChallengesPurged,
		},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRateLimitRejections,
			Help: HelpTextRateLimitRejections,
		},
		[]string{LabelRouteClass},
	)

	AuditEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAuditEntriesTotal,
			Help: HelpTextAuditEntriesTotal,
		},
		[]string{LabelAction},
	)

	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAuditWriteFailures,
			Help: HelpTextAuditWriteFailures,
		},
	)
)
