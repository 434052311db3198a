package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameSignInsTotal         = "sign_ins_total"
	MetricNameSignupsTotal         = "waitlist_signups_total"
	MetricNameSocialLinksTotal     = "social_links_total"
	MetricNameReviewDecisionsTotal = "review_decisions_total"
	MetricNameChallengesIssued     = "challenges_issued_total"
	MetricNameChallengesPurged     = "challenges_purged_total"
	MetricNameRateLimitRejections  = "rate_limit_rejections_total"
	MetricNameAuditEntriesTotal    = "audit_entries_total"
	MetricNameAuditWriteFailures   = "audit_write_failures_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Business metric help text
const (
	HelpTextSignInsTotal         = "Total number of completed wallet sign-ins"
	HelpTextSignupsTotal         = "Total number of new waitlist signups"
	HelpTextSocialLinksTotal     = "Total number of social identity links by network"
	HelpTextReviewDecisionsTotal = "Total number of admin review decisions by outcome"
	HelpTextChallengesIssued     = "Total number of verification challenges issued"
	HelpTextChallengesPurged     = "Total number of expired challenges purged"
	HelpTextRateLimitRejections  = "Total number of requests rejected by the rate limiter"
	HelpTextAuditEntriesTotal    = "Total number of audit log entries written"
	HelpTextAuditWriteFailures   = "Total number of audit log writes that failed"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelNetwork    = "network"
	LabelDecision   = "decision"
	LabelAction     = "action"
	LabelRouteClass = "route_class"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
