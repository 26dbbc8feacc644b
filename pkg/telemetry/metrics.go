package telemetry

// Metric names. Instruments are created where they are recorded (the
// dnapi client and the prober) from GetMeter, so they stay noop unless
// Setup has installed a provider.
const (
	MetricClientRequestsTotal   = "dn_client_requests_total"
	MetricClientErrorsTotal     = "dn_client_errors_total"
	MetricClientRequestDuration = "dn_client_request_duration_seconds"

	MetricProbeRunsTotal     = "dn_probe_runs_total"
	MetricProbeFailuresTotal = "dn_probe_failures_total"
	MetricProbeDuration      = "dn_probe_duration_seconds"
)
