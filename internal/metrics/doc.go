// Package metrics provides Prometheus metrics for export runs.
//
// The exporter is a batch job, so metrics are pushed to a Pushgateway at the
// end of a run rather than scraped.
//
// Key metrics:
//   - Tasks by outcome (downloaded, skipped, failed)
//   - Files and bytes written
//   - Run duration and completion time
package metrics
