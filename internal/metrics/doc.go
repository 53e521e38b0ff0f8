// Package metrics records build metrics for the blog pipeline.
//
// Components receive a Recorder and default to NoopRecorder, so callers never nil-check:
//
//	loader := corpus.NewLoader(cfg, logger).WithRecorder(recorder)
//
// PrometheusRecorder registers its collectors on a caller-supplied registry. A one-shot
// build has nothing to scrape it, so WriteTextfile dumps the registry in the Prometheus
// text format (for node_exporter's textfile collector or CI artifacts).
package metrics
