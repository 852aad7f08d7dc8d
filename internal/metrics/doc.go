// Package metrics records build and stage metrics.
//
// Components receive a Recorder and never check whether metrics are enabled:
// NoopRecorder is the default and PrometheusRecorder is swapped in when a
// textfile path or listen address is configured.
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	builder := build.New(cfg, deps).WithRecorder(rec)
//	defer rec.WriteTextfile(cfg.Metrics.Textfile)
package metrics
