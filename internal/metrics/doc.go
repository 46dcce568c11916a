// Package metrics records build metrics for blogbuilder.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and costs nothing; PrometheusRecorder registers collectors on a
// registry that the CLI can export to a node_exporter textfile after a build.
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	engine := site.New(cfg, site.WithRecorder(rec))
//	...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
