// Package oteladapters provides OpenTelemetry implementations of the catalog observability interfaces.
//
// SlogBridgeLogger and OTelLogger implement catalog.ContextualLogger, MetricsCollector implements
// catalog.ContextualMetricsCollector and TracingCollector implements catalog.TracingCollector.
// All adapters are safe for concurrent use by HTTP handlers.
package oteladapters
