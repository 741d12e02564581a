package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type MetricsExporterType string

const (
	NoneMetricsExporter       MetricsExporterType = ""
	ConsoleMetricsExporter    MetricsExporterType = "console"
	PrometheusMetricsExporter MetricsExporterType = "prometheus"
)

var ErrUnknownMetricsExporter = errors.New("[observability] unknown metrics exporter")

func ParseMetricsExporterType(s string) (MetricsExporterType, error) {
	switch t := MetricsExporterType(strings.ToLower(strings.TrimSpace(s))); t {
	case NoneMetricsExporter, ConsoleMetricsExporter, PrometheusMetricsExporter:
		return t, nil
	default:
		return NoneMetricsExporter, fmt.Errorf("%w: %s", ErrUnknownMetricsExporter, s)
	}
}

// Serves for test/dev environment.
// The periodic reader exports once more on shutdown.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	callback := mp.Shutdown
	otel.SetMeterProvider(mp)
	return callback, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
func NewPrometheusMetricsExporter(registerer prom.Registerer) (func(ctx context.Context) error, error) {
	opts := make([]prometheus.Option, 0, 1)
	if registerer != nil {
		opts = append(opts, prometheus.WithRegisterer(registerer))
	}
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	callback := mp.Shutdown
	otel.SetMeterProvider(mp)
	return callback, nil
}

// WritePrometheusMetrics dumps the gathered families in the text exposition
// format, the same body a scrape would get.
func WritePrometheusMetrics(gatherer prom.Gatherer, w io.Writer) error {
	if gatherer == nil {
		gatherer = prom.DefaultGatherer
	}
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
