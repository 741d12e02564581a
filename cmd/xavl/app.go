package main

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/benz9527/xavl/lib/tree"
	"github.com/benz9527/xavl/lib/xlog"
	"github.com/benz9527/xavl/observability"
)

const appName = "xavl"

type appConfig struct {
	inserts   []int
	removes   []int
	search    int
	searchSet bool
	desc      bool
	logLevel  string
	metrics   observability.MetricsExporterType
	out       io.Writer
}

func parseFlags(args []string) (*appConfig, error) {
	cfg := &appConfig{out: os.Stdout}
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.IntSliceVarP(&cfg.inserts, "insert", "i", nil, "values to insert, in order")
	fs.IntSliceVarP(&cfg.removes, "remove", "r", nil, "values to remove after the insertions, in order")
	fs.IntVarP(&cfg.search, "search", "s", 0, "value to search for after the removals")
	fs.BoolVar(&cfg.desc, "desc", false, "keep the values in descending order")
	fs.StringVar(&cfg.logLevel, "log-level", os.Getenv("XLOG_LVL"), "DEBUG, INFO, WARN or ERROR")
	metrics := fs.String("metrics", "", "export the tree metrics, console or prometheus")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.searchSet = fs.Changed("search")
	typ, err := observability.ParseMetricsExporterType(*metrics)
	if err != nil {
		return nil, err
	}
	cfg.metrics = typ
	return cfg, nil
}

type metricsExporter struct {
	typ      observability.MetricsExporterType
	registry *prom.Registry
	out      io.Writer
	shutdown func(ctx context.Context) error
}

// report dumps the prometheus registry. The console exporter prints by
// itself on shutdown.
func (e *metricsExporter) report() error {
	if e.typ != observability.PrometheusMetricsExporter {
		return nil
	}
	return observability.WritePrometheusMetrics(e.registry, e.out)
}

// stop must run before the tree is released, otherwise the final console
// export sees an empty tree.
func (e *metricsExporter) stop(ctx context.Context) error {
	if e.shutdown == nil {
		return nil
	}
	return e.shutdown(ctx)
}

func newMetricsExporter(cfg *appConfig) (*metricsExporter, error) {
	var (
		e   = &metricsExporter{typ: cfg.metrics, out: cfg.out}
		err error
	)
	switch cfg.metrics {
	case observability.ConsoleMetricsExporter:
		e.shutdown, err = observability.NewConsoleMetricsExporter(
			time.Minute,
			5*time.Second,
			stdoutmetric.WithWriter(cfg.out),
			stdoutmetric.WithPrettyPrint(),
		)
	case observability.PrometheusMetricsExporter:
		e.registry = prom.NewRegistry()
		e.shutdown, err = observability.NewPrometheusMetricsExporter(e.registry)
	default:
		return e, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// The exporter is taken only to install the meter provider before the
// tree creates its instruments.
func newAVLTree(lc fx.Lifecycle, cfg *appConfig, logger xlog.XLogger, _ *metricsExporter) tree.AVLTree[int] {
	opts := []tree.AVLTreeOpt[int]{
		tree.WithAVLTreeLogger[int](logger),
		tree.WithAVLTreeStats[int](appName),
	}
	if cfg.desc {
		opts = append(opts, tree.WithAVLTreeDesc[int]())
	}
	avl := tree.NewAVLTree[int](opts...)
	lc.Append(fx.StopHook(avl.Release))
	return avl
}

type avlReport struct {
	len        int64
	height     int
	min, max   int
	found      bool
	missing    []int
	preOrder   []int
	inOrder    []int
	postOrder  []int
	levelOrder [][]int
}

func runAVLScript(cfg *appConfig, avl tree.AVLTree[int], logger xlog.XLogger) avlReport {
	for _, v := range cfg.inserts {
		avl.Insert(v)
	}

	report := avlReport{missing: make([]int, 0, len(cfg.removes))}
	for _, v := range cfg.removes {
		if err := avl.Remove(v); err != nil {
			logger.Warn("[xavl] remove skipped", zap.Int("value", v), zap.Error(err))
			report.missing = append(report.missing, v)
		}
	}
	if cfg.searchSet {
		report.found = avl.Search(cfg.search) != nil
	}

	var err error
	if report.min, err = avl.Min(); err != nil && !errors.Is(err, tree.ErrAVLTreeEmpty) {
		logger.Error(err, "[xavl] min")
	}
	if report.max, err = avl.Max(); err != nil && !errors.Is(err, tree.ErrAVLTreeEmpty) {
		logger.Error(err, "[xavl] max")
	}
	report.len = avl.Len()
	report.height = avl.Height()
	report.preOrder = avl.PreOrder()
	report.inOrder = avl.InOrder()
	report.postOrder = avl.PostOrder()
	report.levelOrder = avl.LevelOrderByDepth()
	return report
}

func logAVLReport(cfg *appConfig, report avlReport, logger xlog.XLogger) {
	fields := []zap.Field{
		zap.Int64("len", report.len),
		zap.Int("height", report.height),
	}
	if report.len > 0 {
		fields = append(fields, zap.Int("min", report.min), zap.Int("max", report.max))
	}
	if cfg.searchSet {
		fields = append(fields, zap.Int("search", cfg.search), zap.Bool("found", report.found))
	}
	if len(report.missing) > 0 {
		fields = append(fields, zap.Ints("missing", report.missing))
	}
	fields = append(fields,
		zap.Ints("preOrder", report.preOrder),
		zap.Ints("inOrder", report.inOrder),
		zap.Ints("postOrder", report.postOrder),
		zap.Any("levelOrder", report.levelOrder),
	)
	logger.Info("[xavl] result", fields...)
}

// Registered after the tree, so its stop hook flushes the metrics
// before the tree's own stop hook releases it.
func registerAVLScript(lc fx.Lifecycle, cfg *appConfig, avl tree.AVLTree[int], logger xlog.XLogger, exporter *metricsExporter) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logAVLReport(cfg, runAVLScript(cfg, avl, logger), logger)
			return exporter.report()
		},
		OnStop: exporter.stop,
	})
}

func appOptions(cfg *appConfig, logger xlog.XLogger) fx.Option {
	return fx.Options(
		fx.WithLogger(func() fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Supply(cfg),
		fx.Provide(
			func() xlog.XLogger { return logger },
			newMetricsExporter,
			newAVLTree,
		),
		fx.Invoke(registerAVLScript),
	)
}
