package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/fx"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xavl/lib/xlog"
)

// xavl --insert 10,20,30,5 --remove 20 --search 5 --metrics console
func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := xlog.NewXLogger(
		xlog.WithXLoggerConsoleCore(),
		xlog.WithXLoggerEncoder(xlog.PlainText),
		xlog.WithXLoggerWriter(xlog.StdOut),
		xlog.WithXLoggerLevel(xlog.ParseLogLevel(cfg.logLevel)),
	)
	defer func() {
		_ = logger.Sync()
	}()

	if _, err = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Logf(zapcore.DebugLevel, format, args...)
	})); err != nil {
		logger.Warn("[xavl] unable to set GOMAXPROCS")
	}

	app := fx.New(appOptions(cfg, logger))
	if err = app.Err(); err != nil {
		logger.Error(err, "[xavl] build app")
		return
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = app.Start(startCtx); err != nil {
		logger.Error(err, "[xavl] start app")
		return
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = app.Stop(stopCtx); err != nil {
		logger.Error(err, "[xavl] stop app")
	}
}
