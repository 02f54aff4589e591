package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/pathloom/internal/config"
	"github.com/matzehuels/pathloom/pkg/observability"
	"github.com/matzehuels/pathloom/pkg/suggest"
)

// newLogger creates a logger that writes to w at level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// rotatingFile returns the size-rotated writer behind --log-file.
func rotatingFile(l config.Log) io.Writer {
	return &lumberjack.Logger{
		Filename:   l.File,
		MaxSize:    l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		Compress:   true,
	}
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Fetched 12 spokes (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Instrumentation
// =============================================================================

// logHooks reports dispatch, cache and upstream events at debug level.
type logHooks struct {
	logger *log.Logger
}

// installLogHooks routes every observability hook to l.
func installLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetDispatchHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnDispatchStart(_ context.Context, provider, hub string) {
	h.logger.Debug("dispatch started", "provider", provider, "hub", hub)
}

func (h *logHooks) OnDispatchComplete(_ context.Context, provider, hub, state string, d time.Duration) {
	h.logger.Debug("dispatch finished", "provider", provider, "hub", hub, "state", state, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("upstream request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("upstream response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("upstream error", "method", method, "host", host, "path", path, "err", err)
}

// deliveryLogger logs each dispatch outcome.
func deliveryLogger(l *log.Logger) suggest.Sink {
	return suggest.SinkFunc(func(d suggest.Delivery) {
		o := d.Outcome
		switch o.State {
		case suggest.StateCompleted:
			l.Info("suggestions ready", "id", d.HandleID, "provider", d.Provider, "hub", d.Hub.Key(), "spokes", len(o.Fragment.Spokes))
		case suggest.StateFailed:
			l.Warn("suggestion failed", "id", d.HandleID, "provider", d.Provider, "hub", d.Hub.Key(), "code", o.Code(), "err", o.Err.Message)
		default:
			l.Info("suggestion cancelled", "id", d.HandleID, "provider", d.Provider, "hub", d.Hub.Key())
		}
	})
}
