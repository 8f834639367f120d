// Package cli implements the requirements command-line interface.
//
// Commands are cobra commands built by [CLI.RootCommand]. Settings come from
// internal/config; every command that resolves requirements builds a
// pipeline.Runner from them.
//
// Logging goes to stderr through a charmbracelet logger stored in the
// command context. -v lowers the level to debug, which adds collection,
// cache and HTTP detail to the install lines printed during a freeze.
package cli

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// runLog reports one command run. It receives freeze events from
// pkg/observability and summarizes them when the command finishes.
type runLog struct {
	logger *log.Logger
	start  time.Time

	mu        sync.Mutex
	installed []string
	failed    []string
}

func newRunLog(l *log.Logger) *runLog {
	return &runLog{logger: l, start: time.Now()}
}

func (r *runLog) OnCollectStart(_ context.Context, roots int) {
	r.logger.Debug("collecting", "roots", roots)
}

func (r *runLog) OnCollectComplete(_ context.Context, names int, d time.Duration, err error) {
	if err != nil {
		r.logger.Debug("collection failed", "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	r.logger.Debug("collected", "names", names, "duration", d.Round(time.Millisecond))
}

func (r *runLog) OnInstallStart(_ context.Context, name string) {
	r.logger.Info("installing missing distribution", "name", name)
}

func (r *runLog) OnInstallComplete(_ context.Context, name string, d time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.failed = append(r.failed, name)
		r.logger.Warn("install failed", "name", name, "err", err)
		return
	}
	r.installed = append(r.installed, name)
	r.logger.Info("installed", "name", name, "duration", d.Round(time.Millisecond))
}

// done logs msg with the time since the run started and any installs the
// run triggered. A nil runLog does nothing.
func (r *runLog) done(msg string, keyvals ...any) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	keyvals = append(keyvals, "duration", time.Since(r.start).Round(time.Millisecond))
	if len(r.installed) > 0 {
		keyvals = append(keyvals, "installed", strings.Join(r.installed, ","))
	}
	if len(r.failed) > 0 {
		keyvals = append(keyvals, "install_failures", strings.Join(r.failed, ","))
	}
	r.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
