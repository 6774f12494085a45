package clog

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/hashicorp/logutils"
)

type loggerKey struct{}

// Logger is a context-bound fluent logging handle, mirroring the
// ctx.Info()/ctx.Error() shape of gapid's core/log.Context without carrying
// its full channel/style machinery.
type Logger struct {
	ctx   context.Context
	std   *log.Logger
	scope string
}

var (
	once    sync.Once
	filter  *logutils.LevelFilter
	backing *log.Logger
)

func sink() (*logutils.LevelFilter, *log.Logger) {
	once.Do(func() {
		filter = &logutils.LevelFilter{
			Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"},
			MinLevel: "INFO",
			Writer:   os.Stderr,
		}
		backing = log.New(filter, "", log.LstdFlags)
	})
	return filter, backing
}

// SetMinSeverity changes the minimum severity emitted by the process-wide
// sink. It is not safe to call concurrently with logging calls.
func SetMinSeverity(s Severity) {
	f, _ := sink()
	f.MinLevel = logutils.LogLevel(s.String())
}

// From returns a Logger bound to ctx with no additional scope.
func From(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return l
	}
	_, std := sink()
	return Logger{ctx: ctx, std: std}
}

// With returns a child context carrying a Logger annotated with the given
// scope name (e.g. the compilation stage: "grammar", "sema", "emit").
func With(ctx context.Context, scope string) context.Context {
	l := From(ctx)
	l.scope = scope
	return context.WithValue(ctx, loggerKey{}, l)
}

func (l Logger) line(sev Severity, msg string) string {
	if l.scope != "" {
		return fmt.Sprintf("[%s] %s: %s", sev, l.scope, msg)
	}
	return fmt.Sprintf("[%s] %s", sev, msg)
}

func (l Logger) Debugf(format string, args ...interface{}) {
	l.std.Print(l.line(Debug, fmt.Sprintf(format, args...)))
}

func (l Logger) Infof(format string, args ...interface{}) {
	l.std.Print(l.line(Info, fmt.Sprintf(format, args...)))
}

func (l Logger) Warningf(format string, args ...interface{}) {
	l.std.Print(l.line(Warning, fmt.Sprintf(format, args...)))
}

func (l Logger) Errorf(format string, args ...interface{}) {
	l.std.Print(l.line(Error, fmt.Sprintf(format, args...)))
}
