// Package clog provides the ambient, context-carried logging used across the
// compiler pipeline (grammar loading, resolution, emission, JIT binding).
//
// It follows the fluent, context-first idiom of gapid's core/log package
// (ctx.Info().Log("...")) but backs the sink with
// github.com/hashicorp/logutils rather than an in-house handler/channel
// system, since logutils is the leveled-logging library the retrieval pack
// actually uses (qjcg-driving).
package clog

// Severity is the level of a log record, ordered from least to most severe.
type Severity int

const (
	Debug Severity = iota
	Info
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "?"
	}
}
