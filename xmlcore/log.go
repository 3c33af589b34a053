package xmlcore

import "log"

// Logger is the minimal sink xmlcore writes diagnostics to. The teacher
// repo has no logging library of its own — its CLI diagnostics (demo.go)
// go straight through the standard library's log package — so this module
// keeps that same minimal surface rather than pulling a structured logger
// onto the parser's hot path; callers embedding xmlcore in something that
// already has zerolog/zap/etc. wire it in with one adapter satisfying this
// interface, passed via WithLogger.
type Logger interface {
	Printf(format string, args ...any)
}

// stdLogger adapts the standard library's *log.Logger to Logger, and is
// the default used when no Logger option is supplied.
type stdLogger struct{ *log.Logger }

func (s stdLogger) Printf(format string, args ...any) { s.Logger.Printf(format, args...) }

func defaultLogger() Logger {
	return stdLogger{log.New(log.Writer(), "xmlcore: ", log.LstdFlags)}
}

// nopLogger discards everything. NewParser does not select it: a nil
// Logger, whether passed to WithLogger or left unset, gets defaultLogger.
type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
