package core

// Logger is the logging surface the renderer needs. The host's logger
// satisfies it.
type Logger interface {
	DebugEnabled() bool
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func NopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger()
	}
	return l
}
