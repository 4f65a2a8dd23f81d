package logging

// NopLogger discards all log output. Useful as a default in tests.
type NopLogger struct{}

// NewNop creates a logger that discards everything.
func NewNop() *NopLogger { return &NopLogger{} }

func (*NopLogger) Debug(string, ...any) {}
func (*NopLogger) Info(string, ...any)  {}
func (*NopLogger) Warn(string, ...any)  {}
func (*NopLogger) Error(string, ...any) {}

func (l *NopLogger) With(...any) Logger { return l }
func (*NopLogger) Sync() error          { return nil }
