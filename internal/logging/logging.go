package logging

// Provides the logger interface shared by every component. Arguments after
// the message are alternating key/value pairs.

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
