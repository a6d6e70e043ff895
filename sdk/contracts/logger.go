package contracts

import "time"

// LogLevel represents the severity level for logging.
// The zero value means "not set" and is replaced by InfoLevel when options are applied.
type LogLevel int

const (
	// DebugLevel indicates debug messages, including every outbound MIDI message.
	DebugLevel LogLevel = iota + 1
	// InfoLevel indicates informational messages such as port open and close.
	InfoLevel
	// WarnLevel indicates potentially harmful situations that should be monitored.
	WarnLevel
	// ErrorLevel indicates error messages that represent serious issues that need attention.
	ErrorLevel
	// FatalLevel indicates very severe error events that will presumably lead the application to abort.
	FatalLevel
)

// ParseLogLevel maps a level name ("debug", "info", "warn", "error", "fatal") to a LogLevel.
// Unknown names map to InfoLevel.
func ParseLogLevel(name string) LogLevel {
	switch name {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// LogDestination specifies where the log messages should be directed.
type LogDestination string

const (
	// ConsoleLog directs log messages to the console output.
	ConsoleLog LogDestination = "console"
	// FileLog directs log messages to a file.
	FileLog LogDestination = "file"
)

// Field represents a structured log field.
type Field interface {
	Bool(key string, val bool) Field
	Int(key string, val int) Field
	Float64(key string, val float64) Field
	String(key string, val string) Field
	Time(key string, val time.Time) Field
	Int64(key string, val int64) Field
	Error(key string, val error) Field
	Uint64(key string, val uint64) Field
	Uint32(key string, val uint32) Field
	Uint8(key string, val uint8) Field
}

// Logger provides methods to record messages at different levels.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Field() Field

	SetLevel(level LogLevel)
	SetDestination(dest LogDestination, filePath ...string)
}
