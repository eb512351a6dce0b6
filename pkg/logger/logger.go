package logger

// Field is one structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// Client is the logging contract the rest of the service depends on.
type Client interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Err is shorthand for the error field every failure log carries.
func Err(err error) Field {
	return Field{Key: "err", Value: err}
}
