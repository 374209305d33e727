// Package logger holds the sink that gateway and interaction events are
// written to, and the streams those components publish on.
package logger

import log "github.com/sirupsen/logrus"

type Severity int

const (
	Critical Severity = iota
	Error
	Warning
	Info
	Verbose
	Debug
)

// LogMessage is a single event produced by the gateway, the
// interaction registry or a command handler.
type LogMessage struct {
	Severity  Severity
	Source    string
	Message   string
	Exception error
}

// Logger accepts log messages. Implementations must not block
// the caller.
type Logger interface {
	Log(message LogMessage)
}

// Level maps the severity to the logrus level it is written at.
// Unknown severities are written at info level.
func (s Severity) Level() log.Level {
	switch s {
	case Critical:
		return log.FatalLevel
	case Error:
		return log.ErrorLevel
	case Warning:
		return log.WarnLevel
	case Info:
		return log.InfoLevel
	case Verbose:
		return log.TraceLevel
	case Debug:
		return log.DebugLevel
	}
	return log.InfoLevel
}

func (s Severity) String() string {
	switch s {
	case Critical:
		return "Critical"
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	case Info:
		return "Info"
	case Verbose:
		return "Verbose"
	case Debug:
		return "Debug"
	}
	return "Unknown"
}
