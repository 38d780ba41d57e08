package logging

import (
	"io"

	"github.com/sirupsen/logrus"

	"wdp.dev/cli/internal/core/ports"
)

// LogrusLogger implements ports.LoggingGateway on top of logrus
type LogrusLogger struct {
	logger *logrus.Logger
	fields logrus.Fields
}

// NewLogrusLogger creates a logger writing to out
func NewLogrusLogger(out io.Writer, config ports.LoggingConfig) *LogrusLogger {
	logger := logrus.New()
	logger.SetOutput(out)

	if config.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})
	}

	l := &LogrusLogger{logger: logger, fields: logrus.Fields{}}
	l.SetLogLevel(config.Level)
	return l
}

// WithField returns a logger that stamps every entry with key=value
func (l *LogrusLogger) WithField(key string, value interface{}) *LogrusLogger {
	fields := make(logrus.Fields, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &LogrusLogger{logger: l.logger, fields: fields}
}

// Log logs a message with the specified level
func (l *LogrusLogger) Log(level ports.LogLevel, message string, fields map[string]interface{}) {
	l.entry(fields).Log(toLogrusLevel(level), message)
}

// LogError logs an error at error level
func (l *LogrusLogger) LogError(err error, message string, fields map[string]interface{}) {
	l.entry(fields).WithError(err).Error(message)
}

// SetLogLevel sets the logging level
func (l *LogrusLogger) SetLogLevel(level ports.LogLevel) {
	l.logger.SetLevel(toLogrusLevel(level))
}

// GetLogLevel returns the current logging level
func (l *LogrusLogger) GetLogLevel() ports.LogLevel {
	switch l.logger.GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return ports.LogLevelDebug
	case logrus.WarnLevel:
		return ports.LogLevelWarn
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return ports.LogLevelError
	default:
		return ports.LogLevelInfo
	}
}

func (l *LogrusLogger) entry(fields map[string]interface{}) *logrus.Entry {
	entry := l.logger.WithFields(l.fields)
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields))
	}
	return entry
}

func toLogrusLevel(level ports.LogLevel) logrus.Level {
	switch level {
	case ports.LogLevelDebug:
		return logrus.DebugLevel
	case ports.LogLevelWarn:
		return logrus.WarnLevel
	case ports.LogLevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

var _ ports.LoggingGateway = (*LogrusLogger)(nil)
