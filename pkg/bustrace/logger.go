package bustrace

import (
	"sort"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/charmbracelet/log"
)

// loggerAdapter routes watermill's internal logging through a charm logger.
type loggerAdapter struct {
	logger *log.Logger
}

// NewLoggerAdapter wraps logger for use as a watermill.LoggerAdapter.
func NewLoggerAdapter(logger *log.Logger) watermill.LoggerAdapter {
	if logger == nil {
		logger = log.Default()
	}
	return &loggerAdapter{logger: logger.WithPrefix("watermill")}
}

func (a *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error(msg, append(keyvals(fields), "err", err)...)
}

func (a *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Info(msg, keyvals(fields)...)
}

func (a *loggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, keyvals(fields)...)
}

// Trace is folded into debug; charm log has no trace level.
func (a *loggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, keyvals(fields)...)
}

func (a *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &loggerAdapter{logger: a.logger.With(keyvals(fields)...)}
}

func keyvals(fields watermill.LogFields) []interface{} {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, len(fields)*2)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}
