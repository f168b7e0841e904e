package audit

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LoggerSink writes audit events as structured log entries. Successful
// operations log at Info, failures at Warn.
type LoggerSink struct {
	logger logrus.FieldLogger
}

func NewLoggerSink(logger logrus.FieldLogger) *LoggerSink {
	return &LoggerSink{logger: logger}
}

func (s *LoggerSink) Emit(_ context.Context, event Event) {
	if s == nil || s.logger == nil {
		return
	}

	fields := logrus.Fields{
		"event_type": event.EventType,
		"success":    event.Success,
	}
	addField(fields, "alg", event.Algorithm)
	addField(fields, "kid", event.KeyID)
	addField(fields, "sub", event.Subject)
	addField(fields, "iss", event.Issuer)
	addField(fields, "jti", event.TokenID)
	addField(fields, "reason", event.Reason)
	for k, v := range event.Metadata {
		if _, taken := fields[k]; !taken {
			fields[k] = v
		}
	}

	entry := s.logger.WithFields(fields)
	if event.Success {
		entry.Info("audit")
		return
	}
	if event.Error != "" {
		entry = entry.WithField("error", event.Error)
	}
	entry.Warn("audit")
}

func addField(fields logrus.Fields, key, value string) {
	if value != "" {
		fields[key] = value
	}
}
