package goJWT

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/MrEthical07/goJWT/internal/audit"
)

// AuditEvent is one token lifecycle record delivered to an AuditSink.
type AuditEvent = audit.Event

// AuditSink receives audit events from the engine's dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpSink discards every event.
type NoOpSink = audit.NoOpSink

// ChannelSink buffers events in a channel exposed by Events.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes each event as one JSON line.
type JSONWriterSink = audit.JSONWriterSink

// LoggerSink logs each event through a logrus logger.
type LoggerSink = audit.LoggerSink

func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

func NewLoggerSink(logger logrus.FieldLogger) *LoggerSink {
	return audit.NewLoggerSink(logger)
}

const (
	auditEventTokenSigned     = "token_signed"
	auditEventTokenSignFailed = "token_sign_failed"
	auditEventTokenVerified   = "token_verified"
	auditEventTokenRejected   = "token_rejected"
)
