package audit

import (
	"context"
	"errors"
	"log"
)

// LogWriter is an audit Logger that writes to the process log. Used
// when no database is available, so mutations still leave a trace.
type LogWriter struct {
	logger *log.Logger
}

// NewLogWriter constructs a logging audit writer.
func NewLogWriter(logger *log.Logger) *LogWriter {
	if logger == nil {
		logger = log.Default()
	}
	return &LogWriter{logger: logger}
}

// Log writes the entry to the process log.
func (w *LogWriter) Log(ctx context.Context, entry Entry) error {
	_ = ctx
	if w == nil {
		return errors.New("audit log writer: nil writer")
	}
	w.logger.Printf("audit: actor=%s role=%s action=%s resource=%s/%s", entry.Actor, entry.Role, entry.Action, entry.ResourceType, entry.ResourceID)
	return nil
}
