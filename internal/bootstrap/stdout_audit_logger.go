package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StdoutAuditLogger writes audit entries through the global zap logger.
// Good enough for single-node deployments; a shipping backend can replace it
// behind the AuditLogger interface.
type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Log(_ context.Context, entry AuditLog) {
	zap.L().Named("audit").Info("audit event",
		zap.String("recorded_at", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
