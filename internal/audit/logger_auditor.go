// filepath: internal/audit/logger_auditor.go
package audit

import (
	"github.com/Astar201/DataBasePeople/internal/services"

	"github.com/sirupsen/logrus"
)

// Ensure LoggerAuditor implements services.Auditor
var _ services.Auditor = (*LoggerAuditor)(nil)

// LoggerAuditor is a simple implementation of Auditor that writes to the
// standard application log. It is the only audit sink this tool has; the
// log file is the audit trail.
type LoggerAuditor struct {
	enabled bool
	log     *logrus.Logger
}

// NewLoggerAuditor creates a new instance of LoggerAuditor.
func NewLoggerAuditor(enabled bool, log *logrus.Logger) *LoggerAuditor {
	return &LoggerAuditor{enabled: enabled, log: log}
}

// Log records an event if auditing is enabled.
func (a *LoggerAuditor) Log(action string, actor string, resource string, details map[string]interface{}) {
	if !a.enabled {
		return
	}

	fields := logrus.Fields{
		"audit_action":   action,
		"audit_actor":    actor,
		"audit_resource": resource,
	}
	// Add details flattened into the fields
	for k, v := range details {
		fields["detail."+k] = v
	}

	// INFO level with a fixed message to make the trail easy to grep
	a.log.WithFields(fields).Info("AUDIT EVENT")
}
