// Package jobs contains the background worker and its task handlers.
package jobs

import (
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDirectoryIntegrity scans for dangling weak references.
	TaskDirectoryIntegrity = "directory:integrity"
	// TaskSessionAudit verifies the persisted session still maps to a user.
	TaskSessionAudit = "session:audit"
)

// NewDirectoryIntegrityTask constructs the integrity scan task.
func NewDirectoryIntegrityTask() *asynq.Task {
	return asynq.NewTask(TaskDirectoryIntegrity, nil)
}

// NewSessionAuditTask constructs the session audit task.
func NewSessionAuditTask() *asynq.Task {
	return asynq.NewTask(TaskSessionAudit, nil)
}
