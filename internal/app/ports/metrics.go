package ports

import "questforge/internal/domain/adventure"

type LifecycleMetrics interface {
	RecordStarted()
	RecordCompleted(reward int)
	RecordCollected(amount int)
	RecordRejected(reason adventure.TransitionReason)
	RecordPersistenceFailure()
}
