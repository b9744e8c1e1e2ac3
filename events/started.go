package events

import "time"

type Started struct {
	Base
	ExecutionId   string
	Table         string
	ModifiedSince time.Time
}

func NewStartedEvent(executionId, table string, modifiedSince time.Time) *Started {
	return &Started{
		ExecutionId:   executionId,
		Table:         table,
		ModifiedSince: modifiedSince,
	}
}
