package events

import "time"

// ObjectsDiscovered is raised once the objects to sync for a table are known
type ObjectsDiscovered struct {
	Base
	ExecutionId string
	Table       string
	Count       int
}

func NewObjectsDiscoveredEvent(executionId, table string, count int) *ObjectsDiscovered {
	return &ObjectsDiscovered{ExecutionId: executionId, Table: table, Count: count}
}

// ObjectSkipped is raised for each object, or archive member, which produced no records
type ObjectSkipped struct {
	Base
	ExecutionId string
	Table       string
	Name        string
	Reason      string
	Message     string
}

func NewObjectSkippedEvent(executionId, table, name, reason, message string) *ObjectSkipped {
	return &ObjectSkipped{
		ExecutionId: executionId,
		Table:       table,
		Name:        name,
		Reason:      reason,
		Message:     message,
	}
}

// ObjectSynced is raised after an object has been fully processed and the bookmark committed
type ObjectSynced struct {
	Base
	ExecutionId string
	Table       string
	Key         string
	Records     int
	Bookmark    time.Time
}

func NewObjectSyncedEvent(executionId, table, key string, records int, bookmark time.Time) *ObjectSynced {
	return &ObjectSynced{
		ExecutionId: executionId,
		Table:       table,
		Key:         key,
		Records:     records,
		Bookmark:    bookmark,
	}
}
