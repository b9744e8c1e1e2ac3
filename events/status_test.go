package events

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Update(t *testing.T) {
	s := NewStatusEvent("exec")
	for _, e := range []Event{
		NewStartedEvent("exec", "orders", time.Time{}),
		NewObjectsDiscoveredEvent("exec", "orders", 3),
		NewChunkEvent("exec", "orders", 0, 100),
		NewChunkEvent("exec", "orders", 1, 20),
		NewObjectSyncedEvent("exec", "orders", "a.csv", 120, time.Time{}),
		NewObjectSkippedEvent("exec", "orders", "b.bin", "unsupported_format", ""),
		NewObjectSyncedEvent("exec", "orders", "b.bin", 0, time.Time{}),
		NewCompletedEvent("exec", "orders", 120, 1, errors.New("boom")),
	} {
		s.Update(e)
	}

	want := &Status{
		ExecutionId:       "exec",
		TablesStarted:     1,
		TablesCompleted:   1,
		ObjectsDiscovered: 3,
		ObjectsSynced:     2,
		ObjectsSkipped:    1,
		RecordsEmitted:    120,
		Chunks:            2,
		Errors:            1,
	}
	assert.True(t, want.Equals(s))
	assert.False(t, want.Equals(nil))
}
