package collection

import (
	"fmt"
	"time"
)

// Result summarises the sync of a single table
type Result struct {
	Table           string
	RecordsStreamed int
	ObjectsSynced   int
	// objects, or archive members, which produced no records
	ObjectsSkipped int
	// the bookmark at the end of the sync, the last modified time of the last object synced
	Bookmark time.Time
}

func (r *Result) String() string {
	return fmt.Sprintf("table %s: %d records from %d objects, %d skipped, bookmark %s",
		r.Table, r.RecordsStreamed, r.ObjectsSynced, r.ObjectsSkipped, r.Bookmark.Format(time.RFC3339))
}
