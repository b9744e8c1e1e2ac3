package events

// Status aggregates the progress events of a sync run
type Status struct {
	Base
	ExecutionId       string
	TablesStarted     int
	TablesCompleted   int
	ObjectsDiscovered int
	ObjectsSynced     int
	ObjectsSkipped    int
	RecordsEmitted    int
	Chunks            int
	Errors            int
}

func NewStatusEvent(executionId string) *Status {
	return &Status{
		ExecutionId: executionId,
	}
}

func (r *Status) Update(event Event) {
	switch e := event.(type) {
	case *Started:
		r.TablesStarted++
	case *ObjectsDiscovered:
		r.ObjectsDiscovered += e.Count
	case *ObjectSkipped:
		r.ObjectsSkipped++
	case *ObjectSynced:
		r.ObjectsSynced++
	case *Chunk:
		r.Chunks++
		r.RecordsEmitted += e.Rows
	case *Completed:
		r.TablesCompleted++
		if e.Err != nil {
			r.Errors++
		}
	}
}

func (r *Status) Equals(status *Status) bool {
	if status == nil {
		return false
	}
	return *r == *status
}
