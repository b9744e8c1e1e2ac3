package events

type Completed struct {
	Base
	ExecutionId     string
	Table           string
	RecordsStreamed int
	ObjectsSkipped  int
	Err             error
}

func NewCompletedEvent(executionId, table string, recordsStreamed, objectsSkipped int, err error) *Completed {
	return &Completed{
		ExecutionId:     executionId,
		Table:           table,
		RecordsStreamed: recordsStreamed,
		ObjectsSkipped:  objectsSkipped,
		Err:             err,
	}
}
