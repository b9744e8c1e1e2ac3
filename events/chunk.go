package events

// Chunk is raised when a batch of records has been written to the sink
type Chunk struct {
	Base
	ExecutionId string
	Table       string
	ChunkNumber int
	Rows        int
}

func NewChunkEvent(executionId, table string, chunkNumber, rows int) *Chunk {
	return &Chunk{
		ExecutionId: executionId,
		Table:       table,
		ChunkNumber: chunkNumber,
		Rows:        rows,
	}
}
