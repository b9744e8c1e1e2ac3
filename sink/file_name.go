package sink

import "fmt"

// ChunkFileName converts an execution id, table and chunk number to a filename
// using the convention <executionId>-<table>-<chunkNumber>.jsonl
func ChunkFileName(executionId, table string, chunkNumber int) string {
	return fmt.Sprintf("%s-%s-%d.jsonl", executionId, table, chunkNumber)
}
