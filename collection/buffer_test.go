package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/tailpipe-file-ingest/schema"
)

func TestBuffer(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		records  int
		want     []int
	}{
		{name: "250 records", capacity: 100, records: 250, want: []int{100, 100, 50}},
		{name: "exact multiple", capacity: 100, records: 200, want: []int{100, 100}},
		{name: "partial only", capacity: 100, records: 7, want: []int{7}},
		{name: "empty", capacity: 100, records: 0, want: nil},
		{name: "invalid capacity", capacity: 0, records: 2, want: []int{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sizes []int
			var ids []int
			b := NewBuffer(tt.capacity, func(_ context.Context, batch []schema.Record) error {
				sizes = append(sizes, len(batch))
				for _, r := range batch {
					ids = append(ids, r["id"].(int))
				}
				return nil
			})
			for i := 0; i < tt.records; i++ {
				require.NoError(t, b.Add(context.Background(), schema.Record{"id": i}))
			}
			require.NoError(t, b.Flush(context.Background()))

			assert.Equal(t, tt.want, sizes)
			assert.Equal(t, 0, b.Len())
			for i, id := range ids {
				assert.Equal(t, i, id, "records must keep their order")
			}
		})
	}
}

func TestBuffer_FlushError(t *testing.T) {
	b := NewBuffer(2, func(context.Context, []schema.Record) error {
		return errors.New("boom")
	})
	require.NoError(t, b.Add(context.Background(), schema.Record{}))
	assert.Error(t, b.Add(context.Background(), schema.Record{}))
}
