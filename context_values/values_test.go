package context_values

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionIdFromContext(t *testing.T) {
	id := NewExecutionId()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	got, err := ExecutionIdFromContext(WithExecutionId(context.Background(), id))
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ExecutionIdFromContext(context.Background())
	assert.Error(t, err)
}
