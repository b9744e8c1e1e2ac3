package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogYaml = `
streams:
  - table_name: orders
    schema:
      type: object
      properties:
        id:
          type: [integer]
        amount:
          type: [null, number]
        created_at:
          type: [null, string]
          format: date-time
        notes:
          type: string
        _sdc_source_file:
          type: string
    metadata:
      id:
        inclusion: automatic
        source_type: integer
      notes:
        inclusion: available
        selected: false
      amount:
        inclusion: available
        selected: true
        source_type: string
    column_updates:
      - column: amount
        column_update_type: modify
      - column: id
        column_update_type: rename
`

const testCatalogJson = `{"streams": [{"table_name": "events", "schema": {"properties": {"id": {"type": "string"}}}}]}`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(testCatalogYaml))
	require.NoError(t, err)
	require.Len(t, c.Streams, 1)

	s := c.Stream("orders")
	require.NotNil(t, s)
	assert.Nil(t, c.Stream("missing"))

	assert.Equal(t, TypeList{TypeInteger}, s.Schema.Properties["id"].Type)
	assert.Equal(t, TypeList{TypeNull, TypeNumber}, s.Schema.Properties["amount"].Type)
	assert.Equal(t, TypeList{TypeString}, s.Schema.Properties["notes"].Type)
	assert.Equal(t, FormatDateTime, s.Schema.Properties["created_at"].Format)
	assert.True(t, s.Schema.Properties["amount"].IsNullable())
	assert.False(t, s.Schema.Properties["id"].IsNullable())
	require.Len(t, s.ColumnUpdates, 2)
	assert.Equal(t, ColumnUpdateModify, s.ColumnUpdates[0].ColumnUpdateType)

	j, err := ParseCatalog([]byte(testCatalogJson))
	require.NoError(t, err)
	assert.Equal(t, TypeList{TypeString}, j.Stream("events").Schema.Properties["id"].Type)
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "no table name", data: "streams:\n  - schema: {}\n"},
		{name: "no schema", data: "streams:\n  - table_name: t\n"},
		{name: "type map", data: "streams:\n  - table_name: t\n    schema:\n      type: {a: b}\n"},
		{name: "not yaml", data: "streams: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestCatalog_MarshalRoundTrip(t *testing.T) {
	c, err := ParseCatalog([]byte(testCatalogYaml))
	require.NoError(t, err)
	data, err := c.Marshal()
	require.NoError(t, err)

	again, err := ParseCatalog(data)
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestResolveFilterFields(t *testing.T) {
	c, err := ParseCatalog([]byte(testCatalogYaml))
	require.NoError(t, err)
	s := c.Stream("orders")

	auto, selected, filtered, sourceTypes := ResolveFilterFields(s.Schema.Properties, s.Metadata)
	assert.Equal(t, map[string]struct{}{"id": {}, "_sdc_source_file": {}}, auto)
	assert.Equal(t, map[string]struct{}{"amount": {}, "created_at": {}}, selected)
	assert.Equal(t, map[string]struct{}{"notes": {}}, filtered)
	assert.Equal(t, map[string]string{"id": "integer", "amount": "string"}, sourceTypes)

	overrides := BuildTypeOverrides(s.ColumnUpdates, sourceTypes)
	assert.Equal(t, map[string]string{"amount": "string"}, overrides)
}
