package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBucketConfig struct {
	Bucket string  `hcl:"bucket"`
	Region *string `hcl:"region,optional"`
}

func TestParse(t *testing.T) {
	t.Setenv("TEST_BUCKET", "from-env")

	tests := []struct {
		name    string
		hcl     string
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "full config",
			hcl: `
catalog = "catalog.yml"

source "aws_s3_bucket" {
  bucket = env.TEST_BUCKET
  region = "eu-west-1"
}

state "file" {
  path = "state.json"
}

sink "jsonl" {
  path = "out"
}

table "orders" {
  search_pattern   = "orders/.*\\.csv$"
  search_prefix    = "orders/"
  key_properties   = ["id"]
  date_overrides   = ["created_at"]
  delimiter        = "\t"
  recursive_search = true
}
`,
			check: func(t *testing.T, c *Config) {
				require.Len(t, c.Tables, 1)
				table := c.Tables[0]
				assert.Equal(t, "orders", table.TableName)
				assert.Equal(t, "orders/", table.GetSearchPrefix())
				assert.Equal(t, '\t', table.GetDelimiter())
				assert.Equal(t, '"', table.GetQuoteChar())
				assert.True(t, table.IsRecursive())
				assert.Equal(t, []string{"created_at"}, table.DateOverrides)
				assert.Equal(t, "catalog.yml", *c.Catalog)
				assert.Equal(t, "state.json", c.State.Path)

				src, err := DecodeBody[testBucketConfig](c.Source.Remain)
				require.NoError(t, err)
				assert.Equal(t, "from-env", src.Bucket)
				assert.Equal(t, "eu-west-1", *src.Region)
			},
		},
		{
			name: "defaults",
			hcl: `
source "file_system" {
  path = "/data"
}
table "events" {
  search_pattern = "events"
  key_properties = []
}
`,
			check: func(t *testing.T, c *Config) {
				table, ok := c.Table("events")
				require.True(t, ok)
				assert.False(t, table.IsRecursive())
				assert.Equal(t, ',', table.GetDelimiter())
				_, hasEscape := table.GetEscapeChar()
				assert.False(t, hasEscape)
				assert.Nil(t, c.State)
			},
		},
		{
			name: "invalid pattern",
			hcl: `
source "file_system" {}
table "bad" {
  search_pattern = "("
  key_properties = []
}
`,
			wantErr: true,
		},
		{
			name: "multi character delimiter",
			hcl: `
source "file_system" {}
table "bad" {
  search_pattern = "x"
  key_properties = []
  delimiter      = "||"
}
`,
			wantErr: true,
		},
		{
			name: "duplicate tables",
			hcl: `
source "file_system" {}
table "a" {
  search_pattern = "x"
  key_properties = []
}
table "a" {
  search_pattern = "y"
  key_properties = []
}
`,
			wantErr: true,
		},
		{
			name: "no source",
			hcl: `
table "a" {
  search_pattern = "x"
  key_properties = []
}
`,
			wantErr: true,
		},
		{
			name: "unknown sink",
			hcl: `
source "file_system" {}
sink "kafka" {}
table "a" {
  search_pattern = "x"
  key_properties = []
}
`,
			wantErr: true,
		},
		{
			name:    "syntax error",
			hcl:     `source "file_system" {`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.hcl), "test.hcl")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestConfig_SelectTables(t *testing.T) {
	c := &Config{Tables: []*TableSpec{{TableName: "a"}, {TableName: "b"}}}

	all, err := c.SelectTables(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := c.SelectTables([]string{"b"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "b", some[0].TableName)

	_, err = c.SelectTables([]string{"missing"})
	assert.ErrorContains(t, err, "missing")
}
