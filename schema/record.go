package schema

import (
	"github.com/rs/xid"
	"github.com/turbot/tailpipe-file-ingest/constants"
	"github.com/turbot/tailpipe-file-ingest/types"
)

// Record is a transformed row, ready to be emitted
type Record map[string]any

// AutoValues returns the values of the auto fields for a row read from file in bucket
func AutoValues(bucket, file string, row *types.RawRow) map[string]any {
	res := map[string]any{
		constants.SdcSourceBucket: bucket,
		constants.SdcSourceFile:   file,
		constants.SdcSourceLineNo: row.LineNumber,
		constants.SdcRecordID:     xid.New().String(),
	}
	if len(row.Extra) > 0 {
		res[constants.SdcExtra] = row.Extra
	}
	return res
}
