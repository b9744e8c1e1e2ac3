package constants

// auto fields, populated by the pipeline rather than sourced from the row
const (
	SdcSourceBucket = "_sdc_source_bucket"
	SdcSourceFile   = "_sdc_source_file"
	SdcSourceLineNo = "_sdc_source_lineno"
	SdcExtra        = "_sdc_extra"
	SdcRecordID     = "_sdc_record_id"
)

// AutoFields lists every field the pipeline knows how to populate
var AutoFields = []string{SdcSourceBucket, SdcSourceFile, SdcSourceLineNo, SdcExtra, SdcRecordID}

func IsAutoField(name string) bool {
	for _, f := range AutoFields {
		if f == name {
			return true
		}
	}
	return false
}
