package main

import (
	"os"

	"github.com/turbot/tailpipe-file-ingest/constants"
	"github.com/turbot/tailpipe-file-ingest/logging"
)

func main() {
	logging.Initialize(constants.ToolName)
	os.Exit(Execute())
}
