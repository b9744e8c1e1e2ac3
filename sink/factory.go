package sink

import (
	"fmt"
	"os"

	"github.com/turbot/tailpipe-file-ingest/config"
)

// New creates the sink described by the sink block, a nil block writes to stdout
func New(c *config.SinkConfig) (Sink, error) {
	if c == nil {
		return NewStdoutSink(os.Stdout), nil
	}
	switch c.Type {
	case StdoutSinkIdentifier:
		return NewStdoutSink(os.Stdout), nil
	case JSONLSinkIdentifier:
		if c.Path == nil {
			return nil, fmt.Errorf("%s sink requires a path", JSONLSinkIdentifier)
		}
		return NewJSONLSink(*c.Path)
	default:
		return nil, fmt.Errorf("unsupported sink type %q", c.Type)
	}
}
