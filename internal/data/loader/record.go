package loader

import (
	"context"
	"encoding/json"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-trace-timeline/internal/core/model"
)

// DumpLine is one line of a trace dump file
type DumpLine struct {
	Trace                 string          `json:"trace"`
	ElapsedNs             int64           `json:"elapsed_ns"`
	RealToElapsedOffsetNs *int64          `json:"real_to_elapsed_offset_ns,omitempty"`
	Payload               json.RawMessage `json:"payload,omitempty"`
}

// RawEntry is a decoded dump line whose payload is kept undecoded
type RawEntry struct {
	Type         model.TraceType
	ElapsedNs    int64
	HasOffset    bool
	RealOffsetNs int64
	Payload      []byte
	File         string
	Line         int
}

// decodePayload is the lazy loader attached to each entry
func decodePayload(raw []byte) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			return nil, nil
		}
		var value any
		if err := sonic.Unmarshal(raw, &value); err != nil {
			return nil, err
		}
		return value, nil
	}
}
