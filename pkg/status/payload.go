package status

import (
	"fmt"
	"time"

	"github.com/golang/protobuf/proto"
	structpb "github.com/golang/protobuf/ptypes/struct"

	"github.com/robotalks/adalight.go/pkg/driver"
)

// Status fields.
const (
	FieldFrames         = "frames"
	FieldShown          = "shown"
	FieldTimeouts       = "timeouts"
	FieldChecksumErrors = "checksum_errors"
	FieldTransmitErrors = "transmit_errors"
	FieldLastFrame      = "last_frame"
)

func number(v uint64) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_NumberValue{NumberValue: float64(v)}}
}

// Message converts a snapshot into a protobuf Struct.
// last_frame is RFC3339 with nanoseconds, or null before the first frame.
func Message(s driver.Snapshot) *structpb.Struct {
	msg := &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldFrames:         number(s.Frames),
		FieldShown:          number(s.Shown),
		FieldTimeouts:       number(s.Timeouts),
		FieldChecksumErrors: number(s.ChecksumErrors),
		FieldTransmitErrors: number(s.TransmitErrors),
	}}
	if s.LastFrame.IsZero() {
		msg.Fields[FieldLastFrame] = &structpb.Value{Kind: &structpb.Value_NullValue{}}
	} else {
		msg.Fields[FieldLastFrame] = &structpb.Value{Kind: &structpb.Value_StringValue{
			StringValue: s.LastFrame.UTC().Format(time.RFC3339Nano),
		}}
	}
	return msg
}

// Encode serializes a snapshot.
func Encode(s driver.Snapshot) ([]byte, error) {
	return proto.Marshal(Message(s))
}

// Decode parses the payload of a status message.
func Decode(payload []byte) (s driver.Snapshot, err error) {
	var msg structpb.Struct
	if err = proto.Unmarshal(payload, &msg); err != nil {
		return
	}
	counters := []struct {
		name string
		val  *uint64
	}{
		{FieldFrames, &s.Frames},
		{FieldShown, &s.Shown},
		{FieldTimeouts, &s.Timeouts},
		{FieldChecksumErrors, &s.ChecksumErrors},
		{FieldTransmitErrors, &s.TransmitErrors},
	}
	for _, c := range counters {
		if v, ok := msg.Fields[c.name].GetKind().(*structpb.Value_NumberValue); ok {
			*c.val = uint64(v.NumberValue)
		}
	}
	if v, ok := msg.Fields[FieldLastFrame].GetKind().(*structpb.Value_StringValue); ok {
		if s.LastFrame, err = time.Parse(time.RFC3339Nano, v.StringValue); err != nil {
			err = fmt.Errorf("invalid %s: %w", FieldLastFrame, err)
		}
	}
	return
}
