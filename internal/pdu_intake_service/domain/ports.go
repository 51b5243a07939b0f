package domain

import "context"

// PDUDecoder turns one segment into a DecodeResult. Implementations must be safe for
// concurrent use and must not retain the segment.
type PDUDecoder interface {
	Decode(seg Segment, format string) DecodeResult
}

// PDUDecoderFunc adapts a function to PDUDecoder.
type PDUDecoderFunc func(seg Segment, format string) DecodeResult

func (f PDUDecoderFunc) Decode(seg Segment, format string) DecodeResult { return f(seg, format) }

// Observer receives diagnostics for every segment. It is a side channel; nothing downstream
// may depend on it for the records themselves.
type Observer interface {
	SegmentDecoded(ctx context.Context, index int, msg DecodedMessage)
	SegmentFailed(ctx context.Context, err *DecodeError)
}

// Sink is the downstream consumer of decoded records. The slice passed to Deliver is owned by
// the sink once the call is made.
type Sink interface {
	Deliver(ctx context.Context, msgs []DecodedMessage) error
}

type deviceIDKey struct{}

// WithDeviceID attaches the originating device id to ctx for sinks that record it.
func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceIDKey{}, deviceID)
}

// DeviceIDFrom returns the device id stored by WithDeviceID, or "".
func DeviceIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(deviceIDKey{}).(string)
	return id
}
