package domain

// DecodedMessage is the normalized record for one PDU. Values are taken verbatim from the
// protocol decoder; ReceivedAt is the service-centre timestamp in epoch milliseconds.
type DecodedMessage struct {
	Sender     string `json:"sender"`
	Body       string `json:"body"`
	ReceivedAt int64  `json:"received_at"`
}

// DecodeResult is the tagged outcome of decoding one segment: either Message is set and Err is
// nil, or Err carries the reason.
type DecodeResult struct {
	Message DecodedMessage
	Err     error
}

// OK reports whether the segment decoded.
func (r DecodeResult) OK() bool { return r.Err == nil }

// Decoded builds a successful result.
func Decoded(sender, body string, receivedAt int64) DecodeResult {
	return DecodeResult{Message: DecodedMessage{Sender: sender, Body: body, ReceivedAt: receivedAt}}
}

// Failed builds a failed result.
func Failed(err error) DecodeResult {
	return DecodeResult{Err: err}
}
