package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDecodeFailure marks a segment the protocol decoder could not handle.
	ErrDecodeFailure = errors.New("pdu decode failure")
	// ErrUnsupportedFormat is returned by decoders for PDU formats they do not implement.
	ErrUnsupportedFormat = errors.New("unsupported pdu format")
)

// DecodeError describes the failure of one segment within a notification.
type DecodeError struct {
	Index  int    // position of the segment in the notification
	Reason string // short machine friendly cause, used as a metric label
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("segment %d: %s: %v", e.Index, e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecodeFailure, e.Err}
}
