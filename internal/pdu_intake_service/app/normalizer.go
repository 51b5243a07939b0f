package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

// FailurePolicy decides what a bad segment does to the rest of its notification.
type FailurePolicy int

const (
	// SkipMalformed drops the failing segment, reports it and carries on.
	SkipMalformed FailurePolicy = iota
	// AbortBatch discards the whole notification on the first failing segment.
	AbortBatch
)

// ParseFailurePolicy maps the config value ("skip" or "abort").
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", "skip":
		return SkipMalformed, nil
	case "abort":
		return AbortBatch, nil
	default:
		return SkipMalformed, fmt.Errorf("unknown failure policy %q", s)
	}
}

func (p FailurePolicy) String() string {
	if p == AbortBatch {
		return "abort"
	}
	return "skip"
}

// Normalizer decodes every PDU of a notification into DecodedMessage records, in order.
// It holds no per-call state and is safe for concurrent use.
type Normalizer struct {
	decoder  domain.PDUDecoder
	observer domain.Observer
	policy   FailurePolicy
}

// NewNormalizer wires a decoder and an observer. A nil observer is allowed.
func NewNormalizer(decoder domain.PDUDecoder, observer domain.Observer, policy FailurePolicy) *Normalizer {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Normalizer{decoder: decoder, observer: observer, policy: policy}
}

// Decode returns one record per decodable segment in input order. A notification without a
// bundle or without PDUs yields an empty, non-nil slice. Under AbortBatch the first failure
// is returned as a *domain.DecodeError together with a nil slice.
func (n *Normalizer) Decode(ctx context.Context, raw domain.RawNotification) ([]domain.DecodedMessage, error) {
	segments := raw.Segments()
	out := make([]domain.DecodedMessage, 0, len(segments))
	format := raw.PDUFormat()

	for i, seg := range segments {
		res := n.decoder.Decode(seg, format)
		if !res.OK() {
			derr := &domain.DecodeError{Index: i, Reason: failureReason(seg, res.Err), Err: res.Err}
			n.observer.SegmentFailed(ctx, derr)
			if n.policy == AbortBatch {
				return nil, derr
			}
			continue
		}
		n.observer.SegmentDecoded(ctx, i, res.Message)
		out = append(out, res.Message)
	}
	return out, nil
}

func failureReason(seg domain.Segment, err error) string {
	switch {
	case seg.Len() == 0:
		return "empty"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "unsupported_format"
	default:
		return "malformed"
	}
}
