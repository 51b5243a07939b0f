package domain

import (
	"encoding/base64"
	"fmt"
)

// NotificationEnvelope is the JSON form of a RawNotification as forwarded by device bridges,
// over NATS (device.notifications.<device_id>) or HTTP.
type NotificationEnvelope struct {
	Action   string          `json:"action" validate:"required"`
	DeviceID string          `json:"device_id,omitempty" validate:"omitempty,max=128"`
	Extras   *EnvelopeExtras `json:"extras,omitempty"`
}

// EnvelopeExtras carries PDUs as base64 (pdus) and/or hex (pdus_hex). Base64 entries come first.
type EnvelopeExtras struct {
	Format  string   `json:"format,omitempty" validate:"omitempty,oneof=3gpp 3gpp2"`
	PDUs    []string `json:"pdus,omitempty"`
	PDUsHex []string `json:"pdus_hex,omitempty" validate:"omitempty,dive,hexadecimal"`
}

// ToRawNotification converts the envelope, rejecting PDUs that are not valid base64 or hex.
// A missing extras object or missing PDU lists are preserved as absence.
func (e NotificationEnvelope) ToRawNotification() (RawNotification, error) {
	n := RawNotification{Action: e.Action}
	if e.Extras == nil {
		return n, nil
	}

	extras := &Extras{Format: e.Extras.Format}
	if e.Extras.PDUs == nil && e.Extras.PDUsHex == nil {
		n.Extras = extras
		return n, nil
	}

	extras.PDUs = make([]Segment, 0, len(e.Extras.PDUs)+len(e.Extras.PDUsHex))
	for i, s := range e.Extras.PDUs {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return RawNotification{}, fmt.Errorf("pdus[%d]: invalid base64: %w", i, err)
		}
		extras.PDUs = append(extras.PDUs, NewSegment(b))
	}
	for i, s := range e.Extras.PDUsHex {
		seg, err := SegmentFromHex(s)
		if err != nil {
			return RawNotification{}, fmt.Errorf("pdus_hex[%d]: invalid hex: %w", i, err)
		}
		extras.PDUs = append(extras.PDUs, seg)
	}
	n.Extras = extras
	return n, nil
}
