// Package sink holds the downstream consumers of decoded messages.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

// DecodedEvent is the wire form published to brokers, one per decoded message.
// Position is the index in the delivered sequence, not the PDU index in the notification:
// segments dropped by the skip policy leave no gap. Use sender and received_at to line parts up.
type DecodedEvent struct {
	EventID  uuid.UUID `json:"event_id"`
	DeviceID string    `json:"device_id,omitempty"`
	Position int       `json:"position"` // index in the delivered sequence
	domain.DecodedMessage
}

func newEvents(ctx context.Context, msgs []domain.DecodedMessage) []DecodedEvent {
	deviceID := domain.DeviceIDFrom(ctx)
	events := make([]DecodedEvent, len(msgs))
	for i, m := range msgs {
		events[i] = DecodedEvent{EventID: uuid.New(), DeviceID: deviceID, Position: i, DecodedMessage: m}
	}
	return events
}

// Named tags a sink with a name for error reporting.
type Named struct {
	Name string
	domain.Sink
}

// Fanout delivers to every sink in order. All sinks are attempted; failures are joined.
type Fanout []Named

func (f Fanout) Deliver(ctx context.Context, msgs []domain.DecodedMessage) error {
	var errs []error
	for _, s := range f {
		// each sink gets its own copy
		cp := append([]domain.DecodedMessage(nil), msgs...)
		if err := s.Deliver(ctx, cp); err != nil {
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}
