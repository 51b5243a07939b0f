package domain

import (
	"time"

	"github.com/google/uuid"
)

// InboxMessage is a decoded message as stored by the inbox repository.
type InboxMessage struct {
	ID         uuid.UUID `json:"id"`
	DeviceID   string    `json:"device_id,omitempty"`
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
	ReceivedAt int64     `json:"received_at"` // service-centre timestamp, epoch ms
	Position   int       `json:"position"`    // index in the delivered sequence, not the PDU index
	IngestedAt time.Time `json:"ingested_at"` // when this service stored it
}

// NewInboxMessage wraps a decoded record for storage with a fresh id.
func NewInboxMessage(deviceID string, position int, msg DecodedMessage) *InboxMessage {
	return &InboxMessage{
		ID:         uuid.New(),
		DeviceID:   deviceID,
		Sender:     msg.Sender,
		Body:       msg.Body,
		ReceivedAt: msg.ReceivedAt,
		Position:   position,
		IngestedAt: time.Now().UTC(),
	}
}

// Decoded returns the record in its wire form.
func (m *InboxMessage) Decoded() DecodedMessage {
	return DecodedMessage{Sender: m.Sender, Body: m.Body, ReceivedAt: m.ReceivedAt}
}
