package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

// Publisher is the part of messagebroker.NATSClient used for publishing.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// NATSSink publishes one DecodedEvent per message on a fixed subject.
type NATSSink struct {
	publisher Publisher
	subject   string
}

func NewNATSSink(publisher Publisher, subject string) *NATSSink {
	return &NATSSink{publisher: publisher, subject: subject}
}

func (s *NATSSink) Deliver(ctx context.Context, msgs []domain.DecodedMessage) error {
	for _, ev := range newEvents(ctx, msgs) {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal decoded event: %w", err)
		}
		if err := s.publisher.Publish(ctx, s.subject, data); err != nil {
			return err
		}
	}
	return nil
}
