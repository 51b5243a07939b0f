package sink

import (
	"context"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

// RepositorySink stores decoded messages in the inbox.
type RepositorySink struct {
	repo domain.InboxRepository
}

func NewRepositorySink(repo domain.InboxRepository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

func (s *RepositorySink) Deliver(ctx context.Context, msgs []domain.DecodedMessage) error {
	deviceID := domain.DeviceIDFrom(ctx)
	rows := make([]*domain.InboxMessage, len(msgs))
	for i, m := range msgs {
		rows[i] = domain.NewInboxMessage(deviceID, i, m)
	}
	return s.repo.CreateBatch(ctx, rows)
}
