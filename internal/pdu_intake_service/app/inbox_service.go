package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

const (
	DefaultInboxMaxCount = 100
	MaxInboxMaxCount     = 1000
)

// InboxService answers queries over stored messages and applies retention.
type InboxService struct {
	repo   domain.InboxRepository
	logger *slog.Logger
}

func NewInboxService(repo domain.InboxRepository, logger *slog.Logger) *InboxService {
	return &InboxService{repo: repo, logger: logger}
}

// normalize applies the default and upper bound to MaxCount and trims text filters.
func normalize(f domain.InboxFilter) domain.InboxFilter {
	f.Address = strings.TrimSpace(f.Address)
	f.Keyword = strings.TrimSpace(f.Keyword)
	switch {
	case f.MaxCount <= 0:
		f.MaxCount = DefaultInboxMaxCount
	case f.MaxCount > MaxInboxMaxCount:
		f.MaxCount = MaxInboxMaxCount
	}
	return f
}

// Recent lists matching messages, newest first.
func (s *InboxService) Recent(ctx context.Context, f domain.InboxFilter) ([]*domain.InboxMessage, error) {
	f = normalize(f)
	msgs, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	return msgs, nil
}

// Count returns how many stored messages match. MaxCount is ignored.
func (s *InboxService) Count(ctx context.Context, f domain.InboxFilter) (int64, error) {
	n, err := s.repo.Count(ctx, normalize(f))
	if err != nil {
		return 0, fmt.Errorf("count inbox: %w", err)
	}
	return n, nil
}

// Purge deletes messages ingested more than retention ago.
func (s *InboxService) Purge(ctx context.Context, now time.Time, retention time.Duration) (int64, error) {
	n, err := s.repo.DeleteOlderThan(ctx, now.Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("purge inbox: %w", err)
	}
	inboxPurgedCounter.Add(float64(n))
	if n > 0 {
		s.logger.InfoContext(ctx, "Purged expired inbox messages", "count", n, "retention", retention.String())
	}
	return n, nil
}

// RunRetention purges on every tick until ctx is done. Errors are logged, not fatal.
func (s *InboxService) RunRetention(ctx context.Context, interval, retention time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if _, err := s.Purge(ctx, now, retention); err != nil {
				s.logger.ErrorContext(ctx, "Inbox retention sweep failed", "error", err)
			}
		}
	}
}
