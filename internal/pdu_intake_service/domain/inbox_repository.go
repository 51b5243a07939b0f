package domain

import (
	"context"
	"time"
)

// InboxFilter narrows inbox queries. Empty fields do not filter.
type InboxFilter struct {
	DeviceID string
	Address  string // exact sender match
	Keyword  string // case-insensitive substring of the body
	Since    int64  // ReceivedAt >= Since, epoch ms; 0 disables
	MaxCount int
}

// InboxRepository stores decoded messages (inbox_messages table).
type InboxRepository interface {
	// CreateBatch inserts all messages in one transaction.
	CreateBatch(ctx context.Context, msgs []*InboxMessage) error
	// List returns matching messages, most recently received first.
	List(ctx context.Context, filter InboxFilter) ([]*InboxMessage, error)
	Count(ctx context.Context, filter InboxFilter) (int64, error)
	// DeleteOlderThan removes rows ingested before cutoff and reports how many went.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
