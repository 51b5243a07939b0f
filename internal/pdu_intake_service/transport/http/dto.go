package http

import "github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"

// NotificationAcceptedResponse is returned by POST /v1/notifications.
type NotificationAcceptedResponse struct {
	Accepted int                     `json:"accepted"`
	Messages []domain.DecodedMessage `json:"messages"`
}

// InboxListRequest holds the query parameters of GET /v1/inbox and GET /v1/inbox/count.
type InboxListRequest struct {
	DeviceID string `validate:"omitempty,max=128"`
	Address  string `validate:"omitempty,max=64"`
	Body     string `validate:"omitempty,max=160"`
	MaxCount int    `validate:"gte=0,lte=1000"`
	Since    int64  `validate:"gte=0"`
}

func (r InboxListRequest) filter() domain.InboxFilter {
	return domain.InboxFilter{
		DeviceID: r.DeviceID,
		Address:  r.Address,
		Keyword:  r.Body,
		Since:    r.Since,
		MaxCount: r.MaxCount,
	}
}

// InboxListResponse is returned by GET /v1/inbox.
type InboxListResponse struct {
	Messages []*domain.InboxMessage `json:"messages"`
	Count    int                    `json:"count"`
}

// InboxCountResponse is returned by GET /v1/inbox/count.
type InboxCountResponse struct {
	Total int64 `json:"total"`
}
