package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

// InboxQuerier is implemented by app.InboxService.
type InboxQuerier interface {
	Recent(ctx context.Context, f domain.InboxFilter) ([]*domain.InboxMessage, error)
	Count(ctx context.Context, f domain.InboxFilter) (int64, error)
}

type InboxHandler struct {
	inbox    InboxQuerier
	logger   *slog.Logger
	validate *validator.Validate
}

func NewInboxHandler(inbox InboxQuerier, logger *slog.Logger, validate *validator.Validate) *InboxHandler {
	return &InboxHandler{
		inbox:    inbox,
		logger:   logger.With("handler", "inbox"),
		validate: validate,
	}
}

// ListMessages handles GET /v1/inbox.
func (h *InboxHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	req, ok := h.parseQuery(w, r, logger)
	if !ok {
		return
	}

	msgs, err := h.inbox.Recent(ctx, req.filter())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list inbox messages", "error", err)
		http.Error(w, "Failed to list messages", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []*domain.InboxMessage{}
	}
	writeJSON(w, http.StatusOK, InboxListResponse{Messages: msgs, Count: len(msgs)})
}

// CountMessages handles GET /v1/inbox/count.
func (h *InboxHandler) CountMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx))

	req, ok := h.parseQuery(w, r, logger)
	if !ok {
		return
	}

	total, err := h.inbox.Count(ctx, req.filter())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to count inbox messages", "error", err)
		http.Error(w, "Failed to count messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, InboxCountResponse{Total: total})
}

func (h *InboxHandler) parseQuery(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (InboxListRequest, bool) {
	q := r.URL.Query()
	req := InboxListRequest{
		DeviceID: q.Get("device_id"),
		Address:  q.Get("address"),
		Body:     q.Get("body"),
	}

	if v := q.Get("max_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid max_count parameter", http.StatusBadRequest)
			return req, false
		}
		req.MaxCount = n
	}
	if v := q.Get("since"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "Invalid since parameter", http.StatusBadRequest)
			return req, false
		}
		req.Since = n
	}

	if err := h.validate.StructCtx(r.Context(), req); err != nil {
		logger.WarnContext(r.Context(), "Inbox query validation failed", "error", err)
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}
