package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

const maxNotificationBodyBytes = 1 << 20

// NotificationReceiver is implemented by app.Receiver.
type NotificationReceiver interface {
	Handle(ctx context.Context, raw domain.RawNotification) ([]domain.DecodedMessage, error)
}

type NotificationHandler struct {
	receiver NotificationReceiver
	logger   *slog.Logger
	validate *validator.Validate
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(receiver NotificationReceiver, logger *slog.Logger, validate *validator.Validate) *NotificationHandler {
	return &NotificationHandler{
		receiver: receiver,
		logger:   logger.With("handler", "notification"),
		validate: validate,
	}
}

// HandleNotification accepts a notification envelope, decodes its PDUs synchronously and
// returns the decoded records.
func (h *NotificationHandler) HandleNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With("request_id", chi_middleware.GetReqID(ctx), "auth_subject", SubjectFromContext(ctx))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxNotificationBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.WarnContext(ctx, "Notification body too large", "limit_bytes", tooLarge.Limit)
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		logger.ErrorContext(ctx, "Failed to read notification body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	var req domain.NotificationEnvelope
	if err := json.Unmarshal(body, &req); err != nil {
		logger.WarnContext(ctx, "Failed to decode notification JSON", "error", err)
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.StructCtx(ctx, req); err != nil {
		logger.WarnContext(ctx, "Notification validation failed", "error", err)
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	raw, err := req.ToRawNotification()
	if err != nil {
		logger.WarnContext(ctx, "Notification carries undecodable PDU encoding", "error", err)
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.DeviceID != "" {
		ctx = domain.WithDeviceID(ctx, req.DeviceID)
		logger = logger.With("device_id", req.DeviceID)
	}

	msgs, err := h.receiver.Handle(ctx, raw)
	if err != nil {
		var decodeErr *domain.DecodeError
		if errors.As(err, &decodeErr) {
			logger.WarnContext(ctx, "Notification rejected by decode policy", "error", err)
			http.Error(w, "PDU decode failed: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		logger.ErrorContext(ctx, "Failed to deliver decoded messages", "error", err)
		http.Error(w, "Failed to deliver decoded messages", http.StatusBadGateway)
		return
	}
	if msgs == nil {
		msgs = []domain.DecodedMessage{}
	}

	logger.InfoContext(ctx, "Notification accepted", "action", req.Action, "messages", len(msgs))
	writeJSON(w, http.StatusAccepted, NotificationAcceptedResponse{Accepted: len(msgs), Messages: msgs})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
