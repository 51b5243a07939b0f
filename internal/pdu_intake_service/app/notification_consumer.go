package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

// Subscriber is the part of messagebroker.NATSClient the consumer needs.
type Subscriber interface {
	SubscribeToSubjectWithQueue(ctx context.Context, subject, queueGroup string, handler func(msg *nats.Msg)) error
}

// NotificationConsumer reads device notification envelopes from NATS and passes them to the Receiver.
type NotificationConsumer struct {
	subscriber Subscriber
	receiver   *Receiver
	logger     *slog.Logger
}

// NewNotificationConsumer creates a new NotificationConsumer.
func NewNotificationConsumer(subscriber Subscriber, receiver *Receiver, logger *slog.Logger) *NotificationConsumer {
	return &NotificationConsumer{
		subscriber: subscriber,
		receiver:   receiver,
		logger:     logger.With("component", "notification_consumer"),
	}
}

// StartConsuming subscribes to subject (e.g. "device.notifications.*") in queueGroup and blocks
// until ctx is cancelled or the subscription fails.
func (c *NotificationConsumer) StartConsuming(ctx context.Context, subject, queueGroup string) error {
	c.logger.InfoContext(ctx, "Starting NATS subscription", "subject", subject, "queue_group", queueGroup)
	err := c.subscriber.SubscribeToSubjectWithQueue(ctx, subject, queueGroup, func(msg *nats.Msg) {
		natsNotificationsReceivedCounter.WithLabelValues(subject).Inc()
		c.HandleMessage(ctx, msg)
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "NATS subscription failed", "error", err, "subject", subject)
		return err
	}
	c.logger.InfoContext(ctx, "NATS subscription ended", "subject", subject)
	return nil
}

// HandleMessage processes a single NATS message. Malformed envelopes are logged and dropped;
// there is nobody to reply to.
func (c *NotificationConsumer) HandleMessage(ctx context.Context, msg *nats.Msg) {
	logger := c.logger.With("nats_subject", msg.Subject)

	var env domain.NotificationEnvelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		logger.ErrorContext(ctx, "Failed to deserialize notification envelope", "error", err, "data_len", len(msg.Data))
		return
	}
	if env.DeviceID == "" {
		env.DeviceID = deviceIDFromSubject(msg.Subject)
	}

	raw, err := env.ToRawNotification()
	if err != nil {
		logger.ErrorContext(ctx, "Invalid PDU encoding in notification envelope", "error", err, "device_id", env.DeviceID)
		return
	}

	hctx := domain.WithDeviceID(ctx, env.DeviceID)
	if _, err := c.receiver.Handle(hctx, raw); err != nil {
		logger.ErrorContext(hctx, "Failed to handle notification", "error", err, "device_id", env.DeviceID)
	}
}

// deviceIDFromSubject takes the last token of "device.notifications.<device_id>".
func deviceIDFromSubject(subject string) string {
	parts := strings.Split(subject, ".")
	if len(parts) < 3 || parts[0] != "device" || parts[1] != "notifications" {
		return ""
	}
	id := parts[len(parts)-1]
	if id == "*" || id == ">" {
		return ""
	}
	return id
}
