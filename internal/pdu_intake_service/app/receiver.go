package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

// Receiver is the host-facing entry point: it filters on the broadcast action, runs the
// Normalizer and hands the records to the sink.
type Receiver struct {
	normalizer *Normalizer
	sink       domain.Sink
	logger     *slog.Logger
}

// NewReceiver creates a Receiver. sink may be nil when only the returned records are wanted.
func NewReceiver(normalizer *Normalizer, sink domain.Sink, logger *slog.Logger) *Receiver {
	return &Receiver{normalizer: normalizer, sink: sink, logger: logger}
}

// Handle processes one notification and returns the records it produced. Notifications for
// other actions are ignored without decoding. The sink is not called for an empty result.
func (r *Receiver) Handle(ctx context.Context, raw domain.RawNotification) ([]domain.DecodedMessage, error) {
	start := time.Now()
	defer func() { notificationHandlingDurationHist.Observe(time.Since(start).Seconds()) }()

	if raw.Action != domain.ActionSMSReceived {
		r.logger.DebugContext(ctx, "Ignoring notification with unexpected action", "action", raw.Action)
		notificationsHandledCounter.WithLabelValues("ignored_action").Inc()
		return nil, nil
	}

	msgs, err := r.normalizer.Decode(ctx, raw)
	if err != nil {
		notificationsHandledCounter.WithLabelValues("decode_aborted").Inc()
		return nil, err
	}
	if len(msgs) == 0 {
		notificationsHandledCounter.WithLabelValues("empty").Inc()
		return msgs, nil
	}

	if r.sink != nil {
		// The sink gets its own copy so callers may keep using msgs.
		delivered := append([]domain.DecodedMessage(nil), msgs...)
		if err := r.sink.Deliver(ctx, delivered); err != nil {
			notificationsHandledCounter.WithLabelValues("sink_error").Inc()
			return msgs, fmt.Errorf("deliver %d decoded messages: %w", len(msgs), err)
		}
	}

	notificationsHandledCounter.WithLabelValues("delivered").Inc()
	r.logger.InfoContext(ctx, "Notification decoded and delivered",
		"device_id", domain.DeviceIDFrom(ctx),
		"segments", len(raw.Segments()),
		"messages", len(msgs),
	)
	return msgs, nil
}
