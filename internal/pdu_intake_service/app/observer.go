package app

import (
	"context"
	"log/slog"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

// NopObserver discards diagnostics.
type NopObserver struct{}

func (NopObserver) SegmentDecoded(context.Context, int, domain.DecodedMessage) {}
func (NopObserver) SegmentFailed(context.Context, *domain.DecodeError)         {}

// LogObserver writes one line per decoded PDU (sender, body, timestamp) at a configurable
// level and one warning per failure.
type LogObserver struct {
	logger *slog.Logger
	level  slog.Level
}

func NewLogObserver(logger *slog.Logger, level slog.Level) *LogObserver {
	return &LogObserver{logger: logger.With("component", "pdu_normalizer"), level: level}
}

func (o *LogObserver) SegmentDecoded(ctx context.Context, index int, msg domain.DecodedMessage) {
	o.logger.Log(ctx, o.level, "SMS received",
		"segment_index", index,
		"device_id", domain.DeviceIDFrom(ctx),
		"from", msg.Sender,
		"message", msg.Body,
		"timestamp", msg.ReceivedAt,
	)
}

func (o *LogObserver) SegmentFailed(ctx context.Context, err *domain.DecodeError) {
	o.logger.WarnContext(ctx, "Failed to decode PDU",
		"segment_index", err.Index,
		"device_id", domain.DeviceIDFrom(ctx),
		"reason", err.Reason,
		"error", err.Err,
	)
}

// MetricsObserver counts segment outcomes in Prometheus.
type MetricsObserver struct{}

func (MetricsObserver) SegmentDecoded(context.Context, int, domain.DecodedMessage) {
	pduSegmentsCounter.WithLabelValues("decoded", "").Inc()
}

func (MetricsObserver) SegmentFailed(_ context.Context, err *domain.DecodeError) {
	pduSegmentsCounter.WithLabelValues("failed", err.Reason).Inc()
}

// Observers fans diagnostics out to several observers in order.
type Observers []domain.Observer

func (obs Observers) SegmentDecoded(ctx context.Context, index int, msg domain.DecodedMessage) {
	for _, o := range obs {
		o.SegmentDecoded(ctx, index, msg)
	}
}

func (obs Observers) SegmentFailed(ctx context.Context, err *domain.DecodeError) {
	for _, o := range obs {
		o.SegmentFailed(ctx, err)
	}
}
