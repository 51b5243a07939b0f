package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	natsNotificationsReceivedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdu_intake",
			Name:      "nats_notifications_received_total",
			Help:      "Total number of NATS messages received carrying device notifications.",
		},
		[]string{"subject_pattern"}, // e.g., "device.notifications.*"
	)

	notificationsHandledCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdu_intake",
			Name:      "notifications_handled_total",
			Help:      "Total number of notifications handled, by outcome.",
		},
		[]string{"outcome"}, // "delivered", "empty", "ignored_action", "decode_aborted", "sink_error"
	)

	pduSegmentsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdu_intake",
			Name:      "pdu_segments_total",
			Help:      "Total number of PDU segments processed, by status and failure reason.",
		},
		[]string{"status", "reason"},
	)

	notificationHandlingDurationHist = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pdu_intake",
			Name:      "notification_handling_duration_seconds",
			Help:      "Duration of decoding and delivering one notification.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	inboxPurgedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pdu_intake",
			Name:      "inbox_purged_total",
			Help:      "Total number of inbox rows removed by retention.",
		},
	)
)
