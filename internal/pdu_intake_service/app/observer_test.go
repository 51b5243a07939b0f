package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

func TestLogObserver_SegmentDecoded(t *testing.T) {
	ctx := domain.WithDeviceID(context.Background(), "dev-7")

	t.Run("EmittedAtInfoUnderDefaultLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		NewLogObserver(logger, slog.LevelInfo).SegmentDecoded(ctx, 2, msgA)

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "INFO", rec["level"])
		assert.Equal(t, "SMS received", rec["msg"])
		assert.Equal(t, msgA.Sender, rec["from"])
		assert.Equal(t, msgA.Body, rec["message"])
		assert.Equal(t, float64(2), rec["segment_index"])
		assert.Equal(t, "dev-7", rec["device_id"])
	})

	t.Run("DebugLevelSuppressedAtInfo", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		NewLogObserver(logger, slog.LevelDebug).SegmentDecoded(ctx, 0, msgA)
		assert.Zero(t, buf.Len())
	})
}

func TestLogObserver_SegmentFailed(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	NewLogObserver(logger, slog.LevelDebug).SegmentFailed(context.Background(),
		&domain.DecodeError{Index: 1, Reason: "malformed", Err: errors.New("short pdu")})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "malformed", rec["reason"])
	assert.Equal(t, float64(1), rec["segment_index"])
}
