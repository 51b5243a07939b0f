package messagebroker

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNATSClient_NoServer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := NewNATSClient("nats://127.0.0.1:1", logger, "test")
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestClose_NilConnection(t *testing.T) {
	c := &NATSClient{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	assert.NotPanics(t, c.Close)
}
