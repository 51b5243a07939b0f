package domain

import (
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment_IsImmutable(t *testing.T) {
	raw := []byte{0x07, 0x91, 0x19}
	seg := NewSegment(raw)
	raw[0] = 0xFF
	assert.Equal(t, byte(0x07), seg.Bytes()[0], "mutating the source must not leak into the segment")

	out := seg.Bytes()
	out[1] = 0x00
	assert.Equal(t, byte(0x91), seg.Bytes()[1], "mutating the returned copy must not leak back")
	assert.Equal(t, 3, seg.Len())
	assert.Equal(t, "079119", seg.Hex())
}

func TestSegmentFromHex(t *testing.T) {
	seg, err := SegmentFromHex("0a0B")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x0b}, seg.Bytes())

	_, err = SegmentFromHex("zz")
	assert.Error(t, err)
}

func TestRawNotification_Accessors(t *testing.T) {
	var n RawNotification
	assert.Nil(t, n.Segments())
	assert.Equal(t, Format3GPP, n.PDUFormat())

	n.Extras = &Extras{Format: Format3GPP2, PDUs: []Segment{NewSegment([]byte{1})}}
	assert.Len(t, n.Segments(), 1)
	assert.Equal(t, Format3GPP2, n.PDUFormat())
}

func TestNotificationEnvelope_ToRawNotification(t *testing.T) {
	t.Run("NoExtras", func(t *testing.T) {
		n, err := NotificationEnvelope{Action: ActionSMSReceived}.ToRawNotification()
		require.NoError(t, err)
		assert.Nil(t, n.Extras)
		assert.Nil(t, n.Segments())
	})

	t.Run("ExtrasWithoutPDUs", func(t *testing.T) {
		n, err := NotificationEnvelope{Action: ActionSMSReceived, Extras: &EnvelopeExtras{Format: "3gpp"}}.ToRawNotification()
		require.NoError(t, err)
		require.NotNil(t, n.Extras)
		assert.Nil(t, n.Segments())
	})

	t.Run("Base64ThenHexInOrder", func(t *testing.T) {
		env := NotificationEnvelope{
			Action: ActionSMSReceived,
			Extras: &EnvelopeExtras{
				PDUs:    []string{base64.StdEncoding.EncodeToString([]byte{0xA1}), base64.StdEncoding.EncodeToString([]byte{0xA2})},
				PDUsHex: []string{"a3"},
			},
		}
		n, err := env.ToRawNotification()
		require.NoError(t, err)
		segs := n.Segments()
		require.Len(t, segs, 3)
		assert.Equal(t, []byte{0xA1}, segs[0].Bytes())
		assert.Equal(t, []byte{0xA2}, segs[1].Bytes())
		assert.Equal(t, []byte{0xA3}, segs[2].Bytes())
	})

	t.Run("InvalidBase64", func(t *testing.T) {
		_, err := NotificationEnvelope{Action: ActionSMSReceived, Extras: &EnvelopeExtras{PDUs: []string{"!!"}}}.ToRawNotification()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pdus[0]")
	})

	t.Run("InvalidHex", func(t *testing.T) {
		_, err := NotificationEnvelope{Action: ActionSMSReceived, Extras: &EnvelopeExtras{PDUsHex: []string{"abc"}}}.ToRawNotification()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pdus_hex[0]")
	})
}

func TestDecodeError_Unwrap(t *testing.T) {
	err := error(&DecodeError{Index: 2, Reason: "malformed", Err: io.ErrUnexpectedEOF})
	assert.True(t, errors.Is(err, ErrDecodeFailure))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, "segment 2: malformed: unexpected EOF", err.Error())

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 2, de.Index)
}

func TestDecodeResult(t *testing.T) {
	ok := Decoded("+91", "hi", 5)
	assert.True(t, ok.OK())
	assert.Equal(t, DecodedMessage{Sender: "+91", Body: "hi", ReceivedAt: 5}, ok.Message)

	bad := Failed(io.EOF)
	assert.False(t, bad.OK())
}

func TestNewInboxMessage(t *testing.T) {
	msg := DecodedMessage{Sender: "+911234567890", Body: "OTP is 482193", ReceivedAt: 1700000000000}
	im := NewInboxMessage("dev-1", 1, msg)
	assert.NotEqual(t, uuid.Nil, im.ID)
	assert.Equal(t, "dev-1", im.DeviceID)
	assert.Equal(t, 1, im.Position)
	assert.Equal(t, msg, im.Decoded())
	assert.False(t, im.IngestedAt.IsZero())
}
