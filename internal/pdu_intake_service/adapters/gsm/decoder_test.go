package gsm

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

// SMS-DELIVER, SMSC +919845087001, OA +911234567890, GSM 7-bit, SCTS 2023-11-14 22:13:20 +00.
const otpPDU = "0791198954800710040C911921436587090000321141223102000D4F2A14949E836838592C3703"

// Same SMSC, OA +919876543210, "Rs 500 credited", one second later.
const creditPDU = "0791198954800710040C911989674523010000321141223112000FD239A8068381C6F232394D2F9301"

// Bank short code sender, alphanumeric OA "HDFCBK", GSM 7-bit "Txn OK".
const alphanumericPDU = "0791198954800710040BD048A271285C020000321141223102000654BC1BF45C02"

// UCS-2 body "Rs 500" with the rupee sign, from +911234567890.
const ucs2PDU = "0791198954800710040C911921436587090008321141223102000E00520073002020B9003500300030"

// Part 1 of 2 (concat ref 0x2A), UCS-2 "A" followed by the high half of a surrogate pair.
const danglingSurrogatePDU = "0791198954800710440C911921436587090008321141223102000A0500032A02010041D83D"

// 8-bit data, UD FF 00 41.
const binaryPDU = "0791198954800710040C9119214365870900043211412231020003FF0041"

// Part 1 of 2 (concat ref 0x2A), GSM 7-bit "Your OTP is 48" from "HDFCBK".
const concatPartPDU = "0791198954800710440BD048A271285C02000032114122310200150500032A0201B2EFBA1CF4A44241E939888603"

func mustSegment(t *testing.T, h string) domain.Segment {
	t.Helper()
	seg, err := domain.SegmentFromHex(h)
	require.NoError(t, err)
	return seg
}

func TestDecoder_Decode(t *testing.T) {
	d := NewDecoder()

	t.Run("OTPMessage", func(t *testing.T) {
		res := d.Decode(mustSegment(t, otpPDU), domain.Format3GPP)
		require.True(t, res.OK(), "decode error: %v", res.Err)
		assert.Equal(t, "+911234567890", res.Message.Sender)
		assert.Equal(t, "OTP is 482193", res.Message.Body)
		assert.Equal(t, int64(1700000000000), res.Message.ReceivedAt)
	})

	t.Run("EmptyFormatMeans3GPP", func(t *testing.T) {
		res := d.Decode(mustSegment(t, creditPDU), "")
		require.True(t, res.OK(), "decode error: %v", res.Err)
		assert.Equal(t, "+919876543210", res.Message.Sender)
		assert.Equal(t, "Rs 500 credited", res.Message.Body)
		assert.Equal(t, int64(1700000001000), res.Message.ReceivedAt)
	})

	t.Run("3GPP2Unsupported", func(t *testing.T) {
		res := d.Decode(mustSegment(t, otpPDU), domain.Format3GPP2)
		require.False(t, res.OK())
		assert.True(t, errors.Is(res.Err, domain.ErrUnsupportedFormat))
	})

	t.Run("Empty", func(t *testing.T) {
		res := d.Decode(domain.NewSegment(nil), domain.Format3GPP)
		assert.ErrorIs(t, res.Err, errEmpty)
	})

	t.Run("Truncated", func(t *testing.T) {
		res := d.Decode(mustSegment(t, otpPDU[:30]), domain.Format3GPP)
		assert.False(t, res.OK())
	})
}

func TestDecoder_DecodeAlphabetsAndSenders(t *testing.T) {
	d := NewDecoder()

	testCases := []struct {
		name   string
		pdu    string
		sender string
		body   string
	}{
		{name: "AlphanumericSender", pdu: alphanumericPDU, sender: "HDFCBK", body: "Txn OK"},
		{name: "UCS2", pdu: ucs2PDU, sender: "+911234567890", body: "Rs \u20b9500"},
		{name: "UCS2DanglingSurrogate", pdu: danglingSurrogatePDU, sender: "+911234567890", body: "A\uFFFD"},
		{name: "EightBitAsHex", pdu: binaryPDU, sender: "+911234567890", body: "FF0041"},
		{name: "ConcatenatedPart", pdu: concatPartPDU, sender: "HDFCBK", body: "Your OTP is 48"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := d.Decode(mustSegment(t, tc.pdu), domain.Format3GPP)
			require.True(t, res.OK(), "decode error: %v", res.Err)
			assert.Equal(t, tc.sender, res.Message.Sender)
			assert.Equal(t, tc.body, res.Message.Body)
			assert.True(t, utf8.ValidString(res.Message.Body))
			assert.NotContains(t, res.Message.Body, "\x00")
			assert.Equal(t, int64(1700000000000), res.Message.ReceivedAt)
		})
	}
}

func TestStripSMSC(t *testing.T) {
	tp, err := StripSMSC([]byte{0x00, 0x04, 0x0C})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x0C}, tp)

	_, err = StripSMSC([]byte{0x07, 0x91, 0x19})
	assert.ErrorIs(t, err, errSMSCOverflow)

	_, err = StripSMSC(nil)
	assert.ErrorIs(t, err, errEmpty)
}
