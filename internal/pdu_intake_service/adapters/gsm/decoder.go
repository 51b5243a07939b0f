// Package gsm decodes 3GPP TS 23.040 SMS-DELIVER PDUs as handed over by the radio stack,
// that is with the service-centre address prefix still attached.
package gsm

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/warthog618/sms"
	"github.com/warthog618/sms/encoding/tpdu"
	"github.com/warthog618/sms/encoding/ucs2"

	"github.com/bharatscore/pdu_intake/internal/pdu_intake_service/domain"
)

var (
	errEmpty        = errors.New("empty pdu")
	errSMSCOverflow = errors.New("smsc length exceeds pdu")
)

// Decoder implements domain.PDUDecoder for the 3gpp format.
type Decoder struct{}

// NewDecoder returns a stateless GSM decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode strips the SMSC header, unmarshals the TPDU and decodes its user data.
func (d *Decoder) Decode(seg domain.Segment, format string) domain.DecodeResult {
	if format != "" && format != domain.Format3GPP {
		return domain.Failed(fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format))
	}

	t, err := unmarshal(seg.Bytes())
	if err != nil {
		return domain.Failed(err)
	}

	body, err := decodeBody(t)
	if err != nil {
		return domain.Failed(fmt.Errorf("decode user data: %w", err))
	}

	return domain.Decoded(t.OA.Number(), body, t.SCTS.UnixMilli())
}

// decodeBody renders the user data of a single segment as text.
// 8-bit data is binary (WAP push, port addressed payloads) and is returned as upper-case hex.
// A UCS-2 segment ending in the first half of a surrogate pair, which happens when a
// concatenated message splits an emoji, keeps its decoded prefix followed by U+FFFD.
func decodeBody(t *tpdu.TPDU) (string, error) {
	alpha, err := t.Alphabet()
	if err != nil {
		return "", err
	}

	switch alpha {
	case tpdu.Alpha8Bit:
		return strings.ToUpper(hex.EncodeToString(t.UD)), nil
	case tpdu.AlphaUCS2:
		runes, err := ucs2.Decode(t.UD)
		var dangling ucs2.ErrDanglingSurrogate
		if errors.As(err, &dangling) {
			runes, err = ucs2.Decode(t.UD[:len(t.UD)-len(dangling)])
			if err != nil {
				return "", err
			}
			return string(runes) + string(utf8.RuneError), nil
		}
		if err != nil {
			return "", err
		}
		return string(runes), nil
	default:
		body, err := sms.Decode([]*tpdu.TPDU{t})
		if err != nil {
			return "", err
		}
		return string(body), nil
	}
}

func unmarshal(raw []byte) (*tpdu.TPDU, error) {
	tp, err := StripSMSC(raw)
	if err != nil {
		return nil, err
	}
	t, err := sms.Unmarshal(tp) // defaults to MT (SMS-DELIVER)
	if err != nil {
		return nil, fmt.Errorf("unmarshal tpdu: %w", err)
	}
	return t, nil
}

// StripSMSC removes the leading service-centre address (length octet plus that many octets)
// and returns the TPDU.
func StripSMSC(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, errEmpty
	}
	n := int(raw[0])
	if 1+n >= len(raw) {
		return nil, errSMSCOverflow
	}
	return raw[1+n:], nil
}
