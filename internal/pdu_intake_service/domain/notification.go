package domain

// ActionSMSReceived is the only broadcast action this service decodes.
const ActionSMSReceived = "android.provider.Telephony.SMS_RECEIVED"

// PDU encodings the platform can report in the notification extras.
const (
	Format3GPP  = "3gpp"
	Format3GPP2 = "3gpp2"
)

// Extras is the notification bundle. Only PDUs matters for decoding; Format tells the decoder
// which wire standard the PDUs follow.
type Extras struct {
	PDUs   []Segment
	Format string
}

// RawNotification is one delivered broadcast. Extras is nil when the event carried no bundle.
type RawNotification struct {
	Action string
	Extras *Extras
}

// Segments returns the PDU list, or nil when there is no bundle.
func (n RawNotification) Segments() []Segment {
	if n.Extras == nil {
		return nil
	}
	return n.Extras.PDUs
}

// PDUFormat returns the declared format, defaulting to 3gpp.
func (n RawNotification) PDUFormat() string {
	if n.Extras == nil || n.Extras.Format == "" {
		return Format3GPP
	}
	return n.Extras.Format
}
