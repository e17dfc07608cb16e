package event

const SerialSearchDestination string = "inventory_serial_search"

// SerialSearchMessage is the audit record emitted for every serial search.
// The observed code is represented only by a keyed digest; raw codes and
// seed material never appear on the wire.
type SerialSearchMessage struct {
	EventID    int64  `json:"event_id"`
	Outcome    string `json:"outcome"`
	Serial     string `json:"serial,omitempty"`
	Candidates int    `json:"candidates"`
	Skipped    int    `json:"skipped"`
	Window     int    `json:"window"`
	Filter     string `json:"filter"`
	OTPDigest  string `json:"otp_digest"`
	At         string `json:"at"`
}
