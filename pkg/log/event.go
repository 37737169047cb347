package log

import "time"

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the component connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates stanza flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// RemoteAddr is the server address (host:port).
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// Domain is the component's serving domain.
	Domain string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Stanza      *StanzaEvent      `cbor:"8,keyasint,omitempty"`  // Stream layer (decoded stanza)
	StateChange *StateChangeEvent `cbor:"9,keyasint,omitempty"`  // Connection state
	Error       *ErrorEventData   `cbor:"10,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of stanza flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming stanza.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing stanza.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerStream is the component stream layer (stanzas on the wire).
	LayerStream Layer = 0
	// LayerService is the browse service layer.
	LayerService Layer = 1
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerStream:
		return "STREAM"
	case LayerService:
		return "SERVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryStanza indicates a protocol stanza (request/result/error).
	CategoryStanza Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryStanza:
		return "STANZA"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StanzaEvent captures one stanza crossing the component stream.
type StanzaEvent struct {
	// ID is the stanza id attribute.
	ID string `cbor:"1,keyasint,omitempty"`

	// Type is the stanza type attribute (get, set, result, error).
	Type string `cbor:"2,keyasint,omitempty"`

	// From is the sender address.
	From string `cbor:"3,keyasint,omitempty"`

	// To is the recipient address.
	To string `cbor:"4,keyasint,omitempty"`

	// Namespace is the payload namespace, if recognized.
	Namespace string `cbor:"5,keyasint,omitempty"`
}

// StateChangeEvent captures a connection state transition.
type StateChangeEvent struct {
	// From is the previous state.
	From string `cbor:"1,keyasint"`

	// To is the new state.
	To string `cbor:"2,keyasint"`

	// Reason describes what triggered the transition.
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures an error at any layer.
type ErrorEventData struct {
	// Message is the error text.
	Message string `cbor:"1,keyasint"`

	// Context names the operation that failed.
	Context string `cbor:"2,keyasint,omitempty"`
}
