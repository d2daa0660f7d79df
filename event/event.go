package event

import "encoding/json"

// IDNotAssigned is the registration ID carried by events that were synthesized
// on the client side rather than routed through the host bus.
const IDNotAssigned int64 = -1

// Event is a single delivery handed to a Handler.
//
// The JSON field names match the host's wire shape so an Event can be decoded
// straight out of an event frame.
type Event struct {
	// Name is the event name the subscription was registered under.
	Name string `json:"event"`

	// ID identifies the registration this delivery was routed to, or
	// IDNotAssigned for client-synthesized events.
	ID int64 `json:"id"`

	// WindowLabel names the window that emitted the event. It is empty for
	// events emitted globally.
	WindowLabel string `json:"windowLabel"`

	// Payload is the raw emitter-supplied payload, if any.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodePayload unmarshals the event payload into v. Events carrying no
// payload leave v untouched and return nil.
func (e Event) DecodePayload(v any) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil
	}
	return json.Unmarshal(e.Payload, v)
}
