package entity

import (
	"context"

	"github.com/rxwen/tda/terncy"
	"github.com/shimmeringbee/logwrap"
)

// Button press event types, indexed by click count.
const (
	EventLongPress      = "long_press"
	EventSinglePress    = "single_press"
	EventDoublePress    = "double_press"
	EventTriplePress    = "triple_press"
	EventQuadruplePress = "quadruple_press"
	EventQuintuplePress = "quintuple_press"
	EventSextuplePress  = "sextuple_press"
	EventSeptuplePress  = "septuple_press"
	EventOctuplePress   = "octuple_press"
	EventNonuplePress   = "nonuple_press"
	EventRotation       = "rotation"
)

// ButtonEvents is ordered so that index n is the event for n clicks. Index
// zero holds long press.
var ButtonEvents = []string{
	EventLongPress,
	EventSinglePress,
	EventDoublePress,
	EventTriplePress,
	EventQuadruplePress,
	EventQuintuplePress,
	EventSextuplePress,
	EventSeptuplePress,
	EventOctuplePress,
	EventNonuplePress,
}

// DialEvents extends the button set with rotation.
var DialEvents = append(append([]string{}, ButtonEvents...), EventRotation)

// Button surfaces stateless press events. It holds no attribute state,
// UpdateState is a no-op.
type Button struct {
	base

	eventTypes []string
}

var _ Entity = (*Button)(nil)
var _ EventCapable = (*Button)(nil)

func NewButton(api API, eid string, d Description) *Button {
	eventTypes := ButtonEvents

	if o, ok := d.Options.(EventOptions); ok && len(o.EventTypes) > 0 {
		eventTypes = o.EventTypes
	}

	return &Button{base: newBase(api, eid, d), eventTypes: eventTypes}
}

func (b *Button) UpdateState(attrs []terncy.AttrValue) {}

func (b *Button) SetAvailable(available bool) {
	b.m.Lock()
	b.available = available
	b.m.Unlock()
}

func (b *Button) EventTypes() []string {
	return b.eventTypes
}

func (b *Button) TriggerEvent(eventType string, data map[string]any) {
	known := false
	for _, t := range b.eventTypes {
		if t == eventType {
			known = true
			break
		}
	}

	if !known {
		b.api.Logger().LogDebug(context.Background(), "Ignoring event type not surfaced by entity.",
			logwrap.Datum("eid", b.eid), logwrap.Datum("eventType", eventType))
		return
	}

	b.api.SendEvent(ButtonEvent{EID: b.eid, UniqueID: b.uniqueID, EventType: eventType, Data: data})
}
