package entity

import (
	"context"

	"github.com/rxwen/tda/terncy"
)

// Switch attribute keys.
const (
	AttrOn                  = "on"
	AttrPureInput           = "pureInput"
	AttrDisableRelay        = "disableRelay"
	AttrDisabledRelayStatus = "disabledRelayStatus"
)

// OnOff is the command surface of switch-like entities.
type OnOff interface {
	TurnOn(ctx context.Context) error
	TurnOff(ctx context.Context) error
}

// Switch is an on/off entity driven by a single attribute. InvertState
// swaps the wire values, scene switches and some relays report inverted.
type Switch struct {
	base

	valueAttr string
	invert    bool
	on        bool

	// gate further restricts availability, read under the state lock.
	// Nil means no restriction.
	gate func() bool
}

var _ Entity = (*Switch)(nil)
var _ OnOff = (*Switch)(nil)

func NewSwitch(api API, eid string, d Description) *Switch {
	valueAttr := AttrOn
	invert := false

	if o, ok := d.Options.(SwitchOptions); ok {
		if o.ValueAttr != "" {
			valueAttr = o.ValueAttr
		}
		invert = o.InvertState
	}

	return &Switch{base: newBase(api, eid, d), valueAttr: valueAttr, invert: invert}
}

func (s *Switch) onValue() int64 {
	if s.invert {
		return 0
	}
	return 1
}

func (s *Switch) offValue() int64 {
	if s.invert {
		return 1
	}
	return 0
}

func (s *Switch) UpdateState(attrs []terncy.AttrValue) {
	s.m.Lock()
	if v, ok := terncy.GetAttrValue(attrs, s.valueAttr); ok {
		s.on = v == s.onValue()
	}
	s.m.Unlock()

	s.publishState()
}

func (s *Switch) SetAvailable(available bool) {
	s.m.Lock()
	s.available = available
	s.m.Unlock()

	s.publishState()
}

func (s *Switch) TurnOn(ctx context.Context) error {
	if err := s.api.SetAttribute(ctx, s.eid, s.valueAttr, s.onValue()); err != nil {
		return err
	}

	s.m.Lock()
	s.on = true
	s.m.Unlock()

	s.publishState()
	return nil
}

func (s *Switch) TurnOff(ctx context.Context) error {
	if err := s.api.SetAttribute(ctx, s.eid, s.valueAttr, s.offValue()); err != nil {
		return err
	}

	s.m.Lock()
	s.on = false
	s.m.Unlock()

	s.publishState()
	return nil
}

func (s *Switch) publishState() {
	s.m.RLock()
	available := s.available
	if s.gate != nil {
		available = available && s.gate()
	}
	state := SwitchState{EID: s.eid, UniqueID: s.uniqueID, On: s.on, Available: available}
	s.m.RUnlock()

	s.api.SendEvent(state)
}

// WallSwitch is the primary relay of a wired switch. It goes unavailable
// while the relay is disabled, the hardware ignores it in that mode.
type WallSwitch struct {
	Switch

	disableRelay bool
}

func NewWallSwitch(api API, eid string, d Description) *WallSwitch {
	w := &WallSwitch{}
	w.Switch = *NewSwitch(api, eid, d)
	w.valueAttr = AttrOn
	w.gate = func() bool { return !w.disableRelay }
	return w
}

func (w *WallSwitch) UpdateState(attrs []terncy.AttrValue) {
	w.m.Lock()
	for _, av := range attrs {
		switch av.Attr {
		case AttrOn:
			w.on = av.Value == 1
		case AttrDisableRelay:
			w.disableRelay = av.Value == 1
		}
	}
	w.m.Unlock()

	w.publishState()
}

// DisableRelaySwitch toggles relay bypass. Only meaningful while the switch
// is in pure input mode.
type DisableRelaySwitch struct {
	Switch

	pureInput bool
}

func NewDisableRelaySwitch(api API, eid string, d Description) *DisableRelaySwitch {
	s := &DisableRelaySwitch{}
	s.Switch = *NewSwitch(api, eid, d)
	s.valueAttr = AttrDisableRelay
	s.gate = func() bool { return s.pureInput }
	return s
}

func (s *DisableRelaySwitch) UpdateState(attrs []terncy.AttrValue) {
	s.m.Lock()
	for _, av := range attrs {
		switch av.Attr {
		case AttrPureInput:
			s.pureInput = av.Value == 1
		case AttrDisableRelay:
			s.on = av.Value == 1
		}
	}
	s.m.Unlock()

	s.publishState()
}

// DisabledRelayStatusSwitch drives the relay output while it is bypassed.
// Requires both pure input mode and a disabled relay.
type DisabledRelayStatusSwitch struct {
	Switch

	pureInput    bool
	disableRelay bool
}

func NewDisabledRelayStatusSwitch(api API, eid string, d Description) *DisabledRelayStatusSwitch {
	s := &DisabledRelayStatusSwitch{}
	s.Switch = *NewSwitch(api, eid, d)
	s.valueAttr = AttrDisabledRelayStatus
	s.gate = func() bool { return s.pureInput && s.disableRelay }
	return s
}

func (s *DisabledRelayStatusSwitch) UpdateState(attrs []terncy.AttrValue) {
	s.m.Lock()
	for _, av := range attrs {
		switch av.Attr {
		case AttrPureInput:
			s.pureInput = av.Value == 1
		case AttrDisableRelay:
			s.disableRelay = av.Value == 1
		case AttrDisabledRelayStatus:
			s.on = av.Value == 1
		}
	}
	s.m.Unlock()

	s.publishState()
}
