package entity

import "github.com/rxwen/tda/terncy"

// BinarySensor maps raw attribute values to an on/off state through a value
// map. Unmapped values are ignored, the previous state stands.
type BinarySensor struct {
	base

	valueAttr string
	valueMap  map[int64]bool

	on    bool
	known bool
}

var _ Entity = (*BinarySensor)(nil)

func NewBinarySensor(api API, eid string, d Description) *BinarySensor {
	s := &BinarySensor{base: newBase(api, eid, d)}

	if o, ok := d.Options.(BinarySensorOptions); ok {
		s.valueAttr = o.ValueAttr
		s.valueMap = o.ValueMap
	}

	if s.valueMap == nil {
		s.valueMap = map[int64]bool{0: false, 1: true}
	}

	return s
}

func (s *BinarySensor) UpdateState(attrs []terncy.AttrValue) {
	s.m.Lock()
	if v, ok := terncy.GetAttrValue(attrs, s.valueAttr); ok {
		if on, mapped := s.valueMap[v]; mapped {
			s.on = on
			s.known = true
		}
	}
	s.m.Unlock()

	s.publishState()
}

func (s *BinarySensor) SetAvailable(available bool) {
	s.m.Lock()
	s.available = available
	s.m.Unlock()

	s.publishState()
}

func (s *BinarySensor) publishState() {
	s.m.RLock()
	state := BinarySensorState{
		EID:       s.eid,
		UniqueID:  s.uniqueID,
		On:        s.on,
		Known:     s.known,
		Available: s.available,
	}
	s.m.RUnlock()

	s.api.SendEvent(state)
}
