package entity

import "github.com/rxwen/tda/terncy"

// Sensor reports a single numeric attribute, optionally transformed.
type Sensor struct {
	base

	valueAttr string
	unit      string
	transform func(int64) float64

	value float64
	known bool
}

var _ Entity = (*Sensor)(nil)

func NewSensor(api API, eid string, d Description) *Sensor {
	s := &Sensor{base: newBase(api, eid, d)}

	if o, ok := d.Options.(SensorOptions); ok {
		s.valueAttr = o.ValueAttr
		s.unit = o.Unit
		s.transform = o.Transform
	}

	return s
}

func (s *Sensor) UpdateState(attrs []terncy.AttrValue) {
	s.m.Lock()
	if v, ok := terncy.GetAttrValue(attrs, s.valueAttr); ok {
		if s.transform != nil {
			s.value = s.transform(v)
		} else {
			s.value = float64(v)
		}
		s.known = true
	}
	s.m.Unlock()

	s.publishState()
}

func (s *Sensor) SetAvailable(available bool) {
	s.m.Lock()
	s.available = available
	s.m.Unlock()

	s.publishState()
}

func (s *Sensor) publishState() {
	s.m.RLock()
	state := SensorState{
		EID:       s.eid,
		UniqueID:  s.uniqueID,
		Value:     s.value,
		Unit:      s.unit,
		Available: s.available,
	}
	s.m.RUnlock()

	s.api.SendEvent(state)
}
