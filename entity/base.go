package entity

import "sync"

// base carries the identity every platform entity shares. State fields live
// on the concrete types, guarded by m.
type base struct {
	api      API
	eid      string
	uniqueID string
	desc     Description

	m         *sync.RWMutex
	available bool
}

func newBase(api API, eid string, d Description) base {
	return base{
		api:       api,
		eid:       eid,
		uniqueID:  d.UniqueID(eid),
		desc:      d,
		m:         &sync.RWMutex{},
		available: true,
	}
}

func (b *base) EID() string {
	return b.eid
}

func (b *base) UniqueID() string {
	return b.uniqueID
}

func (b *base) Description() Description {
	return b.desc
}
