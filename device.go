package tda

import (
	"github.com/rxwen/tda/entity"
	"github.com/rxwen/tda/profile"
	"github.com/rxwen/tda/terncy"
)

// Device is one hub service and the entities it projects. A physical
// device may expose multiple services, each becomes its own Device keyed
// by serial, all sharing the device serial.
type Device struct {
	deviceSerial string
	serial       string

	profile int
	name    string
	model   string

	entities    []entity.Entity
	unsubscribe func()
}

// DeviceSerial returns the serial of the physical device this service
// belongs to.
func (d *Device) DeviceSerial() string {
	return d.deviceSerial
}

// SerialNumber returns the serial of the service itself.
func (d *Device) SerialNumber() string {
	return d.serial
}

// Profile returns the hub assigned device profile.
func (d *Device) Profile() int {
	return d.profile
}

// Name returns the service name reported by the hub.
func (d *Device) Name() string {
	return d.name
}

// TriggerTypes returns the automation trigger event types this service
// can emit.
func (d *Device) TriggerTypes() []string {
	return profile.TriggerActions(d.profile)
}

// Entities returns the entities projected from this service.
func (d *Device) Entities() []entity.Entity {
	out := make([]entity.Entity, len(d.entities))
	copy(out, d.entities)
	return out
}

func (d *Device) setAvailable(available bool) {
	for _, e := range d.entities {
		e.SetAvailable(available)
	}
}

func (d *Device) updateState(attrs []terncy.AttrValue) {
	for _, e := range d.entities {
		e.UpdateState(attrs)
	}
}

func (d *Device) triggerEvent(eventType string, data map[string]any) {
	for _, e := range d.entities {
		if ec, ok := e.(entity.EventCapable); ok {
			ec.TriggerEvent(eventType, data)
		}
	}
}

func (d *Device) remove() {
	if d.unsubscribe != nil {
		d.unsubscribe()
	}
	d.setAvailable(false)
}
