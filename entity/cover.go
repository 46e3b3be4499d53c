package entity

import (
	"context"
	"math"

	"github.com/rxwen/tda/terncy"
)

// Cover attribute keys. Motor status values: 0 stopped, 1 opening,
// 2 closing.
const (
	AttrCurtainPercent     = "curtainPercent"
	AttrCurtainMotorStatus = "curtainMotorStatus"
	AttrTiltAngle          = "tiltAngle"
)

// PositionControl is the command surface of covers.
type PositionControl interface {
	Open(ctx context.Context) error
	Close(ctx context.Context) error
	Stop(ctx context.Context) error
	SetPosition(ctx context.Context, position int) error
}

// Cover is a curtain motor. Position is 0 closed to 100 open, closed is
// exactly position zero.
type Cover struct {
	base

	tilt bool

	position  int
	tiltAngle int // -90 to 90
	tiltKnown bool
	opening   bool
	closing   bool
}

var _ Entity = (*Cover)(nil)
var _ PositionControl = (*Cover)(nil)

func NewCover(api API, eid string, d Description) *Cover {
	c := &Cover{base: newBase(api, eid, d)}

	if o, ok := d.Options.(CoverOptions); ok {
		c.tilt = o.Tilt
	}

	return c
}

func (c *Cover) UpdateState(attrs []terncy.AttrValue) {
	c.m.Lock()
	if v, ok := terncy.GetAttrValue(attrs, AttrCurtainPercent); ok {
		c.position = int(v)
	}
	if v, ok := terncy.GetAttrValue(attrs, AttrCurtainMotorStatus); ok {
		c.opening = v == 1
		c.closing = v == 2
	}
	if c.tilt {
		if v, ok := terncy.GetAttrValue(attrs, AttrTiltAngle); ok {
			c.tiltAngle = int(v)
			c.tiltKnown = true
		}
	}
	c.m.Unlock()

	c.publishState()
}

func (c *Cover) SetAvailable(available bool) {
	c.m.Lock()
	c.available = available
	c.m.Unlock()

	c.publishState()
}

func (c *Cover) Open(ctx context.Context) error {
	return c.api.SetAttribute(ctx, c.eid, AttrCurtainPercent, 100)
}

func (c *Cover) Close(ctx context.Context) error {
	return c.api.SetAttribute(ctx, c.eid, AttrCurtainPercent, 0)
}

func (c *Cover) SetPosition(ctx context.Context, position int) error {
	return c.api.SetAttribute(ctx, c.eid, AttrCurtainPercent, int64(clampInt(position, 0, 100)))
}

func (c *Cover) Stop(ctx context.Context) error {
	return c.api.SetAttribute(ctx, c.eid, AttrCurtainMotorStatus, 0)
}

// OpenTilt levels the slats.
func (c *Cover) OpenTilt(ctx context.Context) error {
	return c.api.SetAttribute(ctx, c.eid, AttrTiltAngle, 0)
}

// CloseTilt drives the slats fully towards their current side.
func (c *Cover) CloseTilt(ctx context.Context) error {
	c.m.RLock()
	negative := c.tiltKnown && c.tiltAngle < 0
	c.m.RUnlock()

	if negative {
		return c.api.SetAttribute(ctx, c.eid, AttrTiltAngle, -90)
	}
	return c.api.SetAttribute(ctx, c.eid, AttrTiltAngle, 90)
}

// SetTiltPosition moves the slats to a 0 closed to 100 open position,
// staying on the side they currently tilt towards.
func (c *Cover) SetTiltPosition(ctx context.Context, position int) error {
	c.m.RLock()
	negative := c.tiltKnown && c.tiltAngle < 0
	c.m.RUnlock()

	var angle int64
	if negative {
		angle = int64(-90 + int(math.Round(float64(position)*0.9)))
	} else {
		angle = int64(90 - int(math.Round(float64(position)*0.9)))
	}

	return c.api.SetAttribute(ctx, c.eid, AttrTiltAngle, angle)
}

func (c *Cover) StopTilt(ctx context.Context) error {
	return c.api.SetAttribute(ctx, c.eid, AttrCurtainMotorStatus, 0)
}

func (c *Cover) publishState() {
	c.m.RLock()
	state := CoverState{
		EID:       c.eid,
		UniqueID:  c.uniqueID,
		Position:  c.position,
		Opening:   c.opening,
		Closing:   c.closing,
		Closed:    c.position == 0,
		Available: c.available,
	}
	if c.tilt && c.tiltKnown {
		state.TiltPosition = 100 - int(math.Round(math.Abs(float64(c.tiltAngle))/0.9))
	}
	c.m.RUnlock()

	c.api.SendEvent(state)
}
