package tda

import (
	"context"

	"github.com/rxwen/tda/terncy"
	"github.com/shimmeringbee/logwrap"
)

// Commands are fire-and-forget with an optimistic local echo. The new
// value is republished through the listener fan-out immediately after
// sending, the hub's own report echo carries the same value so last write
// wins without flicker.

const defaultMethod = 0

// SetAttribute sends one attribute to a serial.
func (g *Gateway) SetAttribute(ctx context.Context, serial string, attr string, value int64) error {
	if err := g.client.SetAttribute(ctx, serial, attr, value, defaultMethod); err != nil {
		g.logger.LogError(ctx, "Failed to set attribute.",
			logwrap.Datum("serial", serial), logwrap.Datum("attr", attr), logwrap.Err(err))
		return err
	}

	g.listeners.Publish(serial, []terncy.AttrValue{{Attr: attr, Value: value}})
	return nil
}

// SetAttributes sends a batch of attributes to a serial.
func (g *Gateway) SetAttributes(ctx context.Context, serial string, attrs []terncy.AttrValue) error {
	if len(attrs) == 0 {
		return nil
	}

	if err := g.client.SetAttributes(ctx, serial, attrs, defaultMethod); err != nil {
		g.logger.LogError(ctx, "Failed to set attributes.",
			logwrap.Datum("serial", serial), logwrap.Err(err))
		return err
	}

	g.listeners.Publish(serial, attrs)
	return nil
}

// AddListener subscribes to attribute updates for a serial, returning an
// unsubscribe function.
func (g *Gateway) AddListener(serial string, l AttrListener) func() {
	return g.listeners.Add(serial, l)
}

// GetDevice returns the tracked device for a serial.
func (g *Gateway) GetDevice(serial string) (*Device, bool) {
	return g.getDevice(serial)
}

// GetDevices returns every tracked device.
func (g *Gateway) GetDevices() []*Device {
	return g.getDevices()
}
