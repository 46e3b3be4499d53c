package tda

import (
	"context"
)

// Events published on the gateway's event channel.

type GatewayConnected struct{}

type GatewayDisconnected struct{}

type DeviceAdded struct {
	DeviceSerial string
	Serial       string
	Profile      int
	Name         string
	Model        string
}

type DeviceRemoved struct {
	DeviceSerial string
	Serial       string
}

type SceneAdded struct {
	SceneID string
	Name    string
}

type SceneRemoved struct {
	SceneID string
}

// DeviceTriggered is the gateway level fan-out of a button event, published
// alongside the device's own event entity. RegistryID is the identity of
// the device's registry entry.
type DeviceTriggered struct {
	RegistryID string
	Serial     string
	EventType  string
	ClickTimes int
}

type eventSender interface {
	sendEvent(event any)
}

// Internal lifecycle events, dispatched through the callback chain so
// table mutation stays decoupled from what is announced upward.

type internalDeviceAdded struct {
	device *Device
}

type internalDeviceRemoved struct {
	device *Device
}

func (g *Gateway) announceDeviceAdded(_ context.Context, e internalDeviceAdded) error {
	g.sendEvent(DeviceAdded{
		DeviceSerial: e.device.deviceSerial,
		Serial:       e.device.serial,
		Profile:      e.device.profile,
		Name:         e.device.name,
		Model:        e.device.model,
	})
	return nil
}

func (g *Gateway) announceDeviceRemoved(_ context.Context, e internalDeviceRemoved) error {
	g.sendEvent(DeviceRemoved{
		DeviceSerial: e.device.deviceSerial,
		Serial:       e.device.serial,
	})
	return nil
}

func (g *Gateway) sendEvent(e any) {
	select {
	case g.events <- e:
	default:
		g.logger.LogWarn(g.ctx, "Event channel full, dropping event.")
	}
}

func (g *Gateway) ReadEvent(ctx context.Context) (any, error) {
	select {
	case e := <-g.events:
		return e, nil
	case <-ctx.Done():
		return nil, context.DeadlineExceeded
	}
}
