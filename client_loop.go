package tda

import (
	"strings"

	"github.com/rxwen/tda/entity"
	"github.com/rxwen/tda/terncy"
	"github.com/shimmeringbee/logwrap"
)

const scenePrefix = "scene-"

// handleClientEvent receives the client's event stream. No handler may
// crash the dispatch, a malformed item degrades to skipping that item.
func (g *Gateway) handleClientEvent(e any) {
	switch ev := e.(type) {
	case terncy.Connected:
		g.handleConnected()
	case terncy.Disconnected:
		g.handleDisconnected()
	case terncy.EventMessage:
		g.dispatchMessage(ev)
	default:
		g.logger.LogWarn(g.ctx, "Unknown client event.", logwrap.Datum("event", e))
	}
}

func (g *Gateway) handleConnected() {
	g.stateLock.Lock()
	g.state = Connected
	g.stateLock.Unlock()

	g.logger.LogInfo(g.ctx, "Connected to hub.", logwrap.Datum("hub", g.client.DevID()))
	g.sendEvent(GatewayConnected{})

	go g.refreshDevices()
}

func (g *Gateway) handleDisconnected() {
	g.stateLock.Lock()
	if g.state != Stopping {
		g.state = Disconnected
	}
	g.stateLock.Unlock()

	g.logger.LogInfo(g.ctx, "Disconnected from hub.", logwrap.Datum("hub", g.client.DevID()))

	for _, dev := range g.getDevices() {
		dev.setAvailable(false)
	}

	g.sendEvent(GatewayDisconnected{})
	g.scheduleReconnect()
}

func (g *Gateway) dispatchMessage(msg terncy.EventMessage) {
	switch msg.Type {
	case terncy.EventTypeReport:
		g.handleReport(msg.Entities)
	case terncy.EventTypeKeyPressed:
		g.handleKeyPressed(msg.Entities)
	case terncy.EventTypeKeyLongPressed:
		g.handleSimpleTrigger(msg.Entities, entity.EventLongPress)
	case terncy.EventTypeRotation:
		g.handleSimpleTrigger(msg.Entities, entity.EventRotation)
	case terncy.EventTypeEntityAvailable:
		g.handleEntityAvailable(msg.Entities)
	case terncy.EventTypeEntityDeleted:
		g.handleEntityDeleted(msg.Entities)
	case terncy.EventTypeEntityCreated:
		g.handleEntityCreated(msg.Entities)
	case terncy.EventTypeEntityUpdated:
		g.handleEntityUpdated(msg.Entities)
	case terncy.EventTypeOffline:
		g.handleOffline(msg.Entities)
	default:
		g.logger.LogWarn(g.ctx, "Unhandled hub message.", logwrap.Datum("type", msg.Type))
	}
}

// handleReport fans attribute reports out to the listeners of each serial.
// Reports for untracked serials are dropped.
func (g *Gateway) handleReport(items []terncy.EntityData) {
	for _, item := range items {
		if !g.listeners.Publish(item.ID, item.Attributes) {
			g.logger.LogDebug(g.ctx, "Report for serial without listeners.", logwrap.Datum("serial", item.ID))
		}
	}
}

// handleKeyPressed routes button presses both to the device's event entity
// and to the gateway event channel. The press count comes from the first
// attribute's times field, out of range counts collapse to a single press.
func (g *Gateway) handleKeyPressed(items []terncy.EntityData) {
	for _, item := range items {
		if len(item.Attributes) == 0 {
			continue
		}

		times := item.Attributes[0].Times
		eventType := entity.EventSinglePress
		if times >= 1 && times <= 9 {
			eventType = entity.ButtonEvents[times]
		}

		if dev, ok := g.getDevice(item.ID); ok {
			dev.triggerEvent(eventType, map[string]any{"click_times": times})
		}

		registryID := g.deviceRegistryID(item.ID)
		if g.hasDeviceRegistryEntry(registryID) {
			g.sendEvent(DeviceTriggered{
				RegistryID: registryID,
				Serial:     item.ID,
				EventType:  eventType,
				ClickTimes: times,
			})
		}
	}
}

func (g *Gateway) handleSimpleTrigger(items []terncy.EntityData, eventType string) {
	for _, item := range items {
		if dev, ok := g.getDevice(item.ID); ok {
			dev.triggerEvent(eventType, nil)
		}

		registryID := g.deviceRegistryID(item.ID)
		if g.hasDeviceRegistryEntry(registryID) {
			g.sendEvent(DeviceTriggered{
				RegistryID: registryID,
				Serial:     item.ID,
				EventType:  eventType,
			})
		}
	}
}

func (g *Gateway) handleEntityAvailable(items []terncy.EntityData) {
	for _, item := range items {
		switch item.Type {
		case terncy.EntityTypeDevice:
			g.setupDevice(item, item.Services)
		case terncy.EntityTypeToken:
		default:
			g.logger.LogWarn(g.ctx, "entityAvailable with unsupported type.",
				logwrap.Datum("type", item.Type), logwrap.Datum("id", item.ID))
		}
	}
}

// handleEntityDeleted tears down scenes and devices. The payload carries
// only ids, scene ids are distinguished by prefix. A device id may cover
// several tracked serials, every one is torn down.
func (g *Gateway) handleEntityDeleted(items []terncy.EntityData) {
	for _, item := range items {
		if strings.HasPrefix(item.ID, scenePrefix) {
			g.deleteScene(item.ID)
		} else {
			g.deleteDevice(item.ID)
		}
	}
}

func (g *Gateway) deleteScene(sceneID string) {
	scene, ok := g.removeScene(sceneID)
	if !ok {
		return
	}

	scene.remove()
	g.releaseEntity(scene.sw.Description(), scene.sw.UniqueID())
	g.sendEvent(SceneRemoved{SceneID: sceneID})

	g.logger.LogInfo(g.ctx, "Removed scene.", logwrap.Datum("scene", sceneID))
}

func (g *Gateway) deleteDevice(did string) {
	for _, dev := range g.getDevicesByDeviceSerial(did) {
		dev.remove()

		for _, e := range dev.Entities() {
			g.releaseEntity(e.Description(), e.UniqueID())
		}
		g.removeDeviceRegistryEntry(g.deviceRegistryID(dev.serial))
		g.removeDevice(dev.serial)

		g.callbacks.Call(g.ctx, internalDeviceRemoved{device: dev})
		g.logger.LogInfo(g.ctx, "Removed device.",
			logwrap.Datum("deviceSerial", did), logwrap.Datum("serial", dev.serial))
	}
}

func (g *Gateway) handleEntityCreated(items []terncy.EntityData) {
	for _, item := range items {
		switch item.Type {
		case terncy.EntityTypeScene:
			g.setupScene(item)
		case terncy.EntityTypeDeviceGroup:
			g.setupDeviceGroup(item)
		default:
			g.logger.LogDebug(g.ctx, "entityCreated with unsupported type.",
				logwrap.Datum("type", item.Type), logwrap.Datum("id", item.ID))
		}
	}
}

func (g *Gateway) handleEntityUpdated(items []terncy.EntityData) {
	for _, item := range items {
		switch item.Type {
		case terncy.EntityTypeScene:
			g.setupScene(item)
		case terncy.EntityTypeUser, terncy.EntityTypeToken:
		default:
			g.logger.LogInfo(g.ctx, "entityUpdated with unsupported type.",
				logwrap.Datum("type", item.Type), logwrap.Datum("id", item.ID))
		}
	}
}

// handleOffline marks matching devices unavailable without deleting them.
func (g *Gateway) handleOffline(items []terncy.EntityData) {
	for _, item := range items {
		for _, dev := range g.getDevicesByDeviceSerial(item.ID) {
			dev.setAvailable(false)
		}
	}
}
