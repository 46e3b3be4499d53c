package tda

import (
	"context"
	"fmt"

	"github.com/rxwen/tda/entity"
	"github.com/rxwen/tda/profile"
	"github.com/rxwen/tda/rules"
	"github.com/rxwen/tda/terncy"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/retry"
)

// refreshDevices reconciles the hub's inventory into the local tables.
// Invoked on every transition into Connected, concurrent invocations
// collapse into one.
func (g *Gateway) refreshDevices() {
	if !g.refreshSem.TryAcquire(1) {
		g.logger.LogDebug(g.ctx, "Refresh already in progress, skipping.")
		return
	}
	defer g.refreshSem.Release(1)

	ctx, end := g.logger.Segment(g.ctx, "Refreshing hub inventory.")
	defer end()

	rooms, err := g.fetchData(ctx, terncy.EntityTypeRoom)
	if err != nil {
		g.logger.LogWarn(ctx, "Failed to fetch rooms, area names may be stale.", logwrap.Err(err))
	} else {
		roomNames := make(map[string]string, len(rooms))
		for _, room := range rooms {
			roomNames[room.ID] = room.Name
		}
		g.setRooms(roomNames)
	}

	devices, err := g.fetchData(ctx, terncy.EntityTypeDevice)
	if err != nil {
		g.logger.LogError(ctx, "Failed to fetch devices.", logwrap.Err(err))
		return
	}
	for _, data := range devices {
		g.setupDevice(data, data.Services)
	}

	groups, err := g.fetchData(ctx, terncy.EntityTypeDeviceGroup)
	if err != nil {
		g.logger.LogWarn(ctx, "Failed to fetch device groups.", logwrap.Err(err))
	}
	for _, data := range groups {
		g.setupDeviceGroup(data)
	}

	scenes, err := g.fetchData(ctx, terncy.EntityTypeScene)
	if err != nil {
		g.logger.LogWarn(ctx, "Failed to fetch scenes.", logwrap.Err(err))
	}
	for _, data := range scenes {
		g.setupScene(data)
	}
}

// fetchData retrieves one entity type from the hub. A response without a
// payload is treated as a failed fetch, never as a crash.
func (g *Gateway) fetchData(pctx context.Context, entityType string) ([]terncy.EntityData, error) {
	var resp *terncy.EntitiesResponse

	err := retry.Retry(pctx, DefaultNetworkTimeout, DefaultNetworkRetries, func(ctx context.Context) error {
		var err error
		resp, err = g.client.GetEntities(ctx, entityType, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	if resp == nil || resp.Rsp == nil {
		g.logger.LogWarn(pctx, "Fetch returned no payload.", logwrap.Datum("entityType", entityType))
		return nil, nil
	}

	return resp.Rsp.Entities, nil
}

// setupDeviceGroup projects a device group as a device whose only service
// is the group itself.
func (g *Gateway) setupDeviceGroup(data terncy.EntityData) {
	if !g.cfg.ExportDeviceGroups {
		return
	}

	g.setupDevice(data, []terncy.EntityData{data})
}

// setupDevice creates or updates the devices for one physical device's
// services. Idempotent, called from both the refresh and entityAvailable
// paths.
func (g *Gateway) setupDevice(data terncy.EntityData, services []terncy.EntityData) {
	did := data.ID
	online := true
	if data.Online != nil {
		online = *data.Online
	}

	var version, hwVersion string
	if data.Version != nil {
		version = fmt.Sprintf("%d", *data.Version)
	}
	if data.HWVersion != nil {
		hwVersion = fmt.Sprintf("%d", *data.HWVersion)
	}

	area := g.roomName(data.Room)

	if did == g.client.DevID() {
		// The hub itself has no service list, only a registry entry.
		name := g.cfg.Name
		if name == "" {
			name = did
		}
		g.ensureDeviceRegistryEntry(g.deviceRegistryID(did), did, deviceInfo{
			name:      name,
			model:     data.Model,
			version:   version,
			hwVersion: hwVersion,
			area:      area,
		})
	}

	for _, svc := range services {
		eid := svc.ID
		name := serviceName(svc, data)

		dev, tracked := g.getDevice(eid)
		if !tracked {
			dev = g.createDevice(did, data, svc, name, version, hwVersion, area)
		}

		if dev != nil {
			dev.setAvailable(online)
			dev.updateState(svc.Attributes)
		}
	}
}

// serviceName resolves a display name for a service. Hubs report empty
// names for unnamed services.
func serviceName(svc terncy.EntityData, device terncy.EntityData) string {
	if svc.Name != "" {
		return svc.Name
	}
	if device.Name != "" && len(svc.ID) >= 2 {
		return fmt.Sprintf("%s-%s", device.Name, svc.ID[len(svc.ID)-2:])
	}
	return svc.ID
}

// createDevice builds the entities for a previously unseen service.
// Returns nil if the profile is unsupported or nothing survives filtering,
// such serials stay untracked so no empty devices linger.
func (g *Gateway) createDevice(did string, data terncy.EntityData, svc terncy.EntityData, name, version, hwVersion, area string) *Device {
	eid := svc.ID

	prof := -1
	if svc.Profile != nil {
		prof = *svc.Profile
	}

	descs, supported := profile.Descriptions(prof)
	if !supported {
		g.logUnsupported(eid, prof)
		return nil
	}

	descs = g.applyRules(data.Model, prof, svc.Attributes, descs)

	api := entityAPI{g: g}
	var entities []entity.Entity

	for _, desc := range descs {
		if !entity.HasRequiredAttrs(desc, svc.Attributes) {
			continue
		}

		uniqueID := desc.UniqueID(eid)
		if !g.claimEntity(desc, uniqueID, eid, g.deviceRegistryID(eid)) {
			continue
		}

		e, err := entity.Create(api, eid, desc)
		if err != nil {
			g.logger.LogError(g.ctx, "Failed to create entity.",
				logwrap.Datum("serial", eid), logwrap.Datum("description", desc.ID()), logwrap.Err(err))
			continue
		}

		entities = append(entities, e)
	}

	if len(entities) == 0 {
		g.logUnsupported(eid, prof)
		return nil
	}

	if svcArea := g.roomName(svc.Room); svcArea != "" {
		area = svcArea
	}

	g.ensureDeviceRegistryEntry(g.deviceRegistryID(eid), eid, deviceInfo{
		name:      name,
		model:     data.Model,
		version:   version,
		hwVersion: hwVersion,
		area:      area,
		viaHub:    did != g.client.DevID(),
	})

	dev := &Device{
		deviceSerial: did,
		serial:       eid,
		profile:      prof,
		name:         name,
		model:        data.Model,
		entities:     entities,
	}
	dev.unsubscribe = g.listeners.Add(eid, dev.updateState)

	stored, added := g.addDeviceIfAbsent(dev)
	if !added {
		// Lost a race with another sighting of the same serial.
		dev.unsubscribe()
		return stored
	}

	g.callbacks.Call(g.ctx, internalDeviceAdded{device: dev})

	return dev
}

// applyRules adjusts a profile's descriptions for model specific hardware
// variants.
func (g *Gateway) applyRules(model string, prof int, attrs []terncy.AttrValue, descs []entity.Description) []entity.Description {
	keys := make([]string, 0, len(attrs))
	for _, a := range attrs {
		keys = append(keys, a.Attr)
	}

	out, err := g.ruleEngine.Execute(rules.Input{Model: model, Profile: prof, AttributeKeys: keys})
	if err != nil {
		g.logger.LogError(g.ctx, "Rule execution failed, using profile defaults.",
			logwrap.Datum("model", model), logwrap.Err(err))
		return descs
	}

	var adjusted []entity.Description
	for _, d := range descs {
		if !out.Remove[d.ID()] {
			adjusted = append(adjusted, d)
		}
	}

	for id := range out.Add {
		if d, ok := profile.Extra(id); ok {
			adjusted = append(adjusted, d)
		} else {
			g.logger.LogWarn(g.ctx, "Rule added unknown description id.", logwrap.Datum("id", id))
		}
	}

	return adjusted
}

func (g *Gateway) logUnsupported(eid string, prof int) {
	g.unsupportedLock.Lock()
	seen := g.unsupported[eid]
	g.unsupported[eid] = true
	g.unsupportedLock.Unlock()

	if !seen {
		g.logger.LogDebug(g.ctx, "Unsupported device profile.",
			logwrap.Datum("serial", eid), logwrap.Datum("profile", prof))
	}
}

// setupScene creates or updates a scene switch. Scenes without actions are
// inert, an inert scene already tracked is marked unavailable but kept so
// it can come back without a new creation event.
func (g *Gateway) setupScene(data terncy.EntityData) {
	if !g.cfg.ExportScenes {
		return
	}

	sceneID := data.ID

	if len(data.Actions) == 0 {
		if scene, ok := g.getScene(sceneID); ok {
			scene.sw.SetAvailable(false)
		}
		return
	}

	name := data.Name
	if name == "" {
		name = sceneID
	}

	online := true
	if data.Online != nil {
		online = *data.Online
	}

	var attrs []terncy.AttrValue
	if data.On != nil {
		attrs = append(attrs, terncy.AttrValue{Attr: entity.AttrOn, Value: int64(*data.On)})
	}

	scene, ok := g.getScene(sceneID)
	if !ok {
		scene = g.createScene(sceneID, name)
		if scene == nil {
			return
		}
	} else {
		scene.name = name
	}

	scene.sw.SetAvailable(online)
	scene.sw.UpdateState(attrs)
}

// createScene builds the switch for a previously unseen scene. Returns nil
// if the unique id belongs to another hub or construction fails.
func (g *Gateway) createScene(sceneID string, name string) *sceneSwitch {
	g.ensureScenesRegistryEntry()

	desc := entity.Description{
		Platform:       entity.PlatformSwitch,
		Key:            "scene",
		Name:           name,
		Icon:           "mdi:palette",
		UniqueIDPrefix: g.client.DevID(),
	}

	if !g.claimEntity(desc, desc.UniqueID(sceneID), sceneID, g.scenesRegistryID()) {
		return nil
	}

	e, err := entity.Create(entityAPI{g: g}, sceneID, desc)
	if err != nil {
		g.logger.LogError(g.ctx, "Failed to create scene switch.",
			logwrap.Datum("scene", sceneID), logwrap.Err(err))
		return nil
	}

	sw, ok := e.(*entity.Switch)
	if !ok {
		g.logger.LogError(g.ctx, "Scene description did not produce a switch.",
			logwrap.Datum("scene", sceneID))
		return nil
	}

	scene := &sceneSwitch{id: sceneID, name: name, sw: sw}
	scene.unsubscribe = g.listeners.Add(sceneID, sw.UpdateState)

	stored, added := g.addSceneIfAbsent(scene)
	if !added {
		scene.unsubscribe()
		return stored
	}

	g.sendEvent(SceneAdded{SceneID: sceneID, Name: name})
	return scene
}
