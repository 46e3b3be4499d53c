package tda

import (
	"fmt"

	"github.com/rxwen/tda/entity"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/persistence"
)

// The registry persists which devices and entities this gateway owns, so
// identities survive restarts and two gateways sharing one section never
// claim each other's entities.

func (g *Gateway) deviceRegistrySection() persistence.Section {
	return g.section.Section("registry", "device")
}

func (g *Gateway) entityRegistrySection(platform entity.Platform) persistence.Section {
	return g.section.Section("registry", "entity", string(platform))
}

func (g *Gateway) deviceRegistryID(deviceSerial string) string {
	return fmt.Sprintf("%s_%s", g.client.DevID(), deviceSerial)
}

func (g *Gateway) scenesRegistryID() string {
	return fmt.Sprintf("%s_scenes", g.client.DevID())
}

func (g *Gateway) hasDeviceRegistryEntry(registryID string) bool {
	for _, k := range g.deviceRegistrySection().SectionKeys() {
		if k == registryID {
			return true
		}
	}
	return false
}

func (g *Gateway) registryLoad() {
	devices := len(g.deviceRegistrySection().SectionKeys())
	g.logger.LogDebug(g.ctx, "Loaded device registry.", logwrap.Datum("devices", devices))
}

type deviceInfo struct {
	name      string
	model     string
	version   string
	hwVersion string
	area      string
	viaHub    bool
}

func (g *Gateway) ensureDeviceRegistryEntry(registryID string, serial string, info deviceInfo) {
	s := g.deviceRegistrySection().Section(registryID)

	s.Set("serial", serial)
	s.Set("name", info.name)
	s.Set("manufacturer", manufacturerName)
	if info.model != "" {
		s.Set("model", info.model)
	}
	if info.version != "" {
		s.Set("version", info.version)
	}
	if info.hwVersion != "" {
		s.Set("hw_version", info.hwVersion)
	}
	if info.area != "" {
		s.Set("area", info.area)
	}
	if info.viaHub {
		s.Set("via", g.deviceRegistryID(g.client.DevID()))
	}
}

func (g *Gateway) removeDeviceRegistryEntry(registryID string) {
	g.deviceRegistrySection().SectionDelete(registryID)
}

// ensureScenesRegistryEntry creates the synthetic device that groups every
// scene switch of this hub.
func (g *Gateway) ensureScenesRegistryEntry() {
	name := g.cfg.Name
	if name == "" {
		name = g.client.DevID()
	}

	g.ensureDeviceRegistryEntry(g.scenesRegistryID(), g.client.DevID(), deviceInfo{
		name:   fmt.Sprintf("%s Scenes", name),
		model:  "Scenes",
		viaHub: true,
	})
}

// claimEntity records ownership of a unique id, migrating entries written
// under a legacy unique id first. It returns false if another hub already
// owns the id, the caller must not create the entity.
func (g *Gateway) claimEntity(desc entity.Description, uniqueID string, serial string, registryID string) bool {
	platform := g.entityRegistrySection(desc.Platform)

	if desc.OldUniqueIDSuffix != "" {
		g.migrateEntity(platform, serial+desc.OldUniqueIDSuffix, uniqueID)
	}

	es := platform.Section(uniqueID)
	if owner, ok := es.String("hub"); ok && owner != g.client.DevID() {
		g.logger.LogDebug(g.ctx, "Unique id owned by another hub, skipping entity.",
			logwrap.Datum("uniqueID", uniqueID), logwrap.Datum("owner", owner))
		return false
	}

	es.Set("serial", serial)
	es.Set("hub", g.client.DevID())
	es.Set("device", registryID)
	return true
}

// migrateEntity moves a legacy unique id to its current form. Repeated
// calls are no-ops once the old entry is gone.
func (g *Gateway) migrateEntity(platform persistence.Section, oldID string, newID string) {
	found := false
	for _, k := range platform.SectionKeys() {
		if k == oldID {
			found = true
			break
		}
	}

	if !found || oldID == newID {
		return
	}

	old := platform.Section(oldID)
	updated := platform.Section(newID)
	if serial, ok := old.String("serial"); ok {
		updated.Set("serial", serial)
	}
	if hub, ok := old.String("hub"); ok {
		updated.Set("hub", hub)
	}
	if device, ok := old.String("device"); ok {
		updated.Set("device", device)
	}

	platform.SectionDelete(oldID)

	g.logger.LogInfo(g.ctx, "Migrated entity unique id.",
		logwrap.Datum("old", oldID), logwrap.Datum("new", newID))
}

func (g *Gateway) releaseEntity(desc entity.Description, uniqueID string) {
	g.entityRegistrySection(desc.Platform).SectionDelete(uniqueID)
}
