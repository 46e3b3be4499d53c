package tda

import (
	"context"
	"testing"
	"time"

	"github.com/rxwen/tda/entity"
	"github.com/rxwen/tda/profile"
	"github.com/rxwen/tda/terncy"
	"github.com/shimmeringbee/persistence/impl/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHubID = "box-11-22-33-44-55-66"

func newTestGateway(t *testing.T) (*Gateway, *terncy.MockClient) {
	t.Helper()

	mc := &terncy.MockClient{}
	mc.On("DevID").Return(testHubID).Maybe()

	g := New(context.Background(), Config{
		Name:               "Test Hub",
		ExportDeviceGroups: true,
		ExportScenes:       true,
	}, mc, memory.New())

	t.Cleanup(func() {
		g.cancel()
		mc.AssertExpectations(t)
	})

	return g, mc
}

func drainEvents(g *Gateway) []any {
	var out []any
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
		e, err := g.ReadEvent(ctx)
		cancel()
		if err != nil {
			return out
		}
		out = append(out, e)
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func plugDevice(did, eid string) terncy.EntityData {
	return terncy.EntityData{
		Type:  terncy.EntityTypeDevice,
		ID:    did,
		Name:  "Plug",
		Model: "TERNCY-PLUG",
		Services: []terncy.EntityData{
			{
				ID:         eid,
				Profile:    intPtr(profile.Plug),
				Attributes: []terncy.AttrValue{{Attr: entity.AttrOn, Value: 1}},
			},
		},
	}
}

func sceneData(id, name string) terncy.EntityData {
	return terncy.EntityData{
		Type:    terncy.EntityTypeScene,
		ID:      id,
		Name:    name,
		Actions: []terncy.SceneAction{{ID: "plug-01", Attr: entity.AttrOn, Value: 1}},
		On:      intPtr(0),
	}
}

func switchStates(events []any, eid string) []entity.SwitchState {
	var out []entity.SwitchState
	for _, e := range events {
		if s, ok := e.(entity.SwitchState); ok && s.EID == eid {
			out = append(out, s)
		}
	}
	return out
}

func TestGateway_SetupDevice(t *testing.T) {
	t.Run("creates entities for a known profile and reports initial state", func(t *testing.T) {
		g, _ := newTestGateway(t)

		data := plugDevice("did-1", "plug-01")
		g.setupDevice(data, data.Services)

		dev, found := g.GetDevice("plug-01")
		require.True(t, found)
		assert.Equal(t, "did-1", dev.DeviceSerial())
		assert.Equal(t, "plug-01", dev.SerialNumber())
		assert.Equal(t, profile.Plug, dev.Profile())
		assert.Len(t, dev.Entities(), 1)

		events := drainEvents(g)

		var added []DeviceAdded
		for _, e := range events {
			if a, ok := e.(DeviceAdded); ok {
				added = append(added, a)
			}
		}
		require.Len(t, added, 1)
		assert.Equal(t, "plug-01", added[0].Serial)
		assert.Equal(t, "TERNCY-PLUG", added[0].Model)

		states := switchStates(events, "plug-01")
		require.NotEmpty(t, states)
		last := states[len(states)-1]
		assert.True(t, last.On)
		assert.True(t, last.Available)
	})

	t.Run("repeating setup updates state without duplicating the device", func(t *testing.T) {
		g, _ := newTestGateway(t)

		data := plugDevice("did-1", "plug-01")
		g.setupDevice(data, data.Services)
		drainEvents(g)

		data.Services[0].Attributes = []terncy.AttrValue{{Attr: entity.AttrOn, Value: 0}}
		g.setupDevice(data, data.Services)

		assert.Len(t, g.GetDevices(), 1)

		events := drainEvents(g)
		for _, e := range events {
			_, isAdded := e.(DeviceAdded)
			assert.False(t, isAdded, "second setup must not re-add the device")
		}

		states := switchStates(events, "plug-01")
		require.NotEmpty(t, states)
		assert.False(t, states[len(states)-1].On)
	})

	t.Run("leaves serials with unsupported profiles untracked", func(t *testing.T) {
		g, _ := newTestGateway(t)

		data := plugDevice("did-1", "plug-01")
		data.Services[0].Profile = intPtr(16)

		g.setupDevice(data, data.Services)
		g.setupDevice(data, data.Services)

		assert.Empty(t, g.GetDevices())
		assert.Empty(t, drainEvents(g))
		assert.False(t, g.hasDeviceRegistryEntry(g.deviceRegistryID("plug-01")))
	})

	t.Run("falls back to the device payload availability flag", func(t *testing.T) {
		g, _ := newTestGateway(t)

		data := plugDevice("did-1", "plug-01")
		data.Online = boolPtr(false)
		g.setupDevice(data, data.Services)

		states := switchStates(drainEvents(g), "plug-01")
		require.NotEmpty(t, states)
		assert.False(t, states[len(states)-1].Available)
	})

	t.Run("skips entities whose unique id belongs to another hub", func(t *testing.T) {
		g, _ := newTestGateway(t)

		other := g.entityRegistrySection(entity.PlatformSwitch).Section("plug-01")
		other.Set("hub", "box-other")

		data := plugDevice("did-1", "plug-01")
		g.setupDevice(data, data.Services)

		_, found := g.GetDevice("plug-01")
		assert.False(t, found, "device with no claimable entities must stay untracked")
	})

	t.Run("two concurrent sightings of a new serial attach only once", func(t *testing.T) {
		g, _ := newTestGateway(t)

		// Both the refresh goroutine and the client-handler goroutine can
		// observe the serial as untracked before either inserts it; calling
		// the construction path twice exercises that interleaving.
		data := plugDevice("did-1", "plug-01")
		svc := data.Services[0]

		first := g.createDevice("did-1", data, svc, "Plug", "", "", "")
		second := g.createDevice("did-1", data, svc, "Plug", "", "", "")

		require.NotNil(t, first)
		assert.Same(t, first, second)
		assert.Len(t, g.GetDevices(), 1)

		events := drainEvents(g)
		added := 0
		for _, e := range events {
			if _, ok := e.(DeviceAdded); ok {
				added++
			}
		}
		assert.Equal(t, 1, added)

		// The loser's listener subscription must be released, a report
		// fans out to exactly one set of entities.
		g.listeners.Publish("plug-01", []terncy.AttrValue{{Attr: entity.AttrOn, Value: 0}})
		assert.Len(t, switchStates(drainEvents(g), "plug-01"), 1)
	})

	t.Run("synthesizes a service name from the device name when absent", func(t *testing.T) {
		device := terncy.EntityData{Name: "Desk Lamp"}
		svc := terncy.EntityData{ID: "lamp-01"}

		assert.Equal(t, "Desk Lamp-01", serviceName(svc, device))

		svc.Name = "Named"
		assert.Equal(t, "Named", serviceName(svc, device))

		svc.Name = ""
		device.Name = ""
		assert.Equal(t, "lamp-01", serviceName(svc, device))
	})
}

func TestGateway_Report(t *testing.T) {
	t.Run("routes reports to the owning device only", func(t *testing.T) {
		g, _ := newTestGateway(t)

		one := plugDevice("did-1", "plug-01")
		two := plugDevice("did-2", "plug-02")
		g.setupDevice(one, one.Services)
		g.setupDevice(two, two.Services)
		drainEvents(g)

		g.handleClientEvent(terncy.EventMessage{
			Type: terncy.EventTypeReport,
			Entities: []terncy.EntityData{
				{ID: "plug-01", Attributes: []terncy.AttrValue{{Attr: entity.AttrOn, Value: 0}}},
			},
		})

		events := drainEvents(g)
		assert.NotEmpty(t, switchStates(events, "plug-01"))
		assert.Empty(t, switchStates(events, "plug-02"))
	})

	t.Run("drops reports for unknown serials", func(t *testing.T) {
		g, _ := newTestGateway(t)

		g.handleClientEvent(terncy.EventMessage{
			Type: terncy.EventTypeReport,
			Entities: []terncy.EntityData{
				{ID: "ghost-01", Attributes: []terncy.AttrValue{{Attr: entity.AttrOn, Value: 1}}},
			},
		})

		assert.Empty(t, drainEvents(g))
	})
}

func buttonEvents(events []any, eid string) []entity.ButtonEvent {
	var out []entity.ButtonEvent
	for _, e := range events {
		if b, ok := e.(entity.ButtonEvent); ok && b.EID == eid {
			out = append(out, b)
		}
	}
	return out
}

func deviceTriggers(events []any) []DeviceTriggered {
	var out []DeviceTriggered
	for _, e := range events {
		if d, ok := e.(DeviceTriggered); ok {
			out = append(out, d)
		}
	}
	return out
}

func setupSwitchDevice(t *testing.T, g *Gateway, did, eid string) {
	t.Helper()

	data := terncy.EntityData{
		Type: terncy.EntityTypeDevice,
		ID:   did,
		Name: "Button",
		Services: []terncy.EntityData{
			{
				ID:         eid,
				Profile:    intPtr(profile.Switch),
				Attributes: []terncy.AttrValue{{Attr: entity.AttrOn, Value: 0}},
			},
		},
	}
	g.setupDevice(data, data.Services)
	drainEvents(g)
}

func TestGateway_KeyPressed(t *testing.T) {
	t.Run("fans a press out to the event entity and the gateway channel", func(t *testing.T) {
		g, _ := newTestGateway(t)
		setupSwitchDevice(t, g, "did-1", "sw-01")

		g.handleClientEvent(terncy.EventMessage{
			Type: terncy.EventTypeKeyPressed,
			Entities: []terncy.EntityData{
				{ID: "sw-01", Attributes: []terncy.AttrValue{{Attr: "keyPressed", Value: 1, Times: 2}}},
			},
		})

		events := drainEvents(g)

		presses := buttonEvents(events, "sw-01")
		require.Len(t, presses, 1)
		assert.Equal(t, entity.EventDoublePress, presses[0].EventType)
		assert.Equal(t, 2, presses[0].Data["click_times"])

		triggers := deviceTriggers(events)
		require.Len(t, triggers, 1)
		assert.Equal(t, testHubID+"_sw-01", triggers[0].RegistryID)
		assert.Equal(t, "sw-01", triggers[0].Serial)
		assert.Equal(t, entity.EventDoublePress, triggers[0].EventType)
		assert.Equal(t, 2, triggers[0].ClickTimes)
	})

	t.Run("collapses out of range press counts to a single press", func(t *testing.T) {
		g, _ := newTestGateway(t)
		setupSwitchDevice(t, g, "did-1", "sw-01")

		for _, times := range []int{0, 10, 42} {
			g.handleClientEvent(terncy.EventMessage{
				Type: terncy.EventTypeKeyPressed,
				Entities: []terncy.EntityData{
					{ID: "sw-01", Attributes: []terncy.AttrValue{{Attr: "keyPressed", Times: times}}},
				},
			})
		}

		presses := buttonEvents(drainEvents(g), "sw-01")
		require.Len(t, presses, 3)
		for _, p := range presses {
			assert.Equal(t, entity.EventSinglePress, p.EventType)
		}
	})

	t.Run("ignores items without attributes", func(t *testing.T) {
		g, _ := newTestGateway(t)
		setupSwitchDevice(t, g, "did-1", "sw-01")

		g.handleClientEvent(terncy.EventMessage{
			Type:     terncy.EventTypeKeyPressed,
			Entities: []terncy.EntityData{{ID: "sw-01"}},
		})

		assert.Empty(t, drainEvents(g))
	})

	t.Run("long press and rotation carry no click count", func(t *testing.T) {
		g, _ := newTestGateway(t)
		setupSwitchDevice(t, g, "did-1", "sw-01")

		g.handleClientEvent(terncy.EventMessage{
			Type:     terncy.EventTypeKeyLongPressed,
			Entities: []terncy.EntityData{{ID: "sw-01"}},
		})

		events := drainEvents(g)

		presses := buttonEvents(events, "sw-01")
		require.Len(t, presses, 1)
		assert.Equal(t, entity.EventLongPress, presses[0].EventType)

		triggers := deviceTriggers(events)
		require.Len(t, triggers, 1)
		assert.Equal(t, entity.EventLongPress, triggers[0].EventType)
		assert.Zero(t, triggers[0].ClickTimes)
	})
}

func TestGateway_Disconnection(t *testing.T) {
	t.Run("marks every device unavailable and reports the transition", func(t *testing.T) {
		g, _ := newTestGateway(t)

		data := plugDevice("did-1", "plug-01")
		g.setupDevice(data, data.Services)
		drainEvents(g)

		g.handleClientEvent(terncy.Disconnected{})

		assert.Equal(t, Disconnected, g.State())

		events := drainEvents(g)

		disconnected := false
		for _, e := range events {
			if _, ok := e.(GatewayDisconnected); ok {
				disconnected = true
			}
		}
		assert.True(t, disconnected)

		states := switchStates(events, "plug-01")
		require.NotEmpty(t, states)
		assert.False(t, states[len(states)-1].Available)

		_, found := g.GetDevice("plug-01")
		assert.True(t, found, "disconnect must not forget devices")
	})
}

func TestGateway_EntityDeleted(t *testing.T) {
	t.Run("tears down every serial of the physical device", func(t *testing.T) {
		g, _ := newTestGateway(t)

		data := plugDevice("did-1", "plug-01")
		data.Services = append(data.Services, terncy.EntityData{
			ID:         "plug-02",
			Profile:    intPtr(profile.Plug),
			Attributes: []terncy.AttrValue{{Attr: entity.AttrOn, Value: 1}},
		})
		g.setupDevice(data, data.Services)

		other := plugDevice("did-2", "plug-03")
		g.setupDevice(other, other.Services)
		drainEvents(g)

		g.handleClientEvent(terncy.EventMessage{
			Type:     terncy.EventTypeEntityDeleted,
			Entities: []terncy.EntityData{{ID: "did-1"}},
		})

		_, found := g.GetDevice("plug-01")
		assert.False(t, found)
		_, found = g.GetDevice("plug-02")
		assert.False(t, found)
		_, found = g.GetDevice("plug-03")
		assert.True(t, found, "unrelated devices must survive")

		assert.False(t, g.hasDeviceRegistryEntry(g.deviceRegistryID("plug-01")))
		assert.False(t, g.hasDeviceRegistryEntry(g.deviceRegistryID("plug-02")))

		events := drainEvents(g)
		var removed []DeviceRemoved
		for _, e := range events {
			if r, ok := e.(DeviceRemoved); ok {
				removed = append(removed, r)
			}
		}
		assert.Len(t, removed, 2)
	})

	t.Run("removes scenes by their prefixed id", func(t *testing.T) {
		g, _ := newTestGateway(t)

		g.setupScene(sceneData("scene-abc", "Evening"))
		drainEvents(g)

		g.handleClientEvent(terncy.EventMessage{
			Type:     terncy.EventTypeEntityDeleted,
			Entities: []terncy.EntityData{{ID: "scene-abc"}},
		})

		_, found := g.getScene("scene-abc")
		assert.False(t, found)

		events := drainEvents(g)
		sceneRemoved := false
		for _, e := range events {
			if r, ok := e.(SceneRemoved); ok {
				sceneRemoved = true
				assert.Equal(t, "scene-abc", r.SceneID)
			}
		}
		assert.True(t, sceneRemoved)
	})
}

func TestGateway_Offline(t *testing.T) {
	t.Run("marks matching devices unavailable without deleting them", func(t *testing.T) {
		g, _ := newTestGateway(t)

		data := plugDevice("did-1", "plug-01")
		g.setupDevice(data, data.Services)
		drainEvents(g)

		g.handleClientEvent(terncy.EventMessage{
			Type:     terncy.EventTypeOffline,
			Entities: []terncy.EntityData{{ID: "did-1"}},
		})

		states := switchStates(drainEvents(g), "plug-01")
		require.NotEmpty(t, states)
		assert.False(t, states[len(states)-1].Available)

		_, found := g.GetDevice("plug-01")
		assert.True(t, found)
	})
}

func TestGateway_EntityAvailable(t *testing.T) {
	t.Run("runs device setup for device items and ignores tokens", func(t *testing.T) {
		g, _ := newTestGateway(t)

		data := plugDevice("did-1", "plug-01")
		g.handleClientEvent(terncy.EventMessage{
			Type: terncy.EventTypeEntityAvailable,
			Entities: []terncy.EntityData{
				{Type: terncy.EntityTypeToken, ID: "token-1"},
				data,
			},
		})

		_, found := g.GetDevice("plug-01")
		assert.True(t, found)
	})
}
