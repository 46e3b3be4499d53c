package tda

import "github.com/rxwen/tda/entity"

// sceneSwitch is a hub scene projected as a switch entity.
type sceneSwitch struct {
	id   string
	name string

	sw          *entity.Switch
	unsubscribe func()
}

func (s *sceneSwitch) remove() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.sw.SetAvailable(false)
}

func (g *Gateway) getDevice(serial string) (*Device, bool) {
	g.deviceLock.RLock()
	defer g.deviceLock.RUnlock()

	device, found := g.device[serial]
	return device, found
}

// addDeviceIfAbsent inserts d unless another goroutine already tracks the
// serial, returning whichever device ended up in the table. The re-check
// under the write lock is what makes lazy creation atomic across the
// refresh and client-handler goroutines.
func (g *Gateway) addDeviceIfAbsent(d *Device) (*Device, bool) {
	g.deviceLock.Lock()
	defer g.deviceLock.Unlock()

	if existing, found := g.device[d.serial]; found {
		return existing, false
	}

	g.device[d.serial] = d
	return d, true
}

func (g *Gateway) removeDevice(serial string) (*Device, bool) {
	g.deviceLock.Lock()
	defer g.deviceLock.Unlock()

	device, found := g.device[serial]
	delete(g.device, serial)
	return device, found
}

func (g *Gateway) getDevices() []*Device {
	g.deviceLock.RLock()
	defer g.deviceLock.RUnlock()

	devices := make([]*Device, 0, len(g.device))
	for _, d := range g.device {
		devices = append(devices, d)
	}
	return devices
}

// getDevicesByDeviceSerial returns every service of one physical device.
func (g *Gateway) getDevicesByDeviceSerial(deviceSerial string) []*Device {
	g.deviceLock.RLock()
	defer g.deviceLock.RUnlock()

	var devices []*Device
	for _, d := range g.device {
		if d.deviceSerial == deviceSerial {
			devices = append(devices, d)
		}
	}
	return devices
}

func (g *Gateway) getScene(id string) (*sceneSwitch, bool) {
	g.sceneLock.RLock()
	defer g.sceneLock.RUnlock()

	scene, found := g.scene[id]
	return scene, found
}

func (g *Gateway) addSceneIfAbsent(s *sceneSwitch) (*sceneSwitch, bool) {
	g.sceneLock.Lock()
	defer g.sceneLock.Unlock()

	if existing, found := g.scene[s.id]; found {
		return existing, false
	}

	g.scene[s.id] = s
	return s, true
}

func (g *Gateway) removeScene(id string) (*sceneSwitch, bool) {
	g.sceneLock.Lock()
	defer g.sceneLock.Unlock()

	scene, found := g.scene[id]
	delete(g.scene, id)
	return scene, found
}

// setRooms replaces the room map wholesale, a deleted or renamed room must
// not linger as a suggested area.
func (g *Gateway) setRooms(rooms map[string]string) {
	g.roomLock.Lock()
	defer g.roomLock.Unlock()

	g.room = rooms
}

func (g *Gateway) roomName(id string) string {
	g.roomLock.RLock()
	defer g.roomLock.RUnlock()

	return g.room[id]
}
