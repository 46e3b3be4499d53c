package tda

import (
	"sync"

	"github.com/rxwen/tda/terncy"
)

// AttrListener receives attribute reports for one service.
type AttrListener func(attrs []terncy.AttrValue)

// listenerRegistry fans attribute reports out to the listeners subscribed
// to a serial. Callbacks are invoked without the registry lock held, a
// listener may unsubscribe itself.
type listenerRegistry struct {
	lock     *sync.RWMutex
	listener map[string]map[int]AttrListener
	next     int
}

func newListenerRegistry() *listenerRegistry {
	return &listenerRegistry{
		lock:     &sync.RWMutex{},
		listener: make(map[string]map[int]AttrListener),
	}
}

// Add subscribes a listener to a serial, returning its unsubscribe
// function.
func (r *listenerRegistry) Add(serial string, l AttrListener) func() {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.listener[serial] == nil {
		r.listener[serial] = make(map[int]AttrListener)
	}

	id := r.next
	r.next++
	r.listener[serial][id] = l

	return func() {
		r.lock.Lock()
		defer r.lock.Unlock()

		delete(r.listener[serial], id)
		if len(r.listener[serial]) == 0 {
			delete(r.listener, serial)
		}
	}
}

// Publish delivers attributes to every listener of a serial, returning
// whether any listener was subscribed.
func (r *listenerRegistry) Publish(serial string, attrs []terncy.AttrValue) bool {
	r.lock.RLock()
	snapshot := make([]AttrListener, 0, len(r.listener[serial]))
	for _, l := range r.listener[serial] {
		snapshot = append(snapshot, l)
	}
	r.lock.RUnlock()

	for _, l := range snapshot {
		l(attrs)
	}

	return len(snapshot) > 0
}

// Has reports whether any listener is subscribed to a serial.
func (r *listenerRegistry) Has(serial string) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.listener[serial]) > 0
}
