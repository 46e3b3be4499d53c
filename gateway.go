// Package tda bridges a Terncy hub to a device and entity model. It
// consumes the hub's event stream, reconciles the advertised services into
// platform entities, and republishes state upward through an event channel
// and per-serial listeners.
package tda

import (
	"context"
	"sync"
	"time"

	"github.com/rxwen/tda/discovery"
	"github.com/rxwen/tda/entity"
	"github.com/rxwen/tda/rules"
	"github.com/rxwen/tda/terncy"
	"github.com/shimmeringbee/callbacks"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/shimmeringbee/persistence"
	"golang.org/x/sync/semaphore"
)

// ConnectionState is the hub session lifecycle. Stopping is terminal.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
	Stopping
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case Stopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

const (
	// DefaultNetworkTimeout is the amount of time individual hub requests
	// are allowed to take before being abandoned.
	DefaultNetworkTimeout = 5 * time.Second
	// DefaultNetworkRetries is how often hub requests are retried before
	// the operation is failed.
	DefaultNetworkRetries = 3
	// DefaultReconnectDelay is how long the gateway waits after losing the
	// session before dialing again.
	DefaultReconnectDelay = 5 * time.Second

	manufacturerName = "Xiaoyan Tech."
)

// Config carries the static settings of one hub connection.
type Config struct {
	Name string
	Host string
	Port int

	ExportDeviceGroups bool
	ExportScenes       bool
}

type Gateway struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg     Config
	client  terncy.Client
	section persistence.Section
	logger  logwrap.Logger

	deviceLock *sync.RWMutex
	device     map[string]*Device

	sceneLock *sync.RWMutex
	scene     map[string]*sceneSwitch

	roomLock *sync.RWMutex
	room     map[string]string

	listeners *listenerRegistry
	callbacks callbacks.AdderCaller

	events chan any

	stateLock         *sync.Mutex
	state             ConnectionState
	retryOnDisconnect bool
	reconnectTimer    *time.Timer
	reconnectDelay    time.Duration

	refreshSem *semaphore.Weighted

	unsupportedLock *sync.Mutex
	unsupported     map[string]bool

	ruleEngine *rules.Engine
}

// New constructs a gateway for one hub. The client carries the transport,
// the section persists the device and entity registries across restarts.
func New(ctx context.Context, cfg Config, c terncy.Client, s persistence.Section) *Gateway {
	ctx, cancel := context.WithCancel(ctx)

	g := &Gateway{
		ctx:    ctx,
		cancel: cancel,

		cfg:     cfg,
		client:  c,
		section: s,
		logger:  logwrap.New(discard.Discard()),

		deviceLock: &sync.RWMutex{},
		device:     make(map[string]*Device),

		sceneLock: &sync.RWMutex{},
		scene:     make(map[string]*sceneSwitch),

		roomLock: &sync.RWMutex{},
		room:     make(map[string]string),

		listeners: newListenerRegistry(),
		callbacks: callbacks.Create(),

		events: make(chan any, 0xffff),

		stateLock:      &sync.Mutex{},
		state:          Disconnected,
		reconnectDelay: DefaultReconnectDelay,

		refreshSem: semaphore.NewWeighted(1),

		unsupportedLock: &sync.Mutex{},
		unsupported:     make(map[string]bool),

		ruleEngine: rules.MustNew(rules.Default()),
	}

	g.callbacks.Add(g.announceDeviceAdded)
	g.callbacks.Add(g.announceDeviceRemoved)

	return g
}

// WithRules replaces the built-in description selection rules.
func (g *Gateway) WithRules(rs []rules.Rule) error {
	e, err := rules.New(rs)
	if err != nil {
		return err
	}

	g.ruleEngine = e
	return nil
}

// HubID returns the identifier of the connected hub.
func (g *Gateway) HubID() string {
	return g.client.DevID()
}

// State returns the current connection state.
func (g *Gateway) State() ConnectionState {
	g.stateLock.Lock()
	defer g.stateLock.Unlock()

	return g.state
}

// Start registers for hub events and begins connecting if an address is
// known.
func (g *Gateway) Start() error {
	g.client.RegisterEventHandler(g.handleClientEvent)
	g.registryLoad()

	if g.cfg.Host != "" {
		g.client.SetAddress(g.cfg.Host, g.cfg.Port)
		go g.connect()
	}

	return nil
}

// ServiceDiscovered retargets the gateway at a freshly advertised address
// and connects if not already connected. Intended as the Browser's OnFound
// handler.
func (g *Gateway) ServiceDiscovered(svc discovery.Service) {
	g.client.SetAddress(svc.Host, svc.Port)

	g.stateLock.Lock()
	shouldConnect := g.state == Disconnected
	g.stateLock.Unlock()

	if shouldConnect {
		go g.connect()
	}
}

// ServiceLost stops reconnect attempts until the hub is advertised again.
func (g *Gateway) ServiceLost() {
	g.stateLock.Lock()
	g.retryOnDisconnect = false
	if g.reconnectTimer != nil {
		g.reconnectTimer.Stop()
		g.reconnectTimer = nil
	}
	g.stateLock.Unlock()

	g.logger.LogInfo(g.ctx, "Hub advertisement lost, reconnect suspended.")
}

// Stop disconnects and makes the gateway terminal. It must not be reused
// afterwards.
func (g *Gateway) Stop() error {
	g.stateLock.Lock()
	g.state = Stopping
	g.retryOnDisconnect = false
	if g.reconnectTimer != nil {
		g.reconnectTimer.Stop()
		g.reconnectTimer = nil
	}
	g.stateLock.Unlock()

	var err error
	if g.client.IsConnected() {
		err = g.client.Disconnect(g.ctx)
	}

	g.cancel()
	return err
}

func (g *Gateway) connect() {
	g.stateLock.Lock()
	if g.state != Disconnected {
		g.stateLock.Unlock()
		return
	}
	g.state = Connecting
	g.retryOnDisconnect = true
	g.stateLock.Unlock()

	g.logger.LogInfo(g.ctx, "Connecting to hub.", logwrap.Datum("hub", g.client.DevID()))

	if err := g.client.Connect(g.ctx); err != nil {
		g.logger.LogError(g.ctx, "Failed to connect to hub.", logwrap.Err(err))

		g.stateLock.Lock()
		if g.state == Connecting {
			g.state = Disconnected
		}
		g.stateLock.Unlock()

		g.scheduleReconnect()
	}
}

func (g *Gateway) scheduleReconnect() {
	g.stateLock.Lock()
	defer g.stateLock.Unlock()

	if !g.retryOnDisconnect || g.state == Stopping {
		return
	}

	if g.reconnectTimer != nil {
		g.reconnectTimer.Stop()
	}

	g.reconnectTimer = time.AfterFunc(g.reconnectDelay, func() {
		g.stateLock.Lock()
		g.reconnectTimer = nil
		g.stateLock.Unlock()

		g.connect()
	})
}

var _ entity.API = (*entityAPI)(nil)

// entityAPI is the gateway surface handed to entities.
type entityAPI struct {
	g *Gateway
}

func (a entityAPI) SetAttribute(ctx context.Context, eid string, attr string, value int64) error {
	return a.g.SetAttribute(ctx, eid, attr, value)
}

func (a entityAPI) SetAttributes(ctx context.Context, eid string, attrs []terncy.AttrValue) error {
	return a.g.SetAttributes(ctx, eid, attrs)
}

func (a entityAPI) SendEvent(e any) {
	a.g.sendEvent(e)
}

func (a entityAPI) Logger() logwrap.Logger {
	return a.g.logger
}
