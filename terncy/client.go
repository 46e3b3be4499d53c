package terncy

import "context"

// Event types carried by EventMessage.
const (
	EventTypeReport          = "report"
	EventTypeKeyPressed      = "keyPressed"
	EventTypeKeyLongPressed  = "keyLongPressed"
	EventTypeRotation        = "rotation"
	EventTypeEntityAvailable = "entityAvailable"
	EventTypeEntityDeleted   = "entityDeleted"
	EventTypeEntityCreated   = "entityCreated"
	EventTypeEntityUpdated   = "entityUpdated"
	EventTypeOffline         = "offline"
)

// Entity types understood by GetEntities and found in event payloads.
const (
	EntityTypeDevice      = "device"
	EntityTypeDeviceGroup = "devicegroup"
	EntityTypeScene       = "scene"
	EntityTypeRoom        = "room"
	EntityTypeToken       = "token"
	EntityTypeUser        = "user"
)

// Connected is emitted by the client once the hub session is established.
type Connected struct{}

// Disconnected is emitted when the hub session drops, for any reason.
type Disconnected struct{}

// EventMessage is a typed message pushed by the hub.
type EventMessage struct {
	Type     string
	Entities []EntityData
}

// Client is the hub transport. Implementations own the socket; consumers
// receive Connected, Disconnected and EventMessage values through the
// registered handler.
type Client interface {
	// Connect blocks until the session is established or fails. Session
	// loss after a successful Connect arrives as a Disconnected event.
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsConnected() bool

	// DevID returns the hub identifier, e.g. "box-aa-bb-cc-dd-ee-ff".
	DevID() string
	SetAddress(host string, port int)

	GetEntities(ctx context.Context, entityType string, forceRefresh bool) (*EntitiesResponse, error)
	SetAttribute(ctx context.Context, eid string, attr string, value int64, method int) error
	SetAttributes(ctx context.Context, eid string, attrs []AttrValue, method int) error

	RegisterEventHandler(handler func(any))
}
