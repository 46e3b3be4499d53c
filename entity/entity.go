package entity

import (
	"context"

	"github.com/rxwen/tda/terncy"
	"github.com/shimmeringbee/logwrap"
)

// API is the gateway surface entities use to send commands and publish
// state. Implemented by a gateway shim, injected at construction.
type API interface {
	SetAttribute(ctx context.Context, eid string, attr string, value int64) error
	SetAttributes(ctx context.Context, eid string, attrs []terncy.AttrValue) error
	SendEvent(event any)
	Logger() logwrap.Logger
}

// Entity is a single upward-facing control or sensor bound to one service
// serial. Implementations publish a full state event through the API on
// every change.
type Entity interface {
	EID() string
	UniqueID() string
	Description() Description

	// UpdateState applies a batch of attribute samples. Attributes the
	// entity does not consume are ignored.
	UpdateState(attrs []terncy.AttrValue)

	// SetAvailable marks the entity reachable or not. State is retained
	// across unavailability.
	SetAvailable(available bool)
}

// EventCapable is implemented by entities that surface stateless device
// events, e.g. button presses.
type EventCapable interface {
	Entity

	TriggerEvent(eventType string, data map[string]any)
	EventTypes() []string
}
