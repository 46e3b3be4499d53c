package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestButton(t *testing.T) {
	t.Run("publishes known event types with their payload", func(t *testing.T) {
		api := &MockAPI{}
		defer api.AssertExpectations(t)

		b := NewButton(api, "btn-01", Description{Platform: PlatformEvent, Key: "event_button", SubKey: "button"})

		api.On("SendEvent", ButtonEvent{
			EID:       "btn-01",
			UniqueID:  "btn-01_button",
			EventType: EventDoublePress,
			Data:      map[string]any{"click_times": 2},
		}).Once()

		b.TriggerEvent(EventDoublePress, map[string]any{"click_times": 2})
	})

	t.Run("drops event types outside its set", func(t *testing.T) {
		api := &MockAPI{}
		defer api.AssertExpectations(t)

		b := NewButton(api, "btn-01", Description{Platform: PlatformEvent, Key: "event_button", SubKey: "button"})

		b.TriggerEvent(EventRotation, nil)
	})

	t.Run("a dial surfaces rotation", func(t *testing.T) {
		api := &MockAPI{}
		defer api.AssertExpectations(t)

		b := NewButton(api, "dial-01", Description{
			Platform: PlatformEvent,
			Key:      "event_button",
			SubKey:   "button",
			Options:  EventOptions{EventTypes: DialEvents},
		})

		assert.Contains(t, b.EventTypes(), EventRotation)

		api.On("SendEvent", ButtonEvent{
			EID:       "dial-01",
			UniqueID:  "dial-01_button",
			EventType: EventRotation,
		}).Once()

		b.TriggerEvent(EventRotation, nil)
	})
}
