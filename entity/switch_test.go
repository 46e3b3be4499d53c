package entity

import (
	"context"
	"testing"

	"github.com/rxwen/tda/terncy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSwitch(t *testing.T) {
	t.Run("publishes on state from the value attribute", func(t *testing.T) {
		api := &MockAPI{}
		defer api.AssertExpectations(t)

		s := NewSwitch(api, "dev-01", Description{Platform: PlatformSwitch, Key: "switch"})

		api.On("SendEvent", SwitchState{EID: "dev-01", UniqueID: "dev-01", On: true, Available: true}).Once()
		s.UpdateState([]terncy.AttrValue{{Attr: "on", Value: 1}})
	})

	t.Run("ignores attributes it does not consume", func(t *testing.T) {
		api := &MockAPI{}
		defer api.AssertExpectations(t)

		s := NewSwitch(api, "dev-01", Description{Platform: PlatformSwitch, Key: "switch"})

		api.On("SendEvent", SwitchState{EID: "dev-01", UniqueID: "dev-01", On: false, Available: true}).Once()
		s.UpdateState([]terncy.AttrValue{{Attr: "brightness", Value: 50}})
	})

	t.Run("inverts wire values when configured", func(t *testing.T) {
		api := &MockAPI{}
		defer api.AssertExpectations(t)

		s := NewSwitch(api, "dev-01", Description{
			Platform: PlatformSwitch,
			Key:      "switch",
			Options:  SwitchOptions{InvertState: true},
		})

		api.On("SendEvent", SwitchState{EID: "dev-01", UniqueID: "dev-01", On: true, Available: true}).Once()
		s.UpdateState([]terncy.AttrValue{{Attr: "on", Value: 0}})
	})

	t.Run("turn on sends the command and echoes state", func(t *testing.T) {
		api := &MockAPI{}
		defer api.AssertExpectations(t)

		s := NewSwitch(api, "dev-01", Description{Platform: PlatformSwitch, Key: "switch"})

		api.On("SetAttribute", mock.Anything, "dev-01", "on", int64(1)).Return(nil).Once()
		api.On("SendEvent", SwitchState{EID: "dev-01", UniqueID: "dev-01", On: true, Available: true}).Once()

		assert.NoError(t, s.TurnOn(context.Background()))
	})

	t.Run("retains state across unavailability", func(t *testing.T) {
		api := &MockAPI{}
		defer api.AssertExpectations(t)

		s := NewSwitch(api, "dev-01", Description{Platform: PlatformSwitch, Key: "switch"})

		api.On("SendEvent", SwitchState{EID: "dev-01", UniqueID: "dev-01", On: true, Available: true}).Once()
		s.UpdateState([]terncy.AttrValue{{Attr: "on", Value: 1}})

		api.On("SendEvent", SwitchState{EID: "dev-01", UniqueID: "dev-01", On: true, Available: false}).Once()
		s.SetAvailable(false)

		api.On("SendEvent", SwitchState{EID: "dev-01", UniqueID: "dev-01", On: true, Available: true}).Once()
		s.SetAvailable(true)
	})
}

func TestWallSwitch(t *testing.T) {
	t.Run("reports unavailable while the relay is disabled", func(t *testing.T) {
		api := &MockAPI{}
		defer api.AssertExpectations(t)

		s := NewWallSwitch(api, "dev-01", Description{Platform: PlatformSwitch, Key: KeyWallSwitch})

		api.On("SendEvent", SwitchState{EID: "dev-01", UniqueID: "dev-01", On: true, Available: false}).Once()
		s.UpdateState([]terncy.AttrValue{
			{Attr: "on", Value: 1},
			{Attr: "disableRelay", Value: 1},
		})

		api.On("SendEvent", SwitchState{EID: "dev-01", UniqueID: "dev-01", On: true, Available: true}).Once()
		s.UpdateState([]terncy.AttrValue{{Attr: "disableRelay", Value: 0}})
	})
}

func TestDisableRelaySwitch(t *testing.T) {
	t.Run("only available in pure input mode", func(t *testing.T) {
		api := &MockAPI{}
		defer api.AssertExpectations(t)

		s := NewDisableRelaySwitch(api, "dev-01", Description{Platform: PlatformSwitch, Key: KeyDisableRelay, SubKey: "disable_relay"})

		api.On("SendEvent", SwitchState{EID: "dev-01", UniqueID: "dev-01_disable_relay", On: true, Available: false}).Once()
		s.UpdateState([]terncy.AttrValue{{Attr: "disableRelay", Value: 1}})

		api.On("SendEvent", SwitchState{EID: "dev-01", UniqueID: "dev-01_disable_relay", On: true, Available: true}).Once()
		s.UpdateState([]terncy.AttrValue{{Attr: "pureInput", Value: 1}})
	})
}

func TestDisabledRelayStatusSwitch(t *testing.T) {
	t.Run("requires pure input and a disabled relay", func(t *testing.T) {
		api := &MockAPI{}
		defer api.AssertExpectations(t)

		s := NewDisabledRelayStatusSwitch(api, "dev-01", Description{Platform: PlatformSwitch, Key: KeyDisabledRelayStatus, SubKey: "disabled_relay_status"})

		api.On("SendEvent", SwitchState{EID: "dev-01", UniqueID: "dev-01_disabled_relay_status", On: true, Available: false}).Once()
		s.UpdateState([]terncy.AttrValue{
			{Attr: "pureInput", Value: 1},
			{Attr: "disabledRelayStatus", Value: 1},
		})

		api.On("SendEvent", SwitchState{EID: "dev-01", UniqueID: "dev-01_disabled_relay_status", On: true, Available: true}).Once()
		s.UpdateState([]terncy.AttrValue{{Attr: "disableRelay", Value: 1}})
	})
}
