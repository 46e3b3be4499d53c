package entity

import (
	"context"
	"testing"

	"github.com/rxwen/tda/terncy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func lightStateArg(api *MockAPI) *LightState {
	state := &LightState{}
	api.On("SendEvent", mock.AnythingOfType("entity.LightState")).Run(func(args mock.Arguments) {
		*state = args.Get(0).(LightState)
	})
	return state
}

func TestLight_UpdateState(t *testing.T) {
	t.Run("scales brightness from the hub range to 0-255", func(t *testing.T) {
		api := &MockAPI{}
		state := lightStateArg(api)

		l := NewLight(api, "lamp-01", Description{
			Platform: PlatformLight,
			Key:      "light",
			Options:  LightOptions{ColorMode: ColorModeBrightness, SupportedColorModes: []ColorMode{ColorModeBrightness}},
		})

		l.UpdateState([]terncy.AttrValue{
			{Attr: "on", Value: 1},
			{Attr: "brightness", Value: 100},
		})

		assert.True(t, state.On)
		assert.Equal(t, 255, state.Brightness)
	})

	t.Run("a zero brightness report leaves the level untouched", func(t *testing.T) {
		api := &MockAPI{}
		state := lightStateArg(api)

		l := NewLight(api, "lamp-01", Description{Platform: PlatformLight, Key: "light"})

		l.UpdateState([]terncy.AttrValue{{Attr: "brightness", Value: 50}})
		l.UpdateState([]terncy.AttrValue{{Attr: "on", Value: 0}, {Attr: "brightness", Value: 0}})

		assert.Equal(t, 127, state.Brightness)
	})

	t.Run("scales hue and saturation from wire bytes and derives a colour hex", func(t *testing.T) {
		api := &MockAPI{}
		state := lightStateArg(api)

		l := NewLight(api, "lamp-01", Description{
			Platform: PlatformLight,
			Key:      "light",
			Options:  LightOptions{ColorMode: ColorModeHS, SupportedColorModes: []ColorMode{ColorModeHS}},
		})

		l.UpdateState([]terncy.AttrValue{
			{Attr: "hue", Value: 0},
			{Attr: "saturation", Value: 255},
		})

		assert.Equal(t, 0.0, state.Hue)
		assert.Equal(t, 100.0, state.Saturation)
		assert.Equal(t, "#ff0000", state.RGBHex)
	})
}

func TestLight_TurnOnWith(t *testing.T) {
	t.Run("bundles channels into one attribute batch and clamps colour temperature", func(t *testing.T) {
		api := &MockAPI{}
		defer api.AssertExpectations(t)
		lightStateArg(api)

		l := NewLight(api, "lamp-01", Description{
			Platform: PlatformLight,
			Key:      "light",
			Options:  LightOptions{ColorMode: ColorModeColorTemp, SupportedColorModes: []ColorMode{ColorModeColorTemp}},
		})

		brightness := 255
		colorTemp := 500

		api.On("SetAttributes", mock.Anything, "lamp-01", []terncy.AttrValue{
			{Attr: "on", Value: 1},
			{Attr: "brightness", Value: 100},
			{Attr: "colorTemperature", Value: 400},
		}).Return(nil).Once()

		assert.NoError(t, l.TurnOnWith(context.Background(), LightCommand{
			Brightness: &brightness,
			ColorTemp:  &colorTemp,
		}))
	})

	t.Run("turn off sends a single attribute", func(t *testing.T) {
		api := &MockAPI{}
		defer api.AssertExpectations(t)
		lightStateArg(api)

		l := NewLight(api, "lamp-01", Description{Platform: PlatformLight, Key: "light"})

		api.On("SetAttribute", mock.Anything, "lamp-01", "on", int64(0)).Return(nil).Once()

		assert.NoError(t, l.TurnOff(context.Background()))
	})
}
