package entity

import (
	"context"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rxwen/tda/terncy"
)

// Light attribute keys.
const (
	AttrBrightness       = "brightness"
	AttrColorTemperature = "colorTemperature"
	AttrHue              = "hue"
	AttrSaturation       = "saturation"
)

// Colour temperature bounds in mireds, as enforced by the hub firmware.
const (
	MinColorTemp = 50
	MaxColorTemp = 400
)

// LightCommand carries the optional parameters of a turn-on request. Nil
// fields leave the corresponding channel untouched.
type LightCommand struct {
	Brightness *int // 0-255
	ColorTemp  *int // mireds
	Hue        *float64
	Saturation *float64
}

// Light covers all lamp profiles. The wire protocol uses 0-100 brightness
// and byte-scaled hue/saturation, state is reported in the conventional
// 0-255 / degrees / percent ranges.
type Light struct {
	base

	colorMode ColorMode
	modes     []ColorMode

	on         bool
	brightness int
	colorTemp  int
	hue        float64
	saturation float64
}

var _ Entity = (*Light)(nil)
var _ OnOff = (*Light)(nil)

func NewLight(api API, eid string, d Description) *Light {
	l := &Light{base: newBase(api, eid, d)}

	if o, ok := d.Options.(LightOptions); ok {
		l.colorMode = o.ColorMode
		l.modes = o.SupportedColorModes
	}

	return l
}

func (l *Light) supports(mode ColorMode) bool {
	for _, m := range l.modes {
		if m == mode {
			return true
		}
	}
	return false
}

func (l *Light) UpdateState(attrs []terncy.AttrValue) {
	l.m.Lock()
	if v, ok := terncy.GetAttrValue(attrs, AttrOn); ok {
		l.on = v == 1
	}
	if v, ok := terncy.GetAttrValue(attrs, AttrBrightness); ok && v != 0 {
		l.brightness = int(float64(v) / 100 * 255)
	}
	if v, ok := terncy.GetAttrValue(attrs, AttrColorTemperature); ok {
		l.colorTemp = int(v)
	}
	if v, ok := terncy.GetAttrValue(attrs, AttrHue); ok {
		l.hue = float64(v) / 255 * 360
	}
	if v, ok := terncy.GetAttrValue(attrs, AttrSaturation); ok {
		l.saturation = float64(v) / 255 * 100
	}
	l.m.Unlock()

	l.publishState()
}

func (l *Light) SetAvailable(available bool) {
	l.m.Lock()
	l.available = available
	l.m.Unlock()

	l.publishState()
}

func (l *Light) TurnOn(ctx context.Context) error {
	return l.TurnOnWith(ctx, LightCommand{})
}

func (l *Light) TurnOnWith(ctx context.Context, cmd LightCommand) error {
	attrs := []terncy.AttrValue{{Attr: AttrOn, Value: 1}}

	if cmd.Brightness != nil {
		wire := int64(math.Ceil(float64(*cmd.Brightness) / 255 * 100))
		attrs = append(attrs, terncy.AttrValue{Attr: AttrBrightness, Value: wire})
	}

	if cmd.ColorTemp != nil {
		ct := *cmd.ColorTemp
		if ct < MinColorTemp {
			ct = MinColorTemp
		}
		if ct > MaxColorTemp {
			ct = MaxColorTemp
		}
		attrs = append(attrs, terncy.AttrValue{Attr: AttrColorTemperature, Value: int64(ct)})
	}

	if cmd.Hue != nil {
		attrs = append(attrs, terncy.AttrValue{Attr: AttrHue, Value: int64(*cmd.Hue / 360 * 255)})
	}
	if cmd.Saturation != nil {
		attrs = append(attrs, terncy.AttrValue{Attr: AttrSaturation, Value: int64(*cmd.Saturation / 100 * 255)})
	}

	if err := l.api.SetAttributes(ctx, l.eid, attrs); err != nil {
		return err
	}

	l.m.Lock()
	l.on = true
	if cmd.Brightness != nil {
		l.brightness = *cmd.Brightness
	}
	if cmd.ColorTemp != nil {
		l.colorTemp = clampInt(*cmd.ColorTemp, MinColorTemp, MaxColorTemp)
	}
	if cmd.Hue != nil {
		l.hue = *cmd.Hue
	}
	if cmd.Saturation != nil {
		l.saturation = *cmd.Saturation
	}
	l.m.Unlock()

	l.publishState()
	return nil
}

func (l *Light) TurnOff(ctx context.Context) error {
	if err := l.api.SetAttribute(ctx, l.eid, AttrOn, 0); err != nil {
		return err
	}

	l.m.Lock()
	l.on = false
	l.m.Unlock()

	l.publishState()
	return nil
}

func (l *Light) publishState() {
	l.m.RLock()
	state := LightState{
		EID:        l.eid,
		UniqueID:   l.uniqueID,
		On:         l.on,
		Brightness: l.brightness,
		ColorTemp:  l.colorTemp,
		Hue:        l.hue,
		Saturation: l.saturation,
		Available:  l.available,
	}
	if l.supports(ColorModeHS) {
		state.RGBHex = colorful.Hsv(l.hue, l.saturation/100, 1.0).Hex()
	}
	l.m.RUnlock()

	l.api.SendEvent(state)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
