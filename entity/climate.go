package entity

import (
	"context"
	"fmt"

	"github.com/rxwen/tda/terncy"
)

// Climate attribute keys. acMode values: 1 cool, 2 dry, 4 fan, 8 heat.
// acFanSpeed values: 1 high, 2 medium, 4 low.
const (
	AttrACMode               = "acMode"
	AttrACFanSpeed           = "acFanSpeed"
	AttrACCurrentTemperature = "acCurrentTemperature"
	AttrACTargetTemperature  = "acTargetTemperature"
	AttrACRunning            = "acRunning"
)

// HVAC modes reported in ClimateState.
const (
	HVACOff     = "off"
	HVACCool    = "cool"
	HVACDry     = "dry"
	HVACFanOnly = "fan_only"
	HVACHeat    = "heat"
)

// Fan modes reported in ClimateState.
const (
	FanHigh   = "high"
	FanMedium = "medium"
	FanLow    = "low"
)

const (
	defaultMinTemperature = 16
	defaultMaxTemperature = 30
)

var hvacModeValues = map[string]int64{
	HVACCool:    1,
	HVACDry:     2,
	HVACFanOnly: 4,
	HVACHeat:    8,
}

var fanModeValues = map[string]int64{
	FanHigh:   1,
	FanMedium: 2,
	FanLow:    4,
}

// Climate is an air conditioner gateway service. A reported acRunning of
// zero overrides the mode to off.
type Climate struct {
	base

	minTemp float64
	maxTemp float64

	mode        string
	fanMode     string
	currentTemp float64
	targetTemp  float64
}

var _ Entity = (*Climate)(nil)

func NewClimate(api API, eid string, d Description) *Climate {
	c := &Climate{
		base:    newBase(api, eid, d),
		minTemp: defaultMinTemperature,
		maxTemp: defaultMaxTemperature,
	}

	if o, ok := d.Options.(ClimateOptions); ok {
		if o.MinTemperature != 0 {
			c.minTemp = o.MinTemperature
		}
		if o.MaxTemperature != 0 {
			c.maxTemp = o.MaxTemperature
		}
	}

	return c
}

func (c *Climate) UpdateState(attrs []terncy.AttrValue) {
	c.m.Lock()
	if v, ok := terncy.GetAttrValue(attrs, AttrACMode); ok {
		switch v {
		case 1:
			c.mode = HVACCool
		case 2:
			c.mode = HVACDry
		case 4:
			c.mode = HVACFanOnly
		case 8:
			c.mode = HVACHeat
		default:
			c.mode = ""
		}
	}
	if v, ok := terncy.GetAttrValue(attrs, AttrACRunning); ok && v == 0 {
		c.mode = HVACOff
	}
	if v, ok := terncy.GetAttrValue(attrs, AttrACFanSpeed); ok {
		switch v {
		case 1:
			c.fanMode = FanHigh
		case 2:
			c.fanMode = FanMedium
		case 4:
			c.fanMode = FanLow
		default:
			c.fanMode = ""
		}
	}
	if v, ok := terncy.GetAttrValue(attrs, AttrACCurrentTemperature); ok {
		c.currentTemp = float64(v)
	}
	if v, ok := terncy.GetAttrValue(attrs, AttrACTargetTemperature); ok {
		c.targetTemp = float64(v)
	}
	c.m.Unlock()

	c.publishState()
}

func (c *Climate) SetAvailable(available bool) {
	c.m.Lock()
	c.available = available
	c.m.Unlock()

	c.publishState()
}

func (c *Climate) SetTargetTemperature(ctx context.Context, temperature float64) error {
	if temperature < c.minTemp || temperature > c.maxTemp {
		return fmt.Errorf("target temperature %.1f out of range %.0f-%.0f", temperature, c.minTemp, c.maxTemp)
	}

	if err := c.api.SetAttribute(ctx, c.eid, AttrACTargetTemperature, int64(temperature)); err != nil {
		return err
	}

	c.m.Lock()
	c.targetTemp = temperature
	c.m.Unlock()

	c.publishState()
	return nil
}

func (c *Climate) SetMode(ctx context.Context, mode string) error {
	if mode == HVACOff {
		if err := c.api.SetAttribute(ctx, c.eid, AttrACRunning, 0); err != nil {
			return err
		}
	} else {
		v, ok := hvacModeValues[mode]
		if !ok {
			return fmt.Errorf("unsupported hvac mode: %s", mode)
		}
		if err := c.api.SetAttribute(ctx, c.eid, AttrACMode, v); err != nil {
			return err
		}
	}

	c.m.Lock()
	c.mode = mode
	c.m.Unlock()

	c.publishState()
	return nil
}

func (c *Climate) SetFanMode(ctx context.Context, fanMode string) error {
	v, ok := fanModeValues[fanMode]
	if !ok {
		return fmt.Errorf("unsupported fan mode: %s", fanMode)
	}

	if err := c.api.SetAttribute(ctx, c.eid, AttrACFanSpeed, v); err != nil {
		return err
	}

	c.m.Lock()
	c.fanMode = fanMode
	c.m.Unlock()

	c.publishState()
	return nil
}

func (c *Climate) TurnOn(ctx context.Context) error {
	return c.api.SetAttribute(ctx, c.eid, AttrACRunning, 1)
}

func (c *Climate) TurnOff(ctx context.Context) error {
	return c.api.SetAttribute(ctx, c.eid, AttrACRunning, 0)
}

func (c *Climate) publishState() {
	c.m.RLock()
	state := ClimateState{
		EID:                c.eid,
		UniqueID:           c.uniqueID,
		Mode:               c.mode,
		FanMode:            c.fanMode,
		CurrentTemperature: c.currentTemp,
		TargetTemperature:  c.targetTemp,
		Available:          c.available,
	}
	c.m.RUnlock()

	c.api.SendEvent(state)
}
