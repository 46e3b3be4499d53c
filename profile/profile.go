// Package profile maps Terncy device profile numbers to the entity
// descriptions that make up a service of that kind.
package profile

import "github.com/rxwen/tda/entity"

// Profile numbers assigned by the hub firmware.
const (
	PIR                           = 0
	Plug                          = 1
	OnOffLight                    = 2
	DoorSensor                    = 3
	Switch                        = 4
	Curtain                       = 5
	YanButton                     = 6
	SmartDial                     = 7
	ColorLight                    = 8
	Lock                          = 11
	ExtendedColorLight            = 12
	ColorTemperatureLight         = 13
	TemperatureHumidity           = 15
	DimmableColorTemperatureLight = 17
	MotionSensor                  = 18
	DimmableLight                 = 19
	DimmableLight2                = 20
	GasSensor                     = 24
	ColorDimmableLight            = 26
	ExtendedColorLight2           = 27
)

func temperature() entity.Description {
	return entity.Description{
		Platform:          entity.PlatformSensor,
		Key:               "temperature",
		SubKey:            "temperature",
		DeviceClass:       "temperature",
		OldUniqueIDSuffix: "_temptemp",
		Options: entity.SensorOptions{
			ValueAttr: "temperature",
			Unit:      "°C",
			Precision: 1,
			Transform: func(v int64) float64 { return float64(v) / 10 },
		},
	}
}

func humidity() entity.Description {
	return entity.Description{
		Platform:          entity.PlatformSensor,
		Key:               "humidity",
		SubKey:            "humidity",
		DeviceClass:       "humidity",
		OldUniqueIDSuffix: "_himidityhumidity",
		Options:           entity.SensorOptions{ValueAttr: "humidity", Unit: "%"},
	}
}

func illuminance() entity.Description {
	return entity.Description{
		Platform:          entity.PlatformSensor,
		Key:               "illuminance",
		SubKey:            "illuminance",
		DeviceClass:       "illuminance",
		OldUniqueIDSuffix: "_illu-illumin",
		Options:           entity.SensorOptions{ValueAttr: "luminance", Unit: "lx"},
	}
}

func battery() entity.Description {
	return entity.Description{
		Platform:    entity.PlatformSensor,
		Key:         "battery",
		SubKey:      "battery",
		Category:    entity.CategoryDiagnostic,
		DeviceClass: "battery",
		Options:     entity.SensorOptions{ValueAttr: "battery", Unit: "%"},
	}
}

func motion(subKey, valueAttr string, requiredAttrs ...string) entity.Description {
	return entity.Description{
		Platform:      entity.PlatformBinarySensor,
		Key:           "motion",
		SubKey:        subKey,
		DeviceClass:   "motion",
		RequiredAttrs: requiredAttrs,
		Options:       entity.BinarySensorOptions{ValueAttr: valueAttr},
	}
}

func light(mode entity.ColorMode, supported ...entity.ColorMode) entity.Description {
	return entity.Description{
		Platform: entity.PlatformLight,
		Key:      "light",
		Options:  entity.LightOptions{ColorMode: mode, SupportedColorModes: supported},
	}
}

func button(eventTypes []string) entity.Description {
	return entity.Description{
		Platform:    entity.PlatformEvent,
		Key:         "event_button",
		SubKey:      "button",
		DeviceClass: "button",
		Options:     entity.EventOptions{EventTypes: eventTypes},
	}
}

var profiles = map[int][]entity.Description{
	PIR: {
		temperature(),
		illuminance(),
		battery(),
		motion("motionl", "motionL"),
		motion("motionr", "motionR"),
		{
			Platform:          entity.PlatformBinarySensor,
			Key:               "motion",
			SubKey:            "motion",
			DeviceClass:       "motion",
			DisabledByDefault: true,
			Options:           entity.BinarySensorOptions{ValueAttr: "motion"},
		},
		button(entity.ButtonEvents),
	},
	Plug: {
		{
			Platform:    entity.PlatformSwitch,
			Key:         "switch",
			DeviceClass: "outlet",
			Options:     entity.SwitchOptions{ValueAttr: entity.AttrOn},
		},
	},
	OnOffLight: {
		{
			Platform:    entity.PlatformSwitch,
			Key:         entity.KeyWallSwitch,
			DeviceClass: "switch",
			Options:     entity.SwitchOptions{ValueAttr: entity.AttrOn},
		},
		{
			Platform: entity.PlatformSwitch,
			Key:      "switch",
			SubKey:   "pure_input",
			Category: entity.CategoryConfig,
			Icon:     "mdi:remote",
			Options:  entity.SwitchOptions{ValueAttr: entity.AttrPureInput},
		},
		{
			Platform: entity.PlatformSwitch,
			Key:      entity.KeyDisableRelay,
			SubKey:   "disable_relay",
			Category: entity.CategoryConfig,
			Options:  entity.SwitchOptions{ValueAttr: entity.AttrDisableRelay},
		},
		{
			Platform: entity.PlatformSwitch,
			Key:      entity.KeyDisabledRelayStatus,
			SubKey:   "disabled_relay_status",
			Category: entity.CategoryConfig,
			Options:  entity.SwitchOptions{ValueAttr: entity.AttrDisabledRelayStatus},
		},
		button(entity.ButtonEvents),
	},
	DoorSensor: {
		{
			Platform:    entity.PlatformBinarySensor,
			Key:         "contact",
			DeviceClass: "door",
			Options:     entity.BinarySensorOptions{ValueAttr: "contact"},
		},
		temperature(),
		battery(),
	},
	Switch: {
		{
			Platform:    entity.PlatformSwitch,
			Key:         "switch",
			DeviceClass: "switch",
			Options:     entity.SwitchOptions{ValueAttr: entity.AttrOn},
		},
		button(entity.ButtonEvents),
	},
	Curtain: {
		{
			Platform:    entity.PlatformCover,
			Key:         "cover",
			DeviceClass: "curtain",
		},
	},
	YanButton: {
		button(entity.ButtonEvents),
	},
	SmartDial: {
		battery(),
		button(entity.DialEvents),
	},
	ColorLight: {
		light(entity.ColorModeHS, entity.ColorModeHS),
	},
	Lock: {
		{
			Platform:    entity.PlatformBinarySensor,
			Key:         "lock",
			DeviceClass: "lock",
			Options: entity.BinarySensorOptions{
				ValueAttr: "lockState",
				ValueMap:  map[int64]bool{1: false, 2: true},
			},
		},
		battery(),
	},
	ExtendedColorLight: {
		light(entity.ColorModeHS, entity.ColorModeColorTemp, entity.ColorModeHS),
	},
	ColorTemperatureLight: {
		light(entity.ColorModeColorTemp, entity.ColorModeColorTemp),
	},
	TemperatureHumidity: {
		temperature(),
		humidity(),
		battery(),
	},
	DimmableColorTemperatureLight: {
		light(entity.ColorModeColorTemp, entity.ColorModeColorTemp),
	},
	MotionSensor: {
		motion("motion", "motion"),
		{
			Platform:      entity.PlatformSensor,
			Key:           "battery",
			SubKey:        "battery",
			Category:      entity.CategoryDiagnostic,
			DeviceClass:   "battery",
			RequiredAttrs: []string{"battery"},
			Options:       entity.SensorOptions{ValueAttr: "battery", Unit: "%"},
		},
		motion("motionl", "motionL", "motionL"),
		motion("motionr", "motionR", "motionR"),
	},
	DimmableLight: {
		light(entity.ColorModeBrightness, entity.ColorModeBrightness),
	},
	DimmableLight2: {
		light(entity.ColorModeBrightness, entity.ColorModeBrightness),
	},
	GasSensor: {
		{
			Platform:    entity.PlatformBinarySensor,
			Key:         "gas",
			SubKey:      "gas",
			DeviceClass: "gas",
			Options: entity.BinarySensorOptions{
				ValueAttr: "iasZoneStatus",
				ValueMap:  map[int64]bool{32: false, 33: true},
			},
		},
	},
	ColorDimmableLight: {
		light(entity.ColorModeHS, entity.ColorModeColorTemp, entity.ColorModeHS),
	},
	ExtendedColorLight2: {
		light(entity.ColorModeHS, entity.ColorModeColorTemp, entity.ColorModeHS),
	},
}

// Descriptions returns the entity set for a profile number. The second
// return is false for profiles the engine does not support.
func Descriptions(profile int) ([]entity.Description, bool) {
	descs, ok := profiles[profile]
	return descs, ok
}

// Extra resolves descriptions that are only reachable through selection
// rules, keyed by description id.
func Extra(id string) (entity.Description, bool) {
	switch id {
	case "cover.tilt_cover":
		return entity.Description{
			Platform:    entity.PlatformCover,
			Key:         "tilt_cover",
			DeviceClass: "blind",
			Options:     entity.CoverOptions{Tilt: true},
		}, true
	case "climate.climate":
		return entity.Description{
			Platform: entity.PlatformClimate,
			Key:      "climate",
		}, true
	default:
		return entity.Description{}, false
	}
}

// TriggerActions lists the automation trigger actions a profile can emit,
// empty for profiles without buttons.
func TriggerActions(profile int) []string {
	switch profile {
	case PIR, OnOffLight, Switch, YanButton:
		return []string{entity.EventSinglePress, entity.EventDoublePress, entity.EventTriplePress, entity.EventLongPress}
	case SmartDial:
		return []string{entity.EventSinglePress, entity.EventDoublePress, entity.EventTriplePress, entity.EventLongPress, entity.EventRotation}
	default:
		return nil
	}
}
