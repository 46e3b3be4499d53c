package entity

import (
	"fmt"

	"github.com/rxwen/tda/terncy"
)

// Create constructs the entity for a description. Dispatch is two level,
// specialised (platform, key) pairs first, then the platform default.
func Create(api API, eid string, d Description) (Entity, error) {
	switch d.Platform {
	case PlatformSwitch:
		switch d.Key {
		case KeyWallSwitch:
			return NewWallSwitch(api, eid, d), nil
		case KeyDisableRelay:
			return NewDisableRelaySwitch(api, eid, d), nil
		case KeyDisabledRelayStatus:
			return NewDisabledRelayStatusSwitch(api, eid, d), nil
		default:
			return NewSwitch(api, eid, d), nil
		}
	case PlatformLight:
		return NewLight(api, eid, d), nil
	case PlatformCover:
		return NewCover(api, eid, d), nil
	case PlatformSensor:
		return NewSensor(api, eid, d), nil
	case PlatformBinarySensor:
		return NewBinarySensor(api, eid, d), nil
	case PlatformClimate:
		return NewClimate(api, eid, d), nil
	case PlatformEvent:
		return NewButton(api, eid, d), nil
	default:
		return nil, fmt.Errorf("unknown platform: %s", d.Platform)
	}
}

// HasRequiredAttrs reports whether every attribute a description requires is
// present in the service's attribute list.
func HasRequiredAttrs(d Description, attrs []terncy.AttrValue) bool {
	for _, required := range d.RequiredAttrs {
		if _, ok := terncy.GetAttrValue(attrs, required); !ok {
			return false
		}
	}

	return true
}
