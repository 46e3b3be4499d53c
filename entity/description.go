package entity

import "fmt"

// Platform identifies the upward surface an entity is exposed on.
type Platform string

const (
	PlatformBinarySensor Platform = "binary_sensor"
	PlatformClimate      Platform = "climate"
	PlatformCover        Platform = "cover"
	PlatformEvent        Platform = "event"
	PlatformLight        Platform = "light"
	PlatformSensor       Platform = "sensor"
	PlatformSwitch       Platform = "switch"
)

// Category marks entities that are configuration or diagnostic surfaces
// rather than primary controls.
type Category string

const (
	CategoryNone       Category = ""
	CategoryConfig     Category = "config"
	CategoryDiagnostic Category = "diagnostic"
)

// Keys with specialised behaviour in the factory.
const (
	KeyWallSwitch          = "wall_switch"
	KeyDisableRelay        = "disable_relay"
	KeyDisabledRelayStatus = "disabled_relay_status"
)

// Description declares one entity of a device profile. Descriptions compose a
// common header with a per-platform Options payload, they carry no behaviour
// themselves.
type Description struct {
	Platform Platform
	Key      string

	// SubKey distinguishes multiple entities of the same platform on one
	// service, and is appended to the unique id.
	SubKey string

	Name              string
	Category          Category
	DeviceClass       string
	Icon              string
	DisabledByDefault bool

	// UniqueIDPrefix is prepended to the unique id. Used for scene switches,
	// whose serials are not unique across hubs.
	UniqueIDPrefix string

	// OldUniqueIDSuffix names a legacy unique id this entity may have been
	// registered under, enabling a one-time registry migration.
	OldUniqueIDSuffix string

	// RequiredAttrs lists attribute keys that must be present on the service
	// for this entity to be created at all.
	RequiredAttrs []string

	// Options is the platform payload, e.g. SwitchOptions for
	// PlatformSwitch. Nil is valid for platforms without options.
	Options any
}

// ID names the description within a profile, used by selection rules.
func (d Description) ID() string {
	if d.SubKey != "" {
		return fmt.Sprintf("%s.%s.%s", d.Platform, d.Key, d.SubKey)
	}

	return fmt.Sprintf("%s.%s", d.Platform, d.Key)
}

// UniqueID derives the stable registry identity for this description bound
// to a service serial.
func (d Description) UniqueID(eid string) string {
	uniqueID := eid
	if d.SubKey != "" {
		uniqueID = fmt.Sprintf("%s_%s", uniqueID, d.SubKey)
	}
	if d.UniqueIDPrefix != "" {
		uniqueID = fmt.Sprintf("%s_%s", d.UniqueIDPrefix, uniqueID)
	}

	return uniqueID
}

// ColorMode enumerates the colour capabilities of a light.
type ColorMode string

const (
	ColorModeBrightness ColorMode = "brightness"
	ColorModeColorTemp  ColorMode = "color_temp"
	ColorModeHS         ColorMode = "hs"
)

type SwitchOptions struct {
	ValueAttr   string
	InvertState bool
}

type LightOptions struct {
	ColorMode           ColorMode
	SupportedColorModes []ColorMode
}

type CoverOptions struct {
	// Tilt selects the tilting variant, driven by tiltAngle instead of
	// curtainPercent.
	Tilt bool
}

type SensorOptions struct {
	ValueAttr string
	Unit      string
	Precision int

	// Transform converts the raw attribute value to the reported value.
	// Nil reports the raw value unchanged.
	Transform func(int64) float64
}

type BinarySensorOptions struct {
	ValueAttr string

	// ValueMap translates raw values to on/off. Raw values absent from the
	// map leave the state untouched. Nil means {0: false, 1: true}.
	ValueMap map[int64]bool
}

type ClimateOptions struct {
	MinTemperature float64
	MaxTemperature float64
}

type EventOptions struct {
	EventTypes []string
}
