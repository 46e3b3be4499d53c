package entity

// State events published through API.SendEvent. Each carries the full
// current state of the entity, consumers replace rather than merge.

type SwitchState struct {
	EID       string
	UniqueID  string
	On        bool
	Available bool
}

type LightState struct {
	EID        string
	UniqueID   string
	On         bool
	Brightness int // 0-255
	ColorTemp  int // mireds, 50-400
	Hue        float64
	Saturation float64
	RGBHex     string
	Available  bool
}

type CoverState struct {
	EID          string
	UniqueID     string
	Position     int // 0 closed, 100 open
	TiltPosition int
	Opening      bool
	Closing      bool
	Closed       bool
	Available    bool
}

type SensorState struct {
	EID       string
	UniqueID  string
	Value     float64
	Unit      string
	Available bool
}

type BinarySensorState struct {
	EID       string
	UniqueID  string
	On        bool
	Known     bool // false until a mapped value has been seen
	Available bool
}

type ClimateState struct {
	EID                string
	UniqueID           string
	Mode               string // "off", "cool", "dry", "fan_only", "heat"
	FanMode            string // "high", "medium", "low"
	CurrentTemperature float64
	TargetTemperature  float64
	Available          bool
}

// ButtonEvent is a stateless device event from an event entity.
type ButtonEvent struct {
	EID       string
	UniqueID  string
	EventType string
	Data      map[string]any
}
