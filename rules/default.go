package rules

// Default returns the built-in rule set. Hardware variants that the profile
// tables cannot distinguish are detected through the attributes a service
// reports.
func Default() []Rule {
	return []Rule{
		{
			Description: "tilting curtain motors use the tilt cover variant",
			Filter:      `Profile == 5 && "tiltAngle" in AttributeKeys`,
			Add:         []string{"cover.tilt_cover"},
			Remove:      []string{"cover.cover"},
		},
		{
			Description: "services reporting air conditioner attributes gain a climate entity",
			Filter:      `"acMode" in AttributeKeys`,
			Add:         []string{"climate.climate"},
		},
	}
}
