package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescription_UniqueID(t *testing.T) {
	t.Run("uses the serial alone when no sub key or prefix is set", func(t *testing.T) {
		d := Description{Platform: PlatformSwitch, Key: "switch"}
		assert.Equal(t, "abcdef-01", d.UniqueID("abcdef-01"))
	})

	t.Run("appends the sub key", func(t *testing.T) {
		d := Description{Platform: PlatformSensor, Key: "temperature", SubKey: "temperature"}
		assert.Equal(t, "abcdef-01_temperature", d.UniqueID("abcdef-01"))
	})

	t.Run("prepends the prefix outside the sub key", func(t *testing.T) {
		d := Description{
			Platform:       PlatformSwitch,
			Key:            "scene",
			SubKey:         "on",
			UniqueIDPrefix: "box-11-22-33-44-55-66",
		}
		assert.Equal(t, "box-11-22-33-44-55-66_scene-0001_on", d.UniqueID("scene-0001"))
	})
}

func TestDescription_ID(t *testing.T) {
	t.Run("includes the sub key when present", func(t *testing.T) {
		assert.Equal(t, "binary_sensor.motion.motionl",
			Description{Platform: PlatformBinarySensor, Key: "motion", SubKey: "motionl"}.ID())
		assert.Equal(t, "cover.cover",
			Description{Platform: PlatformCover, Key: "cover"}.ID())
	})
}
