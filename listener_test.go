package tda

import (
	"testing"

	"github.com/rxwen/tda/terncy"
	"github.com/stretchr/testify/assert"
)

func TestListenerRegistry(t *testing.T) {
	t.Run("publishes only to the matching serial", func(t *testing.T) {
		r := newListenerRegistry()

		var got []terncy.AttrValue
		r.Add("a", func(attrs []terncy.AttrValue) { got = attrs })
		r.Add("b", func(attrs []terncy.AttrValue) { t.Error("wrong serial") })

		delivered := r.Publish("a", []terncy.AttrValue{{Attr: "on", Value: 1}})
		assert.True(t, delivered)
		assert.Len(t, got, 1)
	})

	t.Run("reports when nothing is subscribed", func(t *testing.T) {
		r := newListenerRegistry()

		assert.False(t, r.Publish("a", nil))
		assert.False(t, r.Has("a"))
	})

	t.Run("a listener may unsubscribe itself during delivery", func(t *testing.T) {
		r := newListenerRegistry()

		calls := 0
		var unsubscribe func()
		unsubscribe = r.Add("a", func(attrs []terncy.AttrValue) {
			calls++
			unsubscribe()
		})

		r.Publish("a", nil)
		r.Publish("a", nil)

		assert.Equal(t, 1, calls)
		assert.False(t, r.Has("a"))
	})

	t.Run("multiple listeners all receive the delivery", func(t *testing.T) {
		r := newListenerRegistry()

		calls := 0
		r.Add("a", func(attrs []terncy.AttrValue) { calls++ })
		r.Add("a", func(attrs []terncy.AttrValue) { calls++ })

		r.Publish("a", nil)
		assert.Equal(t, 2, calls)
	})
}
