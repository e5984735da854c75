package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher(t *testing.T) {
	d := NewDispatcher("a")
	assert.Equal(t, "a", d.Get())

	var seen []string
	unsubscribe := d.Subscribe(func(v string) { seen = append(seen, v) })
	d.Set("b")
	unsubscribe()
	d.Set("c")

	assert.Equal(t, "c", d.Get())
	assert.Equal(t, []string{"b"}, seen)
	assert.Equal(t, 0, d.Listeners())
}
