package watchlist

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fire delivers the tick the clock is currently waiting for.
func fire(c *Clock) {
	c.Update(ClockTickMsg{ID: c.id, tag: c.tag})
}

func TestClock(t *testing.T) {
	t.Run("advances one second per tick", func(t *testing.T) {
		c := NewClock(time.UTC)
		require.NotNil(t, c.SetTime(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)))

		assert.Equal(t, "10:00:00", c.Local())
		assert.Equal(t, "10:00:00", c.UTC())

		for i := 0; i < 3; i++ {
			fire(c)
		}
		assert.Equal(t, "10:00:03", c.Local())
		assert.Equal(t, "10:00:03", c.UTC())

		c.Stop()
		fire(c)
		assert.Equal(t, "10:00:03", c.Local())
		assert.Equal(t, "10:00:03", c.UTC())
	})

	t.Run("local zone differs from utc", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		c := NewClock(loc)
		c.SetTime(time.Date(2026, 5, 4, 22, 59, 59, 0, time.UTC))
		fire(c)

		assert.Equal(t, "01:00:00", c.Local())
		assert.Equal(t, "23:00:00", c.UTC())
	})

	t.Run("ignores foreign and stale ticks", func(t *testing.T) {
		a, b := NewClock(time.UTC), NewClock(time.UTC)
		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		a.SetTime(start)
		b.SetTime(start)

		a.Update(ClockTickMsg{ID: b.id, tag: b.tag})
		assert.Equal(t, start, a.Moment())

		stale := ClockTickMsg{ID: a.id, tag: a.tag}
		fire(a)
		a.Update(stale)
		assert.Equal(t, start.Add(time.Second), a.Moment())
	})

	t.Run("seeded once", func(t *testing.T) {
		c := NewClock(time.UTC)
		assert.Equal(t, "--:--:--", c.Local())

		first := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
		seed := c.Seed(func(context.Context) (time.Time, error) { return first, nil }, time.Second)
		assert.NotNil(t, c.Update(seed()))
		assert.True(t, c.Seeded())

		assert.Nil(t, c.SetTime(first.Add(time.Hour)))
		assert.Equal(t, "08:00:00", c.UTC())
	})

	t.Run("failed seed leaves clock unseeded", func(t *testing.T) {
		c := NewClock(time.UTC)
		seed := c.Seed(func(context.Context) (time.Time, error) { return time.Time{}, fmt.Errorf("down") }, time.Second)
		assert.Nil(t, c.Update(seed()))
		assert.False(t, c.Seeded())
	})

	t.Run("stopped before seed never starts", func(t *testing.T) {
		c := NewClock(time.UTC)
		c.Stop()
		assert.Nil(t, c.SetTime(time.Now()))
		assert.True(t, c.Stopped())
	})
}
