package watchlist

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ClockLayout is how both readouts are formatted.
const ClockLayout = "15:04:05"

var lastClockID int64

func nextClockID() int {
	return int(atomic.AddInt64(&lastClockID, 1))
}

// ClockTickMsg advances a Clock by one second.
type ClockTickMsg struct {
	ID  int
	tag int
}

// ClockSeedMsg carries the store's time.
type ClockSeedMsg struct {
	ID   int
	Time time.Time
	Err  error
}

// Clock shows the store's time in the local zone and in UTC. It is seeded
// once and then advanced one second per tick, without re-reading any clock.
type Clock struct {
	id      int
	tag     int
	moment  time.Time
	seeded  bool
	stopped bool
	loc     *time.Location
}

// NewClock returns an unseeded clock rendering local time in loc.
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{id: nextClockID(), loc: loc}
}

// ID identifies the clock's messages.
func (c *Clock) ID() int {
	return c.id
}

// Seed fetches the store's time with now.
func (c *Clock) Seed(now func(ctx context.Context) (time.Time, error), timeout time.Duration) tea.Cmd {
	id := c.id
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		t, err := now(ctx)
		return ClockSeedMsg{ID: id, Time: t, Err: err}
	}
}

// SetTime seeds the clock directly and starts ticking. Later seeds are
// ignored.
func (c *Clock) SetTime(t time.Time) tea.Cmd {
	if c.seeded || c.stopped {
		return nil
	}
	c.seeded = true
	c.moment = t
	return c.tick()
}

// Seeded reports whether a time has been set.
func (c *Clock) Seeded() bool {
	return c.seeded
}

// Stop ends ticking. The moment is frozen from here on.
func (c *Clock) Stop() {
	c.stopped = true
}

// Stopped reports whether Stop was called.
func (c *Clock) Stopped() bool {
	return c.stopped
}

// Update handles seed and tick messages for this clock.
func (c *Clock) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ClockSeedMsg:
		if msg.ID != c.id || msg.Err != nil {
			return nil
		}
		return c.SetTime(msg.Time)
	case ClockTickMsg:
		if msg.ID != c.id || msg.tag != c.tag || c.stopped {
			return nil
		}
		c.moment = c.moment.Add(time.Second)
		c.tag++
		return c.tick()
	}
	return nil
}

// Moment returns the current instant.
func (c *Clock) Moment() time.Time {
	return c.moment
}

// Local renders the moment in the clock's zone.
func (c *Clock) Local() string {
	if !c.seeded {
		return "--:--:--"
	}
	return c.moment.In(c.loc).Format(ClockLayout)
}

// UTC renders the moment in UTC.
func (c *Clock) UTC() string {
	if !c.seeded {
		return "--:--:--"
	}
	return c.moment.UTC().Format(ClockLayout)
}

func (c *Clock) tick() tea.Cmd {
	id, tag := c.id, c.tag
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return ClockTickMsg{ID: id, tag: tag}
	})
}
