package countdown

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brk-portal/internal/events"
	"brk-portal/internal/util"
)

func ev(id string, date time.Time, clock string) events.Event {
	return events.Event{
		ID:    id,
		Date:  util.StartOfDay(date),
		Year:  date.Year(),
		Day:   date.Format("02"),
		Month: util.MonthAbbr(date.Month()),
		Time:  clock,
	}
}

// steppingClock advances by step on every read.
type steppingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func TestComputeTodayWins(t *testing.T) {
	now := time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)
	evs := []events.Event{
		ev("future", now.AddDate(0, 0, 3), "09:00"),
		ev("today", now, "08:00"),
	}

	s := Compute(evs, 2025, now)
	assert.Equal(t, TodayEvent, s.State)
	require.NotNil(t, s.Event)
	assert.Equal(t, "today", s.Event.ID)
	assert.True(t, s.Remaining.Zero())
}

func TestComputePicksEarliestFuture(t *testing.T) {
	now := time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)
	evs := []events.Event{
		ev("past", now.AddDate(0, 0, -2), "09:00"),
		ev("far", now.AddDate(0, 1, 0), "09:00"),
		ev("near", now.AddDate(0, 0, 2), ""),
	}

	s := Compute(evs, 2025, now)
	require.Equal(t, CountingDown, s.State)
	assert.Equal(t, "near", s.Event.ID)
	// no time given: 14:00
	require.NotNil(t, s.Target)
	assert.Equal(t, time.Date(2025, 6, 9, 14, 0, 0, 0, time.UTC), *s.Target)
	assert.Equal(t, Remaining{Days: 2, Hours: 4}, s.Remaining)
}

func TestComputeYearFilter(t *testing.T) {
	now := time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC)
	evs := []events.Event{ev("next-year", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), "10:00")}

	assert.Equal(t, Idle, Compute(evs, 2025, now).State)
	assert.Equal(t, CountingDown, Compute(evs, 0, now).State)
	assert.Equal(t, CountingDown, Compute(evs, 2026, now).State)
}

func TestComputeIdle(t *testing.T) {
	now := time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, Idle, Compute(nil, 2025, now).State)
	assert.Equal(t, Idle, Compute([]events.Event{ev("old", now.AddDate(0, 0, -1), "")}, 2025, now).State)
}

func TestIdleSnapshotHasNoTarget(t *testing.T) {
	now := time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)

	raw, err := json.Marshal(Compute(nil, 2025, now))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "target")

	raw, err = json.Marshal(Compute([]events.Event{ev("near", now.AddDate(0, 0, 1), "09:00")}, 2025, now))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"target":"2025-06-08T09:00:00Z"`)
}

func TestRunTodayDoesNotTick(t *testing.T) {
	start := time.Date(2025, 6, 7, 13, 59, 57, 0, time.UTC)
	clock := &steppingClock{now: start, step: time.Second}
	e := &Engine{Now: clock.Now, Interval: time.Millisecond}

	out := make(chan Snapshot, 8)
	require.NoError(t, e.Run(context.Background(), []events.Event{ev("x", start, "14:00")}, 0, out))
	close(out)

	var secs []int
	var states []State
	for s := range out {
		states = append(states, s.State)
		secs = append(secs, s.Remaining.Seconds)
	}
	// same-day event: today wins and nothing ticks
	assert.Equal(t, []State{TodayEvent}, states)
	assert.Equal(t, []int{0}, secs)
}

func TestRunTicksToZero(t *testing.T) {
	start := time.Date(2025, 6, 7, 23, 59, 57, 0, time.UTC)
	clock := &steppingClock{now: start, step: time.Second}
	e := &Engine{Now: clock.Now, Interval: time.Millisecond}

	// tomorrow at 00:00 is three seconds away
	out := make(chan Snapshot, 8)
	require.NoError(t, e.Run(context.Background(), []events.Event{ev("x", start.AddDate(0, 0, 1), "00:00")}, 0, out))
	close(out)

	var secs []int
	var states []State
	for s := range out {
		states = append(states, s.State)
		secs = append(secs, s.Remaining.Seconds)
	}
	assert.Equal(t, []State{CountingDown, CountingDown, CountingDown, Idle}, states)
	assert.Equal(t, []int{3, 2, 1, 0}, secs)
}

func TestRunStopsOnCancel(t *testing.T) {
	now := time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)
	e := &Engine{Now: func() time.Time { return now }, Interval: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Snapshot)
	done := make(chan error, 1)
	go func() {
		done <- e.Run(ctx, []events.Event{ev("x", now.AddDate(0, 0, 5), "")}, 0, out)
	}()

	first := <-out
	assert.Equal(t, CountingDown, first.State)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunIdleSendsOnce(t *testing.T) {
	e := &Engine{Now: time.Now, Interval: time.Millisecond}
	out := make(chan Snapshot, 2)
	require.NoError(t, e.Run(context.Background(), nil, 0, out))
	assert.Len(t, out, 1)
	assert.Equal(t, Idle, (<-out).State)
}
