package countdown

import (
	"context"
	"time"

	"brk-portal/internal/events"
	"brk-portal/internal/util"
)

type State string

const (
	Idle         State = "idle"
	TodayEvent   State = "today"
	CountingDown State = "counting"
)

// DefaultStartHour applies when a stage has no usable start time.
const DefaultStartHour = 14

type Remaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func (r Remaining) Zero() bool {
	return r == Remaining{}
}

func split(d time.Duration) Remaining {
	if d <= 0 {
		return Remaining{}
	}
	secs := int(d / time.Second)
	return Remaining{
		Days:    secs / 86400,
		Hours:   secs % 86400 / 3600,
		Minutes: secs % 3600 / 60,
		Seconds: secs % 60,
	}
}

type Snapshot struct {
	State     State         `json:"state"`
	Event     *events.Event `json:"event,omitempty"`
	Target    *time.Time    `json:"target,omitempty"`
	Remaining Remaining     `json:"remaining"`
}

// Target is the instant a stage starts: its date plus start time, or
// DefaultStartHour when the time is missing. With a non-zero year the date
// is rebuilt from the card's day and month in that year.
func Target(ev events.Event, year int) time.Time {
	date := ev.Date
	if year != 0 {
		if d, err := events.Reconstruct(ev.Day, ev.Month, year, ev.Date.Location()); err == nil {
			date = d
		}
	}
	h, m, ok := util.ClockOf(ev.Time)
	if !ok {
		h, m = DefaultStartHour, 0
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location())
}

// Compute picks what the countdown shows. An event today wins; otherwise
// the earliest event still ahead of now is counted down to. year == 0
// considers every event.
func Compute(evs []events.Event, year int, now time.Time) Snapshot {
	pool := evs
	if year != 0 {
		pool = events.FilterByYear(evs, year)
	}

	for i := range pool {
		if events.IsToday(pool[i], now) {
			ev := pool[i]
			at := Target(ev, year)
			return Snapshot{State: TodayEvent, Event: &ev, Target: &at}
		}
	}

	var (
		next   *events.Event
		target time.Time
	)
	for i := range pool {
		t := Target(pool[i], year)
		if !t.After(now) {
			continue
		}
		if next == nil || t.Before(target) {
			ev := pool[i]
			next, target = &ev, t
		}
	}
	if next == nil {
		return Snapshot{State: Idle}
	}
	return Snapshot{State: CountingDown, Event: next, Target: &target, Remaining: split(target.Sub(now))}
}

// Engine ticks a CountingDown snapshot until it reaches zero.
type Engine struct {
	Now      func() time.Time
	Interval time.Duration
}

func New() *Engine {
	return &Engine{Now: time.Now, Interval: time.Second}
}

// Run sends the initial snapshot and, while counting down, a new one every
// Interval. When the remaining time hits zero an Idle snapshot is sent and
// Run returns; it does not move on to the next event by itself. Run also
// returns when ctx is cancelled, which is how callers drop a run whose
// inputs changed. out is never closed by Run.
func (e *Engine) Run(ctx context.Context, evs []events.Event, year int, out chan<- Snapshot) error {
	snap := Compute(evs, year, e.Now())
	if !send(ctx, out, snap) {
		return ctx.Err()
	}
	if snap.State != CountingDown {
		return nil
	}

	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			left := split(snap.Target.Sub(e.Now()))
			if left.Zero() {
				send(ctx, out, Snapshot{State: Idle})
				return nil
			}
			snap.Remaining = left
			if !send(ctx, out, snap) {
				return ctx.Err()
			}
		}
	}
}

func send(ctx context.Context, out chan<- Snapshot, s Snapshot) bool {
	select {
	case out <- s:
		return true
	case <-ctx.Done():
		return false
	}
}
