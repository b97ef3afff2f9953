package events

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"brk-portal/internal/models"
	"brk-portal/internal/util"
)

var ErrUnknownMonth = errors.New("unknown month")

// FilterBySeason keeps the events of season. An event carrying a season id
// is matched on it; one without falls back to the season's date range.
func FilterBySeason(evs []Event, season models.Season) []Event {
	var (
		start, end time.Time
		haveRange  bool
	)
	if len(evs) > 0 {
		loc := evs[0].Date.Location()
		s, err1 := util.ParseLocalDate(season.StartDate, loc)
		e, err2 := util.ParseLocalDate(season.EndDate, loc)
		if err1 == nil && err2 == nil {
			start, end, haveRange = s, e, true
		}
	}

	out := make([]Event, 0, len(evs))
	for _, ev := range evs {
		if ev.SeasonID != "" {
			if ev.SeasonID == season.ID {
				out = append(out, ev)
			}
			continue
		}
		if haveRange && !ev.Date.Before(start) && !ev.Date.After(end) {
			out = append(out, ev)
		}
	}
	return out
}

func FilterByYear(evs []Event, year int) []Event {
	out := make([]Event, 0, len(evs))
	for _, ev := range evs {
		if ev.Year == year {
			out = append(out, ev)
		}
	}
	return out
}

// FilterByMonth keeps events of the named Portuguese month.
func FilterByMonth(evs []Event, month string) ([]Event, error) {
	idx, ok := util.MonthIndex(month)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMonth, month)
	}
	out := make([]Event, 0, len(evs))
	for _, ev := range evs {
		if int(ev.Date.Month())-1 == idx {
			out = append(out, ev)
		}
	}
	return out, nil
}

// SortChronological sorts ascending by date and then by start time. Equal
// keys keep their input order.
func SortChronological(evs []Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		if !evs[i].Date.Equal(evs[j].Date) {
			return evs[i].Date.Before(evs[j].Date)
		}
		return minutes(evs[i].Time) < minutes(evs[j].Time)
	})
}

func minutes(s string) int {
	h, m, ok := util.ClockOf(s)
	if !ok {
		return 24 * 60
	}
	return h*60 + m
}

// Reconstruct rebuilds a date from the card's day and month labels and the
// year taken from the surrounding filter.
func Reconstruct(day, month string, year int, loc *time.Location) (time.Time, error) {
	idx, ok := util.MonthIndex(month)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownMonth, month)
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, fmt.Errorf("day %q: %w", day, err)
	}
	return util.ParseLocalDate(fmt.Sprintf("%04d-%02d-%02d", year, idx+1, d), loc)
}

// IsToday compares calendar dates in the event's location.
func IsToday(ev Event, now time.Time) bool {
	return util.SameDay(ev.Date, now)
}
