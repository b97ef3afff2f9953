package championships

import (
	"sort"
	"time"

	"brk-portal/internal/models"
	"brk-portal/internal/util"
)

// Range returns the season's first and last day in loc.
func Range(s models.Season, loc *time.Location) (start, end time.Time, ok bool) {
	start, err := util.ParseLocalDate(s.StartDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = util.ParseLocalDate(s.EndDate, loc)
	if err != nil || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// IsActive reports start <= today <= end, by calendar day in now's location.
func IsActive(s models.Season, now time.Time) bool {
	start, end, ok := Range(s, now.Location())
	if !ok {
		return false
	}
	today := util.StartOfDay(now)
	return !today.Before(start) && !today.After(end)
}

// PreRegistrationOpen is true while the exclusive window for returning
// pilots is enabled and its end date has not passed.
func PreRegistrationOpen(s models.Season, now time.Time) bool {
	if s.PreRegistration == nil || !s.PreRegistration.Enabled {
		return false
	}
	if s.PreRegistration.EndDate == "" {
		return true
	}
	end, err := util.ParseLocalDate(s.PreRegistration.EndDate, now.Location())
	if err != nil {
		return false
	}
	return !util.StartOfDay(now).After(end)
}

// SortSeasonsDesc orders by start date, newest first. Unparseable dates go last.
func SortSeasonsDesc(seasons []models.Season, loc *time.Location) {
	key := func(s models.Season) time.Time {
		t, err := util.ParseLocalDate(s.StartDate, loc)
		if err != nil {
			return time.Time{}
		}
		return t
	}
	sort.SliceStable(seasons, func(i, j int) bool {
		return key(seasons[i]).After(key(seasons[j]))
	})
}

// PickSeason chooses the season to show: id when it matches, else the one
// running now, else the most recent by start date.
func PickSeason(seasons []models.Season, id string, now time.Time) (models.Season, bool) {
	if len(seasons) == 0 {
		return models.Season{}, false
	}
	if id != "" {
		for _, s := range seasons {
			if s.ID == id {
				return s, true
			}
		}
		return models.Season{}, false
	}
	for _, s := range seasons {
		if IsActive(s, now) {
			return s, true
		}
	}
	sorted := make([]models.Season, len(seasons))
	copy(sorted, seasons)
	SortSeasonsDesc(sorted, now.Location())
	return sorted[0], true
}

// RegistrationFlags maps season id to its registration-open flag.
func RegistrationFlags(seasons []models.Season) map[string]bool {
	m := make(map[string]bool, len(seasons))
	for _, s := range seasons {
		m[s.ID] = s.RegistrationOpen
	}
	return m
}
