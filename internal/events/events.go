package events

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"brk-portal/internal/logger"
	"brk-portal/internal/models"
	"brk-portal/internal/util"
)

const (
	StatusOpen      = "Inscrição Aberta"
	StatusScheduled = "Programado"
	StatusFinished  = "Finalizado"
)

// Event is the card/calendar shape of a stage.
type Event struct {
	ID            string    `json:"id"`
	DisplayNumber int       `json:"displayNumber"`
	Name          string    `json:"name"`
	SeasonID      string    `json:"seasonId,omitempty"`
	Date          time.Time `json:"date"`
	Year          int       `json:"year"`
	Day           string    `json:"day"`
	Month         string    `json:"month"`
	Weekday       string    `json:"weekday"`
	Time          string    `json:"time"`
	Location      string    `json:"location"`
	Address       string    `json:"address,omitempty"`
	Status        string    `json:"status"`
	StreamLink    string    `json:"streamLink,omitempty"`
	Briefing      string    `json:"briefing,omitempty"`
	TrackLayout   string    `json:"trackLayout,omitempty"`
}

type Options struct {
	// RegistrationOpen comes from the season the stage belongs to.
	RegistrationOpen bool
	Now              time.Time
	Location         *time.Location
}

// Build turns a stage (and its race track, when known) into an Event.
func Build(st models.Stage, track *models.RaceTrack, opt Options) (Event, error) {
	loc := opt.Location
	if loc == nil {
		loc = time.Local
	}
	date, err := util.ParseLocalDate(st.Date, loc)
	if err != nil {
		return Event{}, fmt.Errorf("stage %s: %w", st.ID, err)
	}

	ev := Event{
		ID:            st.ID,
		DisplayNumber: DisplayNumber(st.ID),
		Name:          st.Name,
		SeasonID:      st.SeasonID,
		Date:          date,
		Year:          date.Year(),
		Day:           fmt.Sprintf("%02d", date.Day()),
		Month:         util.MonthAbbr(date.Month()),
		Weekday:       util.WeekdayName(date.Weekday()),
		Time:          util.FormatTime(st.Time),
		Location:      st.Kartodrome,
		StreamLink:    st.StreamLink,
		Briefing:      st.Briefing,
	}

	if track != nil {
		if track.Name != "" {
			ev.Location = track.Name
		}
		ev.Address = track.Address
		for _, l := range track.TrackLayouts {
			if l.ID == st.TrackLayoutID {
				ev.TrackLayout = l.Name
				break
			}
		}
	}

	ev.Status = status(date, opt)
	return ev, nil
}

func status(date time.Time, opt Options) string {
	if opt.RegistrationOpen {
		return StatusOpen
	}
	now := opt.Now
	if now.IsZero() {
		now = time.Now()
	}
	// a stage running today still counts as scheduled
	if !date.Before(util.StartOfDay(now.In(date.Location()))) {
		return StatusScheduled
	}
	return StatusFinished
}

// DisplayNumber derives a short number from the last four hex digits of a
// stage UUID. It is for display only and is not unique.
func DisplayNumber(id string) int {
	if u, err := uuid.Parse(id); err == nil {
		return int(u[14])<<8 | int(u[15])
	}
	id = strings.TrimSpace(id)
	if len(id) < 4 {
		return 0
	}
	n, err := strconv.ParseUint(id[len(id)-4:], 16, 16)
	if err != nil {
		return 0
	}
	return int(n)
}

// BuildAll builds every stage whose date parses, resolving race tracks by id
// and the registration flag by season id. Bad stages are logged and skipped.
func BuildAll(stages []models.Stage, tracks []models.RaceTrack, openSeasons map[string]bool, now time.Time, loc *time.Location) []Event {
	byID := make(map[string]*models.RaceTrack, len(tracks))
	for i := range tracks {
		byID[tracks[i].ID] = &tracks[i]
	}

	out := make([]Event, 0, len(stages))
	for _, st := range stages {
		ev, err := Build(st, byID[st.RaceTrackID], Options{
			RegistrationOpen: openSeasons[st.SeasonID],
			Now:              now,
			Location:         loc,
		})
		if err != nil {
			logger.Warning("skipping stage: %v", err)
			continue
		}
		out = append(out, ev)
	}
	return out
}
