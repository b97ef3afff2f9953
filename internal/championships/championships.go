package championships

import (
	"strings"
	"time"

	"brk-portal/internal/models"
	"brk-portal/internal/util"
)

const (
	StatusActive   = "active"
	StatusUpcoming = "upcoming"
	StatusFinished = "finished"
	StatusAll      = "all"
)

// Card is the directory/detail shape of a championship.
type Card struct {
	ID               string           `json:"id"`
	Slug             string           `json:"slug"`
	Name             string           `json:"name"`
	ShortDescription string           `json:"shortDescription"`
	FullDescription  string           `json:"fullDescription"`
	Image            string           `json:"image,omitempty"`
	Sponsors         []models.Sponsor `json:"sponsors,omitempty"`
	Status           string           `json:"status"`
}

// FromAPI maps a cache record. The API slug wins; otherwise one is derived
// from the name. Status defaults to active until seasons say otherwise.
func FromAPI(c models.Championship) Card {
	slug := strings.TrimSpace(c.Slug)
	if slug == "" {
		slug = util.Slug(c.Name)
	}
	status := c.Status
	if status == "" {
		status = StatusActive
	}
	return Card{
		ID:               c.ID,
		Slug:             slug,
		Name:             c.Name,
		ShortDescription: c.ShortDescription,
		FullDescription:  c.FullDescription,
		Image:            c.ChampionshipImage,
		Sponsors:         c.Sponsors,
		Status:           status,
	}
}

func FromAPIList(list []models.Championship) []Card {
	out := make([]Card, 0, len(list))
	for _, c := range list {
		out = append(out, FromAPI(c))
	}
	return out
}

// Search keeps cards whose name or descriptions contain query (case
// insensitive) and whose status equals status. An empty query or an
// empty/"all" status does not filter.
func Search(cards []Card, query, status string) []Card {
	q := strings.ToLower(strings.TrimSpace(query))
	status = strings.TrimSpace(status)

	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if status != "" && status != StatusAll && c.Status != status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.ShortDescription), q) &&
			!strings.Contains(strings.ToLower(c.FullDescription), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FindBySlug matches the slug exactly, then falls back to the id.
func FindBySlug(cards []Card, slug string) (Card, bool) {
	for _, c := range cards {
		if c.Slug == slug {
			return c, true
		}
	}
	for _, c := range cards {
		if c.ID == slug {
			return c, true
		}
	}
	return Card{}, false
}

// InferStatus derives a championship status from its seasons: active when
// any season is running, upcoming when one is still to start, finished when
// all are over. With no usable season it stays active.
func InferStatus(seasons []models.Season, now time.Time) string {
	if len(seasons) == 0 {
		return StatusActive
	}
	upcoming, finished := false, false
	for _, s := range seasons {
		start, end, ok := Range(s, now.Location())
		if !ok {
			continue
		}
		today := util.StartOfDay(now)
		switch {
		case today.Before(start):
			upcoming = true
		case today.After(end):
			finished = true
		default:
			return StatusActive
		}
	}
	switch {
	case upcoming:
		return StatusUpcoming
	case finished:
		return StatusFinished
	default:
		return StatusActive
	}
}
