package portal

import (
	"context"
	"errors"
	"strings"
	"time"

	"brk-portal/internal/championships"
	"brk-portal/internal/countdown"
	"brk-portal/internal/events"
	"brk-portal/internal/logger"
	"brk-portal/internal/models"
	"brk-portal/internal/standings"
	"brk-portal/internal/util"
)

var ErrNotFound = errors.New("not found")

// Source is the read side of the cache API the portal needs.
type Source interface {
	Championships(ctx context.Context) ([]models.Championship, error)
	ChampionshipSeasons(ctx context.Context, championshipID string) ([]models.Season, error)
	Seasons(ctx context.Context) ([]models.Season, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Stages(ctx context.Context) ([]models.Stage, error)
	RaceTracks(ctx context.Context) ([]models.RaceTrack, error)
	SeasonClassification(ctx context.Context, seasonID string) (*models.SeasonClassification, error)
	SeasonRegulations(ctx context.Context, seasonID string) ([]models.Regulation, error)
	Clubs(ctx context.Context) ([]models.Club, error)
	Pilots(ctx context.Context) ([]models.Pilot, error)
	Ranking(ctx context.Context) ([]models.RankingEntry, error)
}

type Service struct {
	src Source
	loc *time.Location
	Now func() time.Time
}

func New(src Source, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{src: src, loc: loc, Now: time.Now}
}

func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) now() time.Time { return s.Now().In(s.loc) }

// degrade logs an upstream failure; callers carry on with an empty result.
func degrade(what string, err error) {
	logger.Warning("cache %s: %v", what, err)
}

// ---------- Championships ----------

// Championships lists the directory, filtered by free text and status.
// Cards without an API status get one inferred from their seasons.
func (s *Service) Championships(ctx context.Context, query, status string) []championships.Card {
	list, err := s.src.Championships(ctx)
	if err != nil {
		degrade("championships", err)
		return []championships.Card{}
	}

	var bySeason map[string][]models.Season
	needStatus := false
	for _, c := range list {
		if c.Status == "" {
			needStatus = true
			break
		}
	}
	if needStatus {
		all, err := s.src.Seasons(ctx)
		if err != nil {
			degrade("seasons", err)
		}
		bySeason = make(map[string][]models.Season)
		for _, se := range all {
			bySeason[se.ChampionshipID] = append(bySeason[se.ChampionshipID], se)
		}
	}

	now := s.now()
	cards := make([]championships.Card, 0, len(list))
	for _, c := range list {
		card := championships.FromAPI(c)
		if c.Status == "" {
			card.Status = championships.InferStatus(bySeason[c.ID], now)
		}
		cards = append(cards, card)
	}
	return championships.Search(cards, query, status)
}

// Detail is the championship page: the card, its seasons newest first and
// the season in focus.
type Detail struct {
	Championship        championships.Card `json:"championship"`
	Seasons             []models.Season    `json:"seasons"`
	Season              *models.Season     `json:"season,omitempty"`
	Categories          []models.Category  `json:"categories"`
	PreRegistrationOpen bool               `json:"preRegistrationOpen"`
}

// findCard looks a championship up by slug or id. Status is left empty
// when the API sent none.
func (s *Service) findCard(ctx context.Context, slug string) (championships.Card, error) {
	list, err := s.src.Championships(ctx)
	if err != nil {
		degrade("championships", err)
	}
	card, ok := championships.FindBySlug(championships.FromAPIList(list), slug)
	if !ok {
		return championships.Card{}, ErrNotFound
	}
	for _, c := range list {
		if c.ID == card.ID && c.Status == "" {
			card.Status = ""
			break
		}
	}
	return card, nil
}

func (s *Service) seasonsOf(ctx context.Context, championshipID string) []models.Season {
	seasons, err := s.src.ChampionshipSeasons(ctx, championshipID)
	if err != nil {
		degrade("seasons of "+championshipID, err)
		return []models.Season{}
	}
	championships.SortSeasonsDesc(seasons, s.loc)
	return seasons
}

func (s *Service) categoriesOf(ctx context.Context, seasonID string) []models.Category {
	out := []models.Category{}
	if seasonID == "" {
		return out
	}
	all, err := s.src.Categories(ctx)
	if err != nil {
		degrade("categories", err)
		return out
	}
	for _, c := range all {
		if c.SeasonID == seasonID {
			out = append(out, c)
		}
	}
	return out
}

// resolve finds the championship and the season to show. An explicit
// season id that does not belong to the championship is ErrNotFound; a
// championship without seasons resolves with a nil season. A missing API
// status is inferred from the seasons.
func (s *Service) resolve(ctx context.Context, slug, seasonID string) (championships.Card, []models.Season, *models.Season, error) {
	card, err := s.findCard(ctx, slug)
	if err != nil {
		return card, nil, nil, err
	}
	seasons := s.seasonsOf(ctx, card.ID)
	if card.Status == "" {
		card.Status = championships.InferStatus(seasons, s.now())
	}
	if len(seasons) == 0 {
		if seasonID != "" {
			return card, seasons, nil, ErrNotFound
		}
		return card, seasons, nil, nil
	}
	picked, ok := championships.PickSeason(seasons, seasonID, s.now())
	if !ok {
		return card, seasons, nil, ErrNotFound
	}
	return card, seasons, &picked, nil
}

func (s *Service) Championship(ctx context.Context, slug, seasonID string) (Detail, error) {
	card, seasons, season, err := s.resolve(ctx, slug, seasonID)
	if err != nil {
		return Detail{}, err
	}
	d := Detail{Championship: card, Seasons: seasons, Season: season, Categories: []models.Category{}}
	if season != nil {
		d.Categories = s.categoriesOf(ctx, season.ID)
		d.PreRegistrationOpen = championships.PreRegistrationOpen(*season, s.now())
	}
	return d, nil
}

// ---------- Calendar / countdown ----------

type Calendar struct {
	Championship championships.Card `json:"championship"`
	Season       *models.Season     `json:"season,omitempty"`
	Month        string             `json:"month,omitempty"`
	Events       []events.Event     `json:"events"`
}

// Calendar lists the season's stages in chronological order, optionally
// narrowed to one Portuguese month name. An unknown month is an error
// wrapping events.ErrUnknownMonth.
func (s *Service) Calendar(ctx context.Context, slug, seasonID, month string) (Calendar, error) {
	card, seasons, season, err := s.resolve(ctx, slug, seasonID)
	if err != nil {
		return Calendar{}, err
	}
	cal := Calendar{Championship: card, Season: season, Month: month, Events: []events.Event{}}
	if season == nil {
		return cal, nil
	}

	stages, err := s.src.Stages(ctx)
	if err != nil {
		degrade("stages", err)
		return cal, nil
	}
	tracks, err := s.src.RaceTracks(ctx)
	if err != nil {
		degrade("race tracks", err)
	}

	evs := events.BuildAll(stages, tracks, championships.RegistrationFlags(seasons), s.now(), s.loc)
	evs = events.FilterBySeason(evs, *season)
	if strings.TrimSpace(month) != "" {
		evs, err = events.FilterByMonth(evs, month)
		if err != nil {
			return Calendar{}, err
		}
	}
	events.SortChronological(evs)
	cal.Events = evs
	return cal, nil
}

// Countdown is the one-shot countdown state for the season in focus.
func (s *Service) Countdown(ctx context.Context, slug, seasonID string) (countdown.Snapshot, error) {
	cal, err := s.Calendar(ctx, slug, seasonID, "")
	if err != nil {
		return countdown.Snapshot{}, err
	}
	return countdown.Compute(cal.Events, 0, s.now()), nil
}

// ---------- Standings ----------

type Standings struct {
	Championship championships.Card `json:"championship"`
	Season       *models.Season     `json:"season,omitempty"`
	Categories   []models.Category  `json:"categories"`
	Category     *models.Category   `json:"category,omitempty"`
	LastUpdated  string             `json:"lastUpdated,omitempty"`
	Table        standings.Table    `json:"table"`
}

// Standings pivots the classification of one category: categoryID when
// given, else the season's first category.
func (s *Service) Standings(ctx context.Context, slug, seasonID, categoryID string) (Standings, error) {
	card, _, season, err := s.resolve(ctx, slug, seasonID)
	if err != nil {
		return Standings{}, err
	}
	out := Standings{
		Championship: card,
		Season:       season,
		Categories:   []models.Category{},
		Table:        standings.Pivot(models.CategoryClassification{}),
	}
	if season == nil {
		return out, nil
	}

	out.Categories = s.categoriesOf(ctx, season.ID)
	for i := range out.Categories {
		if categoryID == "" || out.Categories[i].ID == categoryID {
			out.Category = &out.Categories[i]
			break
		}
	}
	if out.Category == nil {
		if categoryID != "" {
			return Standings{}, ErrNotFound
		}
		return out, nil
	}

	cls, err := s.src.SeasonClassification(ctx, season.ID)
	if err != nil {
		degrade("classification of "+season.ID, err)
		return out, nil
	}
	if cls == nil {
		return out, nil
	}
	out.LastUpdated = cls.LastUpdated
	out.Table = standings.Pivot(cls.ClassificationsV2[out.Category.ID])
	return out, nil
}

// ---------- Regulations ----------

func (s *Service) Regulations(ctx context.Context, slug string) ([]championships.RegulationGroup, error) {
	card, err := s.findCard(ctx, slug)
	if err != nil {
		return nil, err
	}
	seasons := s.seasonsOf(ctx, card.ID)

	var all []models.Regulation
	for _, se := range seasons {
		regs, err := s.src.SeasonRegulations(ctx, se.ID)
		if err != nil {
			degrade("regulations of "+se.ID, err)
			continue
		}
		all = append(all, regs...)
	}
	return championships.GroupRegulations(all, seasons, s.loc), nil
}

// ---------- Clubs, pilots, ranking ----------

func (s *Service) Clubs(ctx context.Context) []models.Club {
	clubs, err := s.src.Clubs(ctx)
	if err != nil {
		degrade("clubs", err)
		return []models.Club{}
	}
	return clubs
}

// Club matches the alias case-insensitively, then the id.
func (s *Service) Club(ctx context.Context, alias string) (models.Club, error) {
	clubs := s.Clubs(ctx)
	for _, c := range clubs {
		if strings.EqualFold(c.Alias, alias) {
			return c, nil
		}
	}
	for _, c := range clubs {
		if c.ID == alias {
			return c, nil
		}
	}
	return models.Club{}, ErrNotFound
}

// Pilot matches the API slug, a slug derived from the name, then the id.
func (s *Service) Pilot(ctx context.Context, slug string) (models.Pilot, error) {
	pilots, err := s.src.Pilots(ctx)
	if err != nil {
		degrade("pilots", err)
		return models.Pilot{}, ErrNotFound
	}
	for _, p := range pilots {
		if p.Slug != "" && p.Slug == slug {
			return p, nil
		}
	}
	for _, p := range pilots {
		if p.Slug == "" && util.Slug(p.Name) == slug {
			return p, nil
		}
	}
	for _, p := range pilots {
		if p.ID == slug {
			return p, nil
		}
	}
	return models.Pilot{}, ErrNotFound
}

func (s *Service) Ranking(ctx context.Context) []models.RankingEntry {
	r, err := s.src.Ranking(ctx)
	if err != nil {
		degrade("ranking", err)
		return []models.RankingEntry{}
	}
	return r
}
