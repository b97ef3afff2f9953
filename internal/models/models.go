package models

import "encoding/json"

// Entities as served by the cache API. Dates are kept as the raw strings
// the API sends; util.ParseLocalDate turns them into calendar dates.

type Sponsor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	LogoImage string `json:"logoImage,omitempty"`
	Website   string `json:"website,omitempty"`
	Type      string `json:"type,omitempty"`
}

type Championship struct {
	ID                string    `json:"id"`
	Slug              string    `json:"slug,omitempty"`
	Name              string    `json:"name"`
	ShortDescription  string    `json:"shortDescription"`
	FullDescription   string    `json:"fullDescription"`
	ChampionshipImage string    `json:"championshipImage,omitempty"`
	Sponsors          []Sponsor `json:"sponsors,omitempty"`
	Status            string    `json:"status,omitempty"`
}

type PreRegistration struct {
	Enabled bool   `json:"enabled"`
	EndDate string `json:"endDate,omitempty"`
}

type Season struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	StartDate        string           `json:"startDate"`
	EndDate          string           `json:"endDate"`
	ChampionshipID   string           `json:"championshipId"`
	RegistrationOpen bool             `json:"registrationOpen"`
	PreRegistration  *PreRegistration `json:"preRegistration,omitempty"`
}

type Category struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	SeasonID   string   `json:"seasonId"`
	Ballast    int      `json:"ballast"`
	MaxPilots  int      `json:"maxPilots"`
	MinimumAge int      `json:"minimumAge"`
	Pilots     []string `json:"pilots,omitempty"`
}

type Stage struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Kartodrome    string `json:"kartodrome,omitempty"`
	RaceTrackID   string `json:"raceTrackId,omitempty"`
	TrackLayoutID string `json:"trackLayoutId,omitempty"`
	SeasonID      string `json:"seasonId,omitempty"`
	StreamLink    string `json:"streamLink,omitempty"`
	Briefing      string `json:"briefing,omitempty"`
}

type TrackLayout struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Length int    `json:"length,omitempty"`
}

type RaceTrack struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Address      string        `json:"address"`
	City         string        `json:"city,omitempty"`
	State        string        `json:"state,omitempty"`
	IsActive     bool          `json:"isActive"`
	TrackLayouts []TrackLayout `json:"trackLayouts,omitempty"`
}

type Regulation struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Order    int    `json:"order"`
	IsActive bool   `json:"isActive"`
	SeasonID string `json:"seasonId"`
}

// ---------- Classification ----------

type ClassificationTotal struct {
	UserID   string  `json:"userId"`
	Name     string  `json:"name"`
	Nickname string  `json:"nickname,omitempty"`
	Total    float64 `json:"total"`
}

type ClassificationCell struct {
	Token          string  `json:"token"`
	Points         float64 `json:"points"`
	DiscardStage   bool    `json:"discardStage,omitempty"`
	DiscardBattery bool    `json:"discardBattery,omitempty"`
	HadPenalty     bool    `json:"hadPenalty,omitempty"`
}

type ClassificationGridRow struct {
	UserID string                        `json:"userId"`
	Cells  map[string]ClassificationCell `json:"cells"`
}

type ClassificationColumn struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	StageID string `json:"stageId,omitempty"`
	Battery int    `json:"battery,omitempty"`
}

type CategoryClassification struct {
	Totals  []ClassificationTotal   `json:"totals"`
	Grid    []ClassificationGridRow `json:"grid"`
	Columns []ClassificationColumn  `json:"columns"`
}

type SeasonClassification struct {
	SeasonID          string                            `json:"seasonId"`
	LastUpdated       string                            `json:"lastUpdated,omitempty"`
	ClassificationsV2 map[string]CategoryClassification `json:"classificationsV2"`
}

// ---------- Clubs / pilots ----------

type Club struct {
	ID          string    `json:"id"`
	Alias       string    `json:"alias"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	Location    string    `json:"location,omitempty"`
	Sponsors    []Sponsor `json:"sponsors,omitempty"`
}

type Pilot struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug,omitempty"`
	Name          string   `json:"name"`
	Nickname      string   `json:"nickname,omitempty"`
	City          string   `json:"city,omitempty"`
	State         string   `json:"state,omitempty"`
	Championships []string `json:"championships,omitempty"`
}

type RankingEntry struct {
	PilotID  string  `json:"pilotId"`
	Name     string  `json:"name"`
	Position int     `json:"position"`
	Points   float64 `json:"points"`
}

// ---------- Primary API ----------

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Nickname string `json:"nickname,omitempty"`
}

type Lead struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PreRegisterResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
