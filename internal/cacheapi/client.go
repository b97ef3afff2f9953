package cacheapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"brk-portal/internal/models"
)

var ErrNotFound = errors.New("not found")

// StatusError is returned for any non-2xx answer other than 404.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cache api %s: status %d: %s", e.Path, e.Code, e.Body)
}

// Envelope is the shape every cache endpoint answers with.
type Envelope[T any] struct {
	Data        T               `json:"data"`
	Count       *int            `json:"count,omitempty"`
	Performance json.RawMessage `json:"performance,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var zero T

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("cache api %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return zero, fmt.Errorf("cache api %s: %w", path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return zero, &StatusError{Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var env Envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return zero, fmt.Errorf("cache api %s: decode: %w", path, err)
	}
	// {"data":null} for a single record means there is nothing to show yet.
	if v := reflect.ValueOf(env.Data); v.Kind() == reflect.Pointer && v.IsNil() {
		return zero, fmt.Errorf("cache api %s: %w", path, ErrNotFound)
	}
	return env.Data, nil
}

// ---------- Championships ----------

func (c *Client) Championships(ctx context.Context) ([]models.Championship, error) {
	return get[[]models.Championship](ctx, c, "/cache/championships", nil)
}

func (c *Client) Championship(ctx context.Context, id string) (*models.Championship, error) {
	return get[*models.Championship](ctx, c, "/cache/championships/"+url.PathEscape(id), nil)
}

func (c *Client) ChampionshipSeasons(ctx context.Context, championshipID string) ([]models.Season, error) {
	return get[[]models.Season](ctx, c, "/cache/championships/"+url.PathEscape(championshipID)+"/seasons", nil)
}

// ---------- Seasons / categories / stages ----------

func (c *Client) Seasons(ctx context.Context) ([]models.Season, error) {
	return get[[]models.Season](ctx, c, "/cache/seasons", nil)
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	return get[[]models.Category](ctx, c, "/cache/categories", nil)
}

func (c *Client) Stages(ctx context.Context) ([]models.Stage, error) {
	return get[[]models.Stage](ctx, c, "/cache/stages", nil)
}

func (c *Client) RaceTracks(ctx context.Context) ([]models.RaceTrack, error) {
	return get[[]models.RaceTrack](ctx, c, "/cache/raceTracks", nil)
}

func (c *Client) SeasonClassification(ctx context.Context, seasonID string) (*models.SeasonClassification, error) {
	return get[*models.SeasonClassification](ctx, c, "/cache/seasons/"+url.PathEscape(seasonID)+"/classification", nil)
}

// ---------- Regulations ----------

func (c *Client) Regulations(ctx context.Context) ([]models.Regulation, error) {
	return get[[]models.Regulation](ctx, c, "/cache/regulations", nil)
}

func (c *Client) SeasonRegulations(ctx context.Context, seasonID string) ([]models.Regulation, error) {
	return get[[]models.Regulation](ctx, c, "/cache/seasons/"+url.PathEscape(seasonID)+"/regulations", nil)
}

// ---------- Clubs / pilots / ranking ----------

func (c *Client) Clubs(ctx context.Context) ([]models.Club, error) {
	return get[[]models.Club](ctx, c, "/cache/club", nil)
}

func (c *Client) Pilots(ctx context.Context) ([]models.Pilot, error) {
	return get[[]models.Pilot](ctx, c, "/cache/pilot", nil)
}

func (c *Client) Pilot(ctx context.Context, id string) (*models.Pilot, error) {
	return get[*models.Pilot](ctx, c, "/cache/pilot/"+url.PathEscape(id), nil)
}

func (c *Client) Ranking(ctx context.Context) ([]models.RankingEntry, error) {
	return get[[]models.RankingEntry](ctx, c, "/cache/ranking", nil)
}
