package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/sawdustofmind/nfe-predictor/internal/log"
	"github.com/sawdustofmind/nfe-predictor/internal/models"
)

const (
	DefaultLimit = 10
	UnknownVenue = "Unknown venue"
)

var (
	ErrNoAPIKey     = errors.New("football API key not configured")
	ErrUnauthorized = errors.New("football API rejected the key")
)

// Client talks to the football-data style fixtures API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limit      int
}

func NewClient(baseURL, apiKey string, timeout time.Duration, limit int) *Client {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		limit:   limit,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type matchesResponse struct {
	Matches []apiMatch `json:"matches"`
}

type apiMatch struct {
	ID       int       `json:"id"`
	UTCDate  time.Time `json:"utcDate"`
	Status   string    `json:"status"`
	HomeTeam apiTeam   `json:"homeTeam"`
	AwayTeam apiTeam   `json:"awayTeam"`
	Score    *struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`
	Competition struct {
		Name string `json:"name"`
	} `json:"competition"`
	Venue string `json:"venue"`
}

type apiTeam struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Crest string `json:"crest"`
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Matches fetches the matches of one competition, keeps only scheduled and
// finished ones and caps the result at the client limit.
func (c *Client) Matches(ctx context.Context, code string) ([]models.Match, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	endpoint := fmt.Sprintf("%s/competitions/%s/matches", c.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create fixtures request: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fixtures: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Error("Failed to close fixtures response body", zap.Error(closeErr))
		}
	}()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			return nil, fmt.Errorf("fixtures API returned status %d and failed to read body", resp.StatusCode)
		}
		return nil, fmt.Errorf("fixtures API returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload matchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}

	return toMatches(payload.Matches, c.limit), nil
}

func toMatches(raw []apiMatch, limit int) []models.Match {
	matches := make([]models.Match, 0, min(len(raw), limit))
	for _, m := range raw {
		if len(matches) == limit {
			break
		}
		if m.Status != models.StatusScheduled && m.Status != models.StatusFinished {
			continue
		}

		match := models.Match{
			ID:          m.ID,
			Kickoff:     m.UTCDate,
			Status:      m.Status,
			HomeTeam:    models.Team(m.HomeTeam),
			AwayTeam:    models.Team(m.AwayTeam),
			Competition: m.Competition.Name,
			Venue:       m.Venue,
		}
		if match.Venue == "" {
			match.Venue = UnknownVenue
		}
		if m.Score != nil && m.Score.FullTime.Home != nil && m.Score.FullTime.Away != nil {
			match.Score = &models.Score{Home: *m.Score.FullTime.Home, Away: *m.Score.FullTime.Away}
		}
		matches = append(matches, match)
	}
	return matches
}
