package prediction

import (
	"strings"
	"testing"
	"time"

	"github.com/sawdustofmind/nfe-predictor/internal/models"
)

func sampleMatch(id int, home, away string) models.Match {
	return models.Match{
		ID:          id,
		Kickoff:     time.Date(2025, time.May, 10, 15, 0, 0, 0, time.UTC),
		Status:      models.StatusScheduled,
		HomeTeam:    models.Team{Name: home},
		AwayTeam:    models.Team{Name: away},
		Competition: "Premier League",
	}
}

func TestFormatMatch(t *testing.T) {
	got := FormatMatch(sampleMatch(1, "Arsenal", "Chelsea"))
	want := "Arsenal vs Chelsea on 2025-05-10 at 15:00 UTC (Premier League)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUserPrompt(t *testing.T) {
	league, _ := models.LeagueBySlug("premier-league")
	fixtures := []models.Match{
		sampleMatch(1, "A", "B"),
		sampleMatch(2, "C", "D"),
		sampleMatch(3, "E", "F"),
		sampleMatch(4, "G", "H"),
	}
	fixtures[0].Score = &models.Score{Home: 3, Away: 1}

	got := UserPrompt(league, "Arsenal vs Chelsea", fixtures, models.BettingPlatforms())

	if !strings.HasPrefix(got, "Premier League match prediction request:\nArsenal vs Chelsea") {
		t.Errorf("unexpected prompt head: %q", got)
	}
	if !strings.Contains(got, "A vs B") || !strings.Contains(got, " 3-1") {
		t.Error("expected first fixture with score in snippet")
	}
	if strings.Contains(got, "G vs H") {
		t.Error("snippet should be capped at three fixtures")
	}
	if !strings.Contains(got, "[Bet365](https://www.bet365.com)") {
		t.Error("expected betting platform links")
	}
}

func TestUserPromptWithoutGrounding(t *testing.T) {
	got := UserPrompt(models.DefaultLeague(), "x", nil, nil)
	if got != "Premier League match prediction request:\nx" {
		t.Errorf("unexpected prompt %q", got)
	}
}
