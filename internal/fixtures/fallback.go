package fixtures

import (
	"time"

	"github.com/sawdustofmind/nfe-predictor/internal/models"
)

// Fallback returns the sample matches shown whenever the live provider cannot
// be used. Each call returns a fresh slice.
func Fallback() []models.Match {
	return []models.Match{
		{
			ID:      1,
			Kickoff: time.Date(2025, time.May, 10, 15, 0, 0, 0, time.UTC),
			Status:  models.StatusScheduled,
			HomeTeam: models.Team{
				ID:    57,
				Name:  "Arsenal",
				Crest: "https://crests.football-data.org/57.png",
			},
			AwayTeam: models.Team{
				ID:    61,
				Name:  "Chelsea",
				Crest: "https://crests.football-data.org/61.png",
			},
			Competition: "Premier League",
			Venue:       "Emirates Stadium",
		},
		{
			ID:      2,
			Kickoff: time.Date(2025, time.May, 11, 19, 0, 0, 0, time.UTC),
			Status:  models.StatusScheduled,
			HomeTeam: models.Team{
				ID:    81,
				Name:  "Barcelona",
				Crest: "https://crests.football-data.org/81.png",
			},
			AwayTeam: models.Team{
				ID:    86,
				Name:  "Real Madrid",
				Crest: "https://crests.football-data.org/86.png",
			},
			Competition: "Primera Division",
			Venue:       "Camp Nou",
		},
	}
}
