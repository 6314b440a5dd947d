package models

import "time"

const (
	StatusScheduled = "SCHEDULED"
	StatusFinished  = "FINISHED"
)

type Match struct {
	ID          int       `json:"id"`
	Kickoff     time.Time `json:"kickoff"`
	Status      string    `json:"status"`
	HomeTeam    Team      `json:"home_team"`
	AwayTeam    Team      `json:"away_team"`
	Score       *Score    `json:"score,omitempty"`
	Competition string    `json:"competition"`
	Venue       string    `json:"venue,omitempty"`
}

type Team struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Crest string `json:"crest"`
}

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}
