package models

type League struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Code   string `json:"code"`
	Emblem string `json:"emblem"`
}

var leagues = []League{
	{ID: 39, Name: "Premier League", Slug: "premier-league", Code: "PL", Emblem: "/img/leagues/premier_league.webp"},
	{ID: 140, Name: "Primera Division", Slug: "la-liga", Code: "PD", Emblem: "/img/leagues/laliga.svg"},
	{ID: 78, Name: "Bundesliga", Slug: "bundesliga", Code: "BL1", Emblem: "/img/leagues/bundesliga.webp"},
	{ID: 135, Name: "Serie A", Slug: "serie-a", Code: "SA", Emblem: "/img/leagues/serie_a.webp"},
	{ID: 61, Name: "Ligue 1", Slug: "ligue-1", Code: "FL1", Emblem: "/img/leagues/ligue_1.webp"},
	{ID: 2, Name: "Champions League", Slug: "champions-league", Code: "CL", Emblem: "/img/leagues/championship.webp"},
	{ID: 3, Name: "Europa League", Slug: "europa-league", Code: "EL", Emblem: "/img/leagues/championship.webp"},
}

// Leagues returns a copy of the supported competitions in display order.
func Leagues() []League {
	out := make([]League, len(leagues))
	copy(out, leagues)
	return out
}

// DefaultLeague is the league a new session starts on.
func DefaultLeague() League {
	return leagues[0]
}

func LeagueBySlug(slug string) (League, bool) {
	for _, l := range leagues {
		if l.Slug == slug {
			return l, true
		}
	}
	return League{}, false
}
