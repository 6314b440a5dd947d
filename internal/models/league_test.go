package models

import "testing"

func TestLeagueLookup(t *testing.T) {
	l, ok := LeagueBySlug("bundesliga")
	if !ok {
		t.Fatal("bundesliga not found by slug")
	}
	if l.Code != "BL1" {
		t.Errorf("expected code BL1, got %s", l.Code)
	}

	if _, ok := LeagueBySlug("mls"); ok {
		t.Error("unexpected league for unknown slug")
	}
}

func TestLeaguesReturnsCopy(t *testing.T) {
	ls := Leagues()
	if len(ls) != 7 {
		t.Fatalf("expected 7 leagues, got %d", len(ls))
	}
	ls[0].Name = "changed"
	if DefaultLeague().Name != "Premier League" {
		t.Error("mutating the returned slice changed the league table")
	}
}
