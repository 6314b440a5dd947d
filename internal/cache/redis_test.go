package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/sawdustofmind/nfe-predictor/internal/models"
)

func TestFixturesKey(t *testing.T) {
	if got := fixturesKey("BL1"); got != "fixtures:BL1" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestNewFixtureCacheWithClientDefaultsTTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	c := NewFixtureCacheWithClient(client, 0)
	if c.ttl != DefaultTTL {
		t.Errorf("expected default ttl, got %v", c.ttl)
	}
}

func TestGetReportsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewFixtureCacheWithClient(client, time.Minute)
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "PL")
	if err == nil {
		t.Fatal("expected an error from an unreachable server")
	}
	if ok {
		t.Error("a failed read must not report a hit")
	}
}

func TestFixtureCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewFixtureCacheWithClient(client, 2*time.Minute)
	defer c.Close()

	kickoff := time.Date(2025, time.May, 10, 15, 0, 0, 0, time.UTC)
	stored := []models.Match{
		{
			ID:          1,
			Kickoff:     kickoff,
			Status:      models.StatusFinished,
			HomeTeam:    models.Team{ID: 57, Name: "Arsenal", Crest: "arsenal.png"},
			AwayTeam:    models.Team{ID: 61, Name: "Chelsea"},
			Score:       &models.Score{Home: 2, Away: 1},
			Competition: "Premier League",
			Venue:       "Emirates Stadium",
		},
		{
			ID:          2,
			Kickoff:     kickoff.Add(24 * time.Hour),
			Status:      models.StatusScheduled,
			HomeTeam:    models.Team{ID: 81, Name: "Barcelona"},
			AwayTeam:    models.Team{ID: 86, Name: "Real Madrid"},
			Competition: "Primera Division",
		},
	}

	ctx := context.Background()
	if err := c.Set(ctx, "PL", stored); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl := mr.TTL("fixtures:PL"); ttl != 2*time.Minute {
		t.Errorf("expected 2m TTL, got %v", ttl)
	}

	got, ok, err := c.Get(ctx, "PL")
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != len(stored) {
		t.Fatalf("expected %d matches, got %d", len(stored), len(got))
	}
	for i := range stored {
		want, have := stored[i], got[i]
		if !have.Kickoff.Equal(want.Kickoff) {
			t.Errorf("match %d: kickoff %v, want %v", i, have.Kickoff, want.Kickoff)
		}
		if (have.Score == nil) != (want.Score == nil) || (want.Score != nil && *have.Score != *want.Score) {
			t.Errorf("match %d: score %+v, want %+v", i, have.Score, want.Score)
		}
		have.Kickoff, want.Kickoff = time.Time{}, time.Time{}
		have.Score, want.Score = nil, nil
		if have != want {
			t.Errorf("match %d: got %+v, want %+v", i, have, want)
		}
	}

	missing, ok, err := c.Get(ctx, "SA")
	if err != nil {
		t.Fatalf("a miss must not be an error: %v", err)
	}
	if ok || missing != nil {
		t.Errorf("expected a miss, got ok=%v matches=%+v", ok, missing)
	}

	mr.FastForward(3 * time.Minute)
	if _, ok, _ := c.Get(ctx, "PL"); ok {
		t.Error("entry should expire after its TTL")
	}
}
