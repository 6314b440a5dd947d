package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/sawdustofmind/nfe-predictor/internal/fixtures"
	"github.com/sawdustofmind/nfe-predictor/internal/log"
	"github.com/sawdustofmind/nfe-predictor/internal/models"
)

const DefaultTTL = 5 * time.Minute

var _ fixtures.Cache = (*FixtureCache)(nil)

// FixtureCache stores live fixture lists per competition code with a TTL.
type FixtureCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewFixtureCache(redisAddr, password string, db int, ttl time.Duration) (*FixtureCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("Successfully connected to Redis", zap.String("address", redisAddr))
	return NewFixtureCacheWithClient(client, ttl), nil
}

// NewFixtureCacheWithClient wraps an existing client without pinging it.
func NewFixtureCacheWithClient(client *redis.Client, ttl time.Duration) *FixtureCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FixtureCache{
		redisClient: client,
		ttl:         ttl,
	}
}

func fixturesKey(code string) string {
	return fmt.Sprintf("fixtures:%s", code)
}

func (c *FixtureCache) Get(ctx context.Context, code string) ([]models.Match, bool, error) {
	data, err := c.redisClient.Get(ctx, fixturesKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached fixtures: %w", err)
	}

	var matches []models.Match
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached fixtures: %w", err)
	}
	return matches, true, nil
}

func (c *FixtureCache) Set(ctx context.Context, code string, matches []models.Match) error {
	data, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("failed to encode fixtures: %w", err)
	}

	if err := c.redisClient.Set(ctx, fixturesKey(code), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store fixtures: %w", err)
	}
	return nil
}

func (c *FixtureCache) Close() error {
	return c.redisClient.Close()
}
