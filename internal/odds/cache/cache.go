package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func keyMarkets(sportID, competitionID string) string {
	return "odds:markets:" + sportID + ":" + competitionID
}

func (c *Cache) GetMarkets(ctx context.Context, sportID, competitionID string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyMarkets(sportID, competitionID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetMarkets(ctx context.Context, sportID, competitionID string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, keyMarkets(sportID, competitionID), b, ttl).Err()
}
