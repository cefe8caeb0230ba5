package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/opengovern/linkhub/services/quota/db/model"
)

// markerTTL outlives any monthly period, so a marker can never expire inside the period it guards.
const markerTTL = 62 * 24 * time.Hour

type WarningMarkerRedis struct {
	rdb *redis.Client
}

func NewWarningMarkerRedis(rdb *redis.Client) WarningMarkerRepo {
	return &WarningMarkerRedis{
		rdb: rdb,
	}
}

func markerRedisKey(key model.MarkerKey) string {
	return fmt.Sprintf("linkhub:marker:%s:%s:%s:%s", key.EventType, key.PeriodKey, key.ActionType, key.ProfileID)
}

func (r *WarningMarkerRedis) Exists(ctx context.Context, key model.MarkerKey) (bool, error) {
	n, err := r.rdb.Exists(ctx, markerRedisKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *WarningMarkerRedis) Create(ctx context.Context, key model.MarkerKey) (bool, error) {
	return r.rdb.SetNX(ctx, markerRedisKey(key), time.Now().UTC().Format(time.RFC3339), markerTTL).Result()
}
