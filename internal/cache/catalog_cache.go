package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// CatalogCache is a read-through cache for the room-type and service
// catalogs. It is explicitly non-authoritative: engine decisions always
// re-read the store of truth, and anything served from here is display
// data with a short TTL. A nil cache, or redis being unreachable,
// degrades to direct loader calls.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a CatalogCache over the given redis client. A nil client
// disables caching.
func New(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

// Service returns the catalog service with the given id, consulting
// redis first and falling back to the loader.
func (c *CatalogCache) Service(ctx context.Context, id uuid.UUID, load func() (*models.Service, error)) (*models.Service, error) {
	svc := &models.Service{}
	if c.lookup(ctx, serviceKey(id), svc) {
		return svc, nil
	}
	svc, err := load()
	if err != nil {
		return nil, err
	}
	c.store(ctx, serviceKey(id), svc)
	return svc, nil
}

// RoomType returns the room-type catalog entry with the given id,
// consulting redis first and falling back to the loader.
func (c *CatalogCache) RoomType(ctx context.Context, id uuid.UUID, load func() (*models.RoomType, error)) (*models.RoomType, error) {
	rt := &models.RoomType{}
	if c.lookup(ctx, roomTypeKey(id), rt) {
		return rt, nil
	}
	rt, err := load()
	if err != nil {
		return nil, err
	}
	c.store(ctx, roomTypeKey(id), rt)
	return rt, nil
}

// lookup reports whether the key was found and decoded into dest.
// Redis errors count as misses.
func (c *CatalogCache) lookup(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// store writes the value best effort; a failed write is ignored
func (c *CatalogCache) store(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}

func serviceKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:service:%s", id)
}

func roomTypeKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:roomtype:%s", id)
}
