package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/geocode"
)

const keyGeocode = "geocode:"

// GeocodeCache stores resolved addresses in Redis.
type GeocodeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewGeocodeCache returns a new GeocodeCache.
func NewGeocodeCache(rdb *redis.Client, ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached result for address; ok is false on a miss.
func (c *GeocodeCache) Get(ctx context.Context, address string) (res geocode.Result, ok bool, err error) {
	b, err := c.rdb.Get(ctx, keyGeocode+normalizeAddress(address)).Bytes()
	if err == redis.Nil {
		return geocode.Result{}, false, nil
	}
	if err != nil {
		return geocode.Result{}, false, err
	}
	if err := json.Unmarshal(b, &res); err != nil {
		return geocode.Result{}, false, err
	}
	return res, true, nil
}

// Set stores the result for address.
func (c *GeocodeCache) Set(ctx context.Context, address string, res geocode.Result) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyGeocode+normalizeAddress(address), b, c.ttl).Err()
}

// CachedResolver serves repeated addresses from Redis and collapses
// concurrent lookups of the same address into one upstream call.
// Cache failures are logged and never fail a lookup.
type CachedResolver struct {
	next  geocode.Resolver
	cache *GeocodeCache
	log   logrus.FieldLogger
	sf    singleflight.Group
}

// NewCachedResolver wraps next with c.
func NewCachedResolver(next geocode.Resolver, c *GeocodeCache, log logrus.FieldLogger) *CachedResolver {
	return &CachedResolver{next: next, cache: c, log: log}
}

func (r *CachedResolver) Resolve(ctx context.Context, address string) (geocode.Result, error) {
	v, err, _ := r.sf.Do(normalizeAddress(address), func() (interface{}, error) {
		res, ok, err := r.cache.Get(ctx, address)
		if err != nil {
			r.log.WithError(err).Warn("geocode cache read failed")
		} else if ok {
			return res, nil
		}

		res, err = r.next.Resolve(ctx, address)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Set(ctx, address, res); err != nil {
			r.log.WithError(err).Warn("geocode cache write failed")
		}
		return res, nil
	})
	if err != nil {
		return geocode.Result{}, err
	}
	return v.(geocode.Result), nil
}

func normalizeAddress(a string) string {
	return strings.Join(strings.Fields(strings.ToLower(a)), " ")
}
