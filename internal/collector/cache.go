package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"MarketConfluence/internal/model"
)

// ErrCacheMiss is returned by a Store when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Store is a byte cache with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStore implements Store on Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis. Keys are namespaced with prefix.
func NewRedisStore(addr, password string, db int, prefix string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		prefix: prefix,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// CachedFetcher serves repeated requests from a Store. Cache failures fall through to the wrapped fetcher.
type CachedFetcher struct {
	next  Fetcher
	store Store
	ttl   time.Duration
	log   *zap.Logger
}

// NewCachedFetcher wraps next with store.
func NewCachedFetcher(next Fetcher, store Store, ttl time.Duration, log *zap.Logger) *CachedFetcher {
	return &CachedFetcher{next: next, store: store, ttl: ttl, log: log}
}

func (f *CachedFetcher) Name() string { return "cached:" + f.next.Name() }

func cacheKey(req model.Request) string {
	return fmt.Sprintf("candles:%s:%s:%d", strings.ToUpper(req.Symbol), req.Interval, req.Limit)
}

func (f *CachedFetcher) FetchCandles(ctx context.Context, req model.Request) (model.Series, error) {
	return f.fetchWithin(ctx, req, 0)
}

// fetchWithin passes timeout on to the wrapped fetcher. Cache I/O is not subject to it.
func (f *CachedFetcher) fetchWithin(ctx context.Context, req model.Request, timeout time.Duration) (model.Series, error) {
	key := cacheKey(req)

	data, err := f.store.Get(ctx, key)
	switch {
	case err == nil:
		var series model.Series
		if err := json.Unmarshal(data, &series); err == nil {
			f.log.Debug("candle cache hit", zap.String("key", key))
			return series, nil
		}
		f.log.Warn("discarding corrupt cache entry", zap.String("key", key))
	case !errors.Is(err, ErrCacheMiss):
		f.log.Warn("candle cache read failed", zap.String("key", key), zap.Error(err))
	}

	var series model.Series
	if b, ok := f.next.(budgeted); ok {
		series, err = b.fetchWithin(ctx, req, timeout)
	} else {
		series, err = fetchOne(ctx, f.next, req, timeout)
	}
	if err != nil {
		return model.Series{}, err
	}

	if data, err := json.Marshal(series); err == nil {
		if err := f.store.Set(ctx, key, data, f.ttl); err != nil {
			f.log.Warn("candle cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return series, nil
}
