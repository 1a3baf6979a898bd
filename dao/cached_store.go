// dao/cached_store.go
package dao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
)

// RedisClient is the part of redis.Cmdable the cache needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedStore memoises RecordsFor in Redis. Cache failures fall through to
// the wrapped store.
type CachedStore struct {
	Store
	client RedisClient
	ttl    time.Duration
}

var _ Store = (*CachedStore)(nil)

func NewCachedStore(store Store, client RedisClient, ttl time.Duration) *CachedStore {
	return &CachedStore{Store: store, client: client, ttl: ttl}
}

// cachedRecords keeps nil records apart from empty ones.
type cachedRecords struct {
	Records []*string `json:"records"`
}

func recordsKey(subjectID, resourceKey string) string {
	return fmt.Sprintf("permy:records:%s:%s", subjectID, resourceKey)
}

func (s *CachedStore) RecordsFor(ctx context.Context, subjectID, resourceKey string) ([]engine.EncodedRecord, error) {
	key := recordsKey(subjectID, resourceKey)

	cached, err := s.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var entry cachedRecords
		if err := json.Unmarshal([]byte(cached), &entry); err == nil {
			logger.Debug("Permission records served from cache", zap.String("key", key))
			return entry.decode(), nil
		}
		logger.Warn("Dropping malformed cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		logger.Warn("Failed to read permission records from cache", zap.Error(err), zap.String("key", key))
	}

	records, err := s.Store.RecordsFor(ctx, subjectID, resourceKey)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(encodeRecords(records))
	if err == nil {
		err = s.client.Set(ctx, key, data, s.ttl).Err()
	}
	if err != nil {
		logger.Warn("Failed to cache permission records", zap.Error(err), zap.String("key", key))
	}
	return records, nil
}

func encodeRecords(records []engine.EncodedRecord) cachedRecords {
	entry := cachedRecords{Records: make([]*string, len(records))}
	for i, r := range records {
		if r != nil {
			v := string(r)
			entry.Records[i] = &v
		}
	}
	return entry
}

func (c cachedRecords) decode() []engine.EncodedRecord {
	out := make([]engine.EncodedRecord, len(c.Records))
	for i, r := range c.Records {
		if r != nil {
			out[i] = engine.EncodedRecord(*r)
		}
	}
	return out
}
