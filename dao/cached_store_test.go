package dao_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/permy/dao"
	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindSubject(ctx context.Context, id string) (*model.Subject, error) {
	args := m.Called(ctx, id)
	subject, _ := args.Get(0).(*model.Subject)
	return subject, args.Error(1)
}

func (m *mockStore) RecordsFor(ctx context.Context, subjectID, resourceKey string) ([]engine.EncodedRecord, error) {
	args := m.Called(ctx, subjectID, resourceKey)
	records, _ := args.Get(0).([]engine.EncodedRecord)
	return records, args.Error(1)
}

type fakeRedis struct {
	data   map[string]string
	getErr error
	ttl    time.Duration
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestCachedStore_RecordsFor(t *testing.T) {
	inner := new(mockStore)
	cache := &fakeRedis{data: map[string]string{}}
	store := dao.NewCachedStore(inner, cache, time.Minute)
	ctx := context.Background()

	want := []engine.EncodedRecord{engine.EncodedRecord(`{"show":true}`), nil}
	inner.On("RecordsFor", ctx, "1", "acme::post").Return(want, nil).Once()

	first, err := store.RecordsFor(ctx, "1", "acme::post")
	require.NoError(t, err)
	assert.Equal(t, want, first)
	assert.Equal(t, time.Minute, cache.ttl)

	second, err := store.RecordsFor(ctx, "1", "acme::post")
	require.NoError(t, err)
	assert.Equal(t, want, second)

	inner.AssertExpectations(t)
}

func TestCachedStore_FallsThroughOnCacheError(t *testing.T) {
	inner := new(mockStore)
	store := dao.NewCachedStore(inner, &fakeRedis{data: map[string]string{}, getErr: errors.New("redis down")}, time.Minute)
	ctx := context.Background()

	inner.On("RecordsFor", ctx, "1", "acme::post").Return([]engine.EncodedRecord{engine.EncodedRecord(`{}`)}, nil).Twice()
	inner.On("FindSubject", ctx, "1").Return(&model.Subject{ID: "1"}, nil)

	for i := 0; i < 2; i++ {
		records, err := store.RecordsFor(ctx, "1", "acme::post")
		require.NoError(t, err)
		assert.Len(t, records, 1)
	}
	subject, err := store.FindSubject(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", subject.ID)

	inner.AssertExpectations(t)
}

func TestCachedStore_DoesNotCacheErrors(t *testing.T) {
	inner := new(mockStore)
	cache := &fakeRedis{data: map[string]string{}}
	store := dao.NewCachedStore(inner, cache, time.Minute)
	ctx := context.Background()

	inner.On("RecordsFor", ctx, "1", "acme::post").Return(nil, errors.New("db down")).Once()
	_, err := store.RecordsFor(ctx, "1", "acme::post")
	assert.Error(t, err)
	assert.Empty(t, cache.data)
}
