package binding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebasr/sensores-dashboard/internal/cache"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

func newTestReader() (*Reader, *store.MockGateway, *int) {
	gateway := store.NewMockGateway()
	calls := 0
	gateway.ReadManyFunc = func(_ context.Context, _ string, _ []store.Constraint) ([]store.Record, error) {
		calls++
		return []store.Record{{ID: "r1", Fields: store.Fields{}}}, nil
	}
	return NewReader(gateway, cache.NewMemoryCache(time.Minute)), gateway, &calls
}

func TestReader_ReadMany_ReadThrough(t *testing.T) {
	reader, _, calls := newTestReader()
	ctx := context.Background()
	constraints := []store.Constraint{store.Where("deviceId", store.OpEqual, "d1")}

	first, err := reader.ReadMany(ctx, "readings", constraints, false)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, *calls)

	// Equal constraints by value, new slice instance: served from cache.
	second, err := reader.ReadMany(ctx, "readings", []store.Constraint{store.Where("deviceId", store.OpEqual, "d1")}, false)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, *calls)
}

func TestReader_ReadMany_BypassStillRepopulates(t *testing.T) {
	reader, _, calls := newTestReader()
	ctx := context.Background()

	_, err := reader.ReadMany(ctx, "readings", nil, false)
	require.NoError(t, err)
	_, err = reader.ReadMany(ctx, "readings", nil, true)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)

	// The bypassed read warmed the cache for the next caller.
	_, err = reader.ReadMany(ctx, "readings", nil, false)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
}

func TestReader_ReadOne_CachesAbsence(t *testing.T) {
	gateway := store.NewMockGateway()
	calls := 0
	gateway.ReadOneFunc = func(_ context.Context, _, _ string) (*store.Record, error) {
		calls++
		return nil, nil
	}
	reader := NewReader(gateway, cache.NewMemoryCache(time.Minute))
	ctx := context.Background()

	rec, err := reader.ReadOne(ctx, "devices", "ghost", false)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, 1, calls)

	rec, err = reader.ReadOne(ctx, "devices", "ghost", false)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, 1, calls, "absence must be answered from the cache")
}

func TestReader_ReadOne_HitAfterMiss(t *testing.T) {
	gateway := store.NewMockGateway()
	calls := 0
	gateway.ReadOneFunc = func(_ context.Context, _, id string) (*store.Record, error) {
		calls++
		return &store.Record{ID: id, Fields: store.Fields{"name": "n"}}, nil
	}
	reader := NewReader(gateway, cache.NewMemoryCache(time.Minute))
	ctx := context.Background()

	first, err := reader.ReadOne(ctx, "devices", "d1", false)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := reader.ReadOne(ctx, "devices", "d1", false)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "d1", second.ID)
	assert.Equal(t, 1, calls)
}
