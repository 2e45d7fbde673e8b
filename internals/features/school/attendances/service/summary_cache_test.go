package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (SummaryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSummaryCache(rdb, ttl), mr
}

func TestNewSummaryCache_NilClientIsNoop(t *testing.T) {
	c := NewSummaryCache(nil, time.Minute)
	ctx := context.Background()
	sid := uuid.New()

	c.SetMonthly(ctx, sid, 0, "2024-07", 6, []MonthlyAttendance{{Month: "2024-07", Total: 1}})
	got, _, ok := c.GetMonthly(ctx, sid, "2024-07", 6)
	assert.False(t, ok)
	assert.Nil(t, got)
	c.InvalidateStudent(ctx, sid)
}

func TestRedisSummaryCache_RoundTripAndInvalidate(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	sid := uuid.New()
	rows := []MonthlyAttendance{
		{MonthLabel: "Jun 2024", Month: "2024-06", Total: 4, Present: 3, Late: 1},
		{MonthLabel: "Jul 2024", Month: "2024-07", Total: 2, Present: 1, Absent: 1},
	}

	_, ver, ok := cache.GetMonthly(ctx, sid, "2024-07", 2)
	require.False(t, ok)

	cache.SetMonthly(ctx, sid, ver, "2024-07", 2, rows)
	got, _, ok := cache.GetMonthly(ctx, sid, "2024-07", 2)
	require.True(t, ok)
	assert.Equal(t, rows, got)

	// parameter berbeda = key berbeda
	_, _, ok = cache.GetMonthly(ctx, sid, "2024-07", 6)
	assert.False(t, ok)

	cache.InvalidateStudent(ctx, sid)
	_, _, ok = cache.GetMonthly(ctx, sid, "2024-07", 2)
	assert.False(t, ok)
}

func TestRedisSummaryCache_WriteDuringReadLandsOnDeadVersion(t *testing.T) {
	cache, _ := newTestCache(t, 10*time.Minute)
	ctx := context.Background()
	sid := uuid.New()
	stale := []MonthlyAttendance{{Month: "2024-07", Total: 1, Present: 1}}

	// reader miss → (batch absensi commit + invalidasi) → reader menulis hasil query lama
	_, ver, ok := cache.GetMonthly(ctx, sid, "2024-07", 6)
	require.False(t, ok)
	cache.InvalidateStudent(ctx, sid)
	cache.SetMonthly(ctx, sid, ver, "2024-07", 6, stale)

	got, _, ok := cache.GetMonthly(ctx, sid, "2024-07", 6)
	assert.False(t, ok, "ringkasan sebelum tulis tidak boleh tersaji: %v", got)
}

func TestRedisSummaryCache_VersionSurvivesEntryTTL(t *testing.T) {
	cache, mr := newTestCache(t, 10*time.Minute)
	ctx := context.Background()
	sid := uuid.New()
	old := []MonthlyAttendance{{Month: "2024-07", Total: 1, Present: 1}}

	cache.InvalidateStudent(ctx, sid)
	mr.FastForward(19 * time.Minute)

	_, ver, ok := cache.GetMonthly(ctx, sid, "2024-07", 6)
	require.False(t, ok)
	cache.SetMonthly(ctx, sid, ver, "2024-07", 6, old)

	mr.FastForward(2 * time.Minute)
	cache.InvalidateStudent(ctx, sid)

	got, _, ok := cache.GetMonthly(ctx, sid, "2024-07", 6)
	assert.False(t, ok, "ringkasan lama muncul lagi setelah invalidasi: %v", got)

	// entry tetap kedaluwarsa sesuai TTL
	_, ver, _ = cache.GetMonthly(ctx, sid, "2024-07", 6)
	cache.SetMonthly(ctx, sid, ver, "2024-07", 6, old)
	_, _, ok = cache.GetMonthly(ctx, sid, "2024-07", 6)
	require.True(t, ok)
	mr.FastForward(11 * time.Minute)
	_, _, ok = cache.GetMonthly(ctx, sid, "2024-07", 6)
	assert.False(t, ok)
}
