package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"pesantren_backend/internals/metrics"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SummaryCache menyimpan ringkasan bulanan per siswa.
// Invalidasi per siswa menaikkan versi, key lama dibiarkan kedaluwarsa oleh TTL.
// GetMonthly mengembalikan versi yang dibaca; SetMonthly menulis di bawah versi itu,
// jadi invalidasi yang terjadi selama query DB membuat hasilnya jatuh ke key mati.
type SummaryCache interface {
	GetMonthly(ctx context.Context, studentID uuid.UUID, anchor string, months int) (rows []MonthlyAttendance, version int64, ok bool)
	SetMonthly(ctx context.Context, studentID uuid.UUID, version int64, anchor string, months int, v []MonthlyAttendance)
	InvalidateStudent(ctx context.Context, studentID uuid.UUID)
}

// versi < 0: tidak diketahui, SetMonthly dilewati
const unknownVersion int64 = -1

type noopSummaryCache struct{}

func NewNoopSummaryCache() SummaryCache { return noopSummaryCache{} }

func (noopSummaryCache) GetMonthly(context.Context, uuid.UUID, string, int) ([]MonthlyAttendance, int64, bool) {
	return nil, unknownVersion, false
}
func (noopSummaryCache) SetMonthly(context.Context, uuid.UUID, int64, string, int, []MonthlyAttendance) {
}
func (noopSummaryCache) InvalidateStudent(context.Context, uuid.UUID) {}

type RedisSummaryCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewSummaryCache: rdb nil → no-op.
func NewSummaryCache(rdb *redis.Client, ttl time.Duration) SummaryCache {
	if rdb == nil {
		return NewNoopSummaryCache()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisSummaryCache{rdb: rdb, ttl: ttl, prefix: "pesantren:attendance"}
}

func (c *RedisSummaryCache) versionKey(studentID uuid.UUID) string {
	return fmt.Sprintf("%s:ver:%s", c.prefix, studentID)
}

// Key versi tidak pernah kedaluwarsa: kalau hilang, INCR berikutnya akan
// mengulang nomor versi lama dan entry lama bisa hidup lagi.
func (c *RedisSummaryCache) version(ctx context.Context, studentID uuid.UUID) (int64, error) {
	v, err := c.rdb.Get(ctx, c.versionKey(studentID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

func (c *RedisSummaryCache) monthlyKey(studentID uuid.UUID, ver int64, anchor string, months int) string {
	return fmt.Sprintf("%s:monthly:%s:v%d:%s:%d", c.prefix, studentID, ver, anchor, months)
}

func (c *RedisSummaryCache) GetMonthly(ctx context.Context, studentID uuid.UUID, anchor string, months int) ([]MonthlyAttendance, int64, bool) {
	ver, err := c.version(ctx, studentID)
	if err != nil {
		log.Printf("[AttendanceCache] get version %s: %v", studentID, err)
		return nil, unknownVersion, false
	}
	raw, err := c.rdb.Get(ctx, c.monthlyKey(studentID, ver, anchor, months)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[AttendanceCache] get monthly %s: %v", studentID, err)
		}
		metrics.ObserveAttendanceCache(false)
		return nil, ver, false
	}
	var out []MonthlyAttendance
	if err := sonic.Unmarshal(raw, &out); err != nil {
		log.Printf("[AttendanceCache] decode monthly %s: %v", studentID, err)
		metrics.ObserveAttendanceCache(false)
		return nil, ver, false
	}
	metrics.ObserveAttendanceCache(true)
	return out, ver, true
}

// SetMonthly: version harus berasal dari GetMonthly sebelum query DB.
func (c *RedisSummaryCache) SetMonthly(ctx context.Context, studentID uuid.UUID, version int64, anchor string, months int, v []MonthlyAttendance) {
	if version < 0 {
		return
	}
	b, err := sonic.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.monthlyKey(studentID, version, anchor, months), b, c.ttl).Err(); err != nil {
		log.Printf("[AttendanceCache] set monthly %s: %v", studentID, err)
	}
}

func (c *RedisSummaryCache) InvalidateStudent(ctx context.Context, studentID uuid.UUID) {
	if err := c.rdb.Incr(ctx, c.versionKey(studentID)).Err(); err != nil {
		log.Printf("[AttendanceCache] invalidate %s: %v", studentID, err)
	}
}
