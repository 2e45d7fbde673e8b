package database

import (
	"context"
	"log"
	"time"

	"pesantren_backend/internals/configs"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// ConnectRedis bersifat opsional: tanpa REDIS_ADDR cache ringkasan absensi dimatikan.
func ConnectRedis() {
	addr := configs.GetEnv("REDIS_ADDR")
	if addr == "" {
		log.Println("ℹ️ REDIS_ADDR kosong, cache dimatikan")
		return
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     configs.GetEnv("REDIS_PASSWORD"),
		DB:           configs.GetEnvInt("REDIS_DB", 0),
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis tidak bisa dihubungi (%v), cache dimatikan", err)
		_ = rdb.Close()
		return
	}
	Redis = rdb
	log.Println("✅ Redis connected.")
}

func CloseRedis() {
	if Redis != nil {
		_ = Redis.Close()
	}
}
