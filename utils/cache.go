package utils

import (
	"context"
	"log"
	"time"

	"shortlet/config"

	"github.com/go-redis/redis/v8"
)

var cacheClient *redis.Client

// InitRedis connects the shared cache client.
func InitRedis() {
	cacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cacheClient.Ping(ctx).Err(); err != nil {
		log.Printf("Redis cache unavailable, continuing without cache: %v", err)
	}
}

// GetCacheClient returns the shared cache client.
func GetCacheClient() *redis.Client {
	if cacheClient == nil {
		InitRedis()
	}
	return cacheClient
}
