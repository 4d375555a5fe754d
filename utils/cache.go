// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"providerhub/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (geocoding results).
	CacheClient *redis.Client
	// AuthCacheClient is the dedicated client for authorization caching.
	AuthCacheClient *redis.Client
	// ChatClient backs chat streams and their pub/sub notifications.
	ChatClient *redis.Client
)

func newRedisClient(db int, purpose string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", purpose, err)
	}
	return client
}

// InitRedis connects every Redis client the service uses.
func InitRedis() {
	GetCacheClient()
	GetAuthCacheClient()
	GetChatClient()
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
	}
	return CacheClient
}

// GetAuthCacheClient returns the Redis client for authorization caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB, "Auth Cache")
	}
	return AuthCacheClient
}

// GetChatClient returns the Redis client for chat channels.
func GetChatClient() *redis.Client {
	if ChatClient == nil {
		ChatClient = newRedisClient(config.AppConfig.RedisChatDB, "Chat")
	}
	return ChatClient
}

// RedisClients lists the initialised clients, for health checks.
func RedisClients() []*redis.Client {
	var clients []*redis.Client
	for _, c := range []*redis.Client{CacheClient, AuthCacheClient, ChatClient} {
		if c != nil {
			clients = append(clients, c)
		}
	}
	return clients
}
