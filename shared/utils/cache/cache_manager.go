package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"marketplace-backend/shared/config"
	"marketplace-backend/shared/database/models"
)

// CacheManager caches resolved session users so the auth middleware does not
// hit the database on every request. Entries are invalidated whenever a user
// row is mutated.
type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

var (
	globalCacheManager *CacheManager
	SessionUserTTL     = 5 * time.Minute
)

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalCacheManager = &CacheManager{client: client, ctx: ctx}
	log.Println("✅ Redis cache manager initialized")
	return nil
}

// GetCacheManager returns the global cache manager, or nil when Redis is not
// configured. Callers treat a nil manager as a cache miss.
func GetCacheManager() *CacheManager {
	return globalCacheManager
}

func sessionUserKey(id uuid.UUID) string {
	return "session:user:" + id.String()
}

// GetSessionUser returns the cached user, or (nil, false) on a miss or any
// cache-level failure. Cache failures never fail a request.
func (cm *CacheManager) GetSessionUser(id uuid.UUID) (*models.User, bool) {
	data, err := cm.client.Get(cm.ctx, sessionUserKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, false
	}
	return &user, true
}

// SetSessionUser stores the resolved user with the session TTL.
func (cm *CacheManager) SetSessionUser(user *models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := cm.client.Set(cm.ctx, sessionUserKey(user.ID), data, SessionUserTTL).Err(); err != nil {
		log.Printf("⚠️ Failed to cache session user %s: %v", user.ID, err)
	}
}

// InvalidateSessionUser drops a cached user after a mutation so the next
// request resolves the fresh row.
func (cm *CacheManager) InvalidateSessionUser(id uuid.UUID) {
	if err := cm.client.Del(cm.ctx, sessionUserKey(id)).Err(); err != nil {
		log.Printf("⚠️ Failed to invalidate session user %s: %v", id, err)
	}
}

// Close closes the Redis connection.
func (cm *CacheManager) Close() error {
	return cm.client.Close()
}
