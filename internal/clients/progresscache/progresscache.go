package progresscache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/skillforge/skillforge-backend/internal/modules/progression"
	"github.com/skillforge/skillforge-backend/internal/platform/envutil"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

// Cache is a short-TTL redis cache for derived progress views. The database
// stays the source of truth; every failure here degrades to a recompute.
type Cache struct {
	log *logger.Logger
	rdb *redis.Client
	ttl time.Duration
}

func New(log *logger.Logger) (*Cache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Cache{
		log: log.With("client", "ProgressCache"),
		rdb: rdb,
		ttl: time.Duration(envutil.Int("PROGRESS_CACHE_TTL_SECONDS", 30)) * time.Second,
	}, nil
}

func key(userID, courseID uuid.UUID) string {
	return fmt.Sprintf("progress:%s:%s", userID, courseID)
}

func (c *Cache) GetProgress(ctx context.Context, userID, courseID uuid.UUID) (*progression.CourseProgress, bool) {
	raw, err := c.rdb.Get(ctx, key(userID, courseID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("cache get failed", "error", err)
		}
		return nil, false
	}
	var progress progression.CourseProgress
	if err := json.Unmarshal(raw, &progress); err != nil {
		c.log.Warn("cache entry corrupt, dropping", "error", err)
		c.Invalidate(ctx, userID, courseID)
		return nil, false
	}
	return &progress, true
}

func (c *Cache) SetProgress(ctx context.Context, progress progression.CourseProgress) {
	raw, err := json.Marshal(progress)
	if err != nil {
		c.log.Warn("cache encode failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key(progress.UserID, progress.CourseID), raw, c.ttl).Err(); err != nil {
		c.log.Debug("cache set failed", "error", err)
	}
}

func (c *Cache) Invalidate(ctx context.Context, userID, courseID uuid.UUID) {
	if err := c.rdb.Del(ctx, key(userID, courseID)).Err(); err != nil {
		c.log.Debug("cache invalidate failed", "error", err)
	}
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
