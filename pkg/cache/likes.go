// Package cache keeps hot per-post like counters in Redis. The counters are
// an optimization over counting Like rows; every operation here is
// best-effort and a nil client or Redis failure degrades to the DB path.
package cache

import (
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const likeKeyPrefix = "post:"
const likeKeySuffix = ":likes"

// LikeCounter caches like counts per post.
type LikeCounter struct {
	rdb *redis.Client
	log *logrus.Logger
}

// NewLikeCounter creates a LikeCounter. rdb may be nil, in which case every
// read misses and every write is a no-op.
func NewLikeCounter(rdb *redis.Client, log *logrus.Logger) *LikeCounter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LikeCounter{rdb: rdb, log: log}
}

func likeKey(postID string) string {
	return likeKeyPrefix + postID + likeKeySuffix
}

// Get returns the cached count and whether the cache had it.
func (c *LikeCounter) Get(ctx context.Context, postID string) (int64, bool) {
	if c.rdb == nil {
		return 0, false
	}
	val, err := c.rdb.Get(ctx, likeKey(postID)).Result()
	if err == redis.Nil {
		return 0, false
	}
	if err != nil {
		c.log.WithField("post_id", postID).WithError(err).Warn("like counter read failed")
		return 0, false
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// Set stores an authoritative count, typically after a DB recount.
func (c *LikeCounter) Set(ctx context.Context, postID string, count int64) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, likeKey(postID), count, 0).Err(); err != nil {
		c.log.WithField("post_id", postID).WithError(err).Warn("like counter write failed")
	}
}

// Incr bumps the counter after a successful like. Only counters already in
// the cache are bumped; a missing key stays missing until the next recount,
// so the cache never drifts from a cold start.
func (c *LikeCounter) Incr(ctx context.Context, postID string) {
	c.adjust(ctx, postID, 1)
}

// Decr lowers the counter after a successful unlike.
func (c *LikeCounter) Decr(ctx context.Context, postID string) {
	c.adjust(ctx, postID, -1)
}

func (c *LikeCounter) adjust(ctx context.Context, postID string, delta int64) {
	if c.rdb == nil {
		return
	}
	key := likeKey(postID)
	exists, err := c.rdb.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}
	if err := c.rdb.IncrBy(ctx, key, delta).Err(); err != nil {
		c.log.WithField("post_id", postID).WithError(err).Warn("like counter adjust failed")
	}
}

// Forget drops counters for deleted posts.
func (c *LikeCounter) Forget(ctx context.Context, postIDs ...string) {
	if c.rdb == nil || len(postIDs) == 0 {
		return
	}
	keys := make([]string, len(postIDs))
	for i, id := range postIDs {
		keys[i] = likeKey(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.WithError(err).Warn("like counter delete failed")
	}
}
