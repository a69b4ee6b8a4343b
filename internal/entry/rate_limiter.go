package entry

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/platform/database"
	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/redis/go-redis/v9"
)

const (
	// intakeKeyPrefix 是Redis中有序集合的键名前缀，成员是每次提交，分数是提交时间(微秒)
	intakeKeyPrefix = "intake_ip:"
	// redisOpTimeout 限制单次限流检查占用的时间
	redisOpTimeout = 500 * time.Millisecond
)

// RateLimiter 用Redis滑动窗口限制每个IP提交饮水记录的频率
type RateLimiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
	now    func() time.Time
	// healthy 返回Redis当前是否可用，不可用时直接放行
	healthy func() bool
}

// NewRateLimiter 创建限流器，rdb为nil或max<=0时限流器始终放行
func NewRateLimiter(rdb *redis.Client, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		rdb:     rdb,
		max:     max,
		window:  window,
		now:     time.Now,
		healthy: database.IsRedisHealthy,
	}
}

func (r *RateLimiter) enabled() bool {
	return r != nil && r.rdb != nil && r.max > 0 && r.window > 0
}

// generateMemberID 根据给定的时间生成一个16字节的、抗冲突的ID
// 结构: [ 8字节纳秒时间戳 (Big Endian) | 8字节随机数 ]
func generateMemberID(t time.Time) (string, error) {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[0:8], uint64(t.UnixNano()))
	if _, err := rand.Read(b[8:16]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Allow 记录一次来自ip的提交，并返回该提交是否在限额之内。
// 超限的提交不计入窗口。
func (r *RateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	if !r.enabled() {
		return true, nil
	}

	now := r.now()
	key := intakeKeyPrefix + ip
	windowStart := strconv.FormatInt(now.Add(-r.window).UnixMicro(), 10)
	member, err := generateMemberID(now)
	if err != nil {
		return false, err
	}

	// 1. 剔除、写入、续期、计数在同一个事务Pipeline中完成，并发提交看到的计数包含彼此
	pipe := r.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", "("+windowStart)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMicro()), Member: member})
	pipe.Expire(ctx, key, r.window+time.Minute)
	countCmd := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	if countCmd.Val() <= int64(r.max) {
		return true, nil
	}

	// 2. 超限，撤回本次写入
	if err := r.rdb.ZRem(ctx, key, member).Err(); err != nil {
		return false, err
	}
	return false, nil
}

// Middleware 返回用于饮水记录提交路由的Gin中间件。
// Redis不可用时放行，避免限流影响核心功能。
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.enabled() || !r.healthy() {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), redisOpTimeout)
		defer cancel()

		allowed, err := r.Allow(ctx, c.ClientIP())
		if err != nil {
			logger.Warningf("饮水记录限流检查失败，已放行: %v", err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many submissions, slow down"})
			return
		}
		c.Next()
	}
}
