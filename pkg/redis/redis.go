package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/umutkutlutr/CompGradToolbox/config"
)

// Client Redis 客户端封装
// 当前用于分配结果读缓存与接口限流；后续可扩展分布式锁等场景
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 分配结果读缓存 ──

const assignmentCachePrefix = "assignments:term:"

// CacheAssignments 缓存某学期的分配结果 JSON 快照
func (c *Client) CacheAssignments(ctx context.Context, termID string, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, assignmentCachePrefix+termID, payload, ttl).Err()
}

// GetCachedAssignments 读取缓存的分配结果；缓存未命中时返回 nil
func (c *Client) GetCachedAssignments(ctx context.Context, termID string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, assignmentCachePrefix+termID).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	return b, err
}

// InvalidateAssignments 在求解或覆盖提交后使缓存失效
func (c *Client) InvalidateAssignments(ctx context.Context, termID string) error {
	return c.rdb.Del(ctx, assignmentCachePrefix+termID).Err()
}

// ── 速率限制 ──

// CheckRateLimit 固定窗口计数限流：窗口内超过 limit 返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
