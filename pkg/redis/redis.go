package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Relapt23/Refferal-system/config"
)

// Client Redis 客户端封装
// 当前用于推荐码查询的旁路缓存（cache-aside）
type Client struct {
	rdb     *goredis.Client
	codeTTL time.Duration
	logger  *zap.Logger
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

	codeTTL := cfg.CodeTTL
	if codeTTL <= 0 {
		codeTTL = time.Hour
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, codeTTL: codeTTL, logger: logger}, nil
}

// ── 推荐码缓存 ──

const codeKeyPrefix = "referral_code:"

// CachedCode 缓存中的推荐码条目。
// 缓存 TTL 固定，与 end_date 相互独立；end_date 一并缓存，命中时无需回表即可判断过期。
type CachedCode struct {
	Code    string    `json:"code"`
	EndDate time.Time `json:"end_date"`
}

// GetReferralCode 按邮箱查询缓存的推荐码，未命中返回 (nil, nil)
func (c *Client) GetReferralCode(ctx context.Context, email string) (*CachedCode, error) {
	data, err := c.rdb.Get(ctx, codeKeyPrefix+email).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var cached CachedCode
	if err := json.Unmarshal(data, &cached); err != nil {
		// 缓存内容损坏按未命中处理，条目交由 TTL 自然淘汰
		c.logger.Warn("推荐码缓存条目解析失败", zap.String("email", email), zap.Error(err))
		return nil, nil
	}
	return &cached, nil
}

// SetReferralCode 写入推荐码缓存，使用固定 TTL
func (c *Client) SetReferralCode(ctx context.Context, email string, cached *CachedCode) error {
	data, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, codeKeyPrefix+email, data, c.codeTTL).Err()
}

// DeleteReferralCode 删除推荐码缓存条目
func (c *Client) DeleteReferralCode(ctx context.Context, email string) error {
	return c.rdb.Del(ctx, codeKeyPrefix+email).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
