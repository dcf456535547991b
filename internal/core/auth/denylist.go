package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist 已吊销 jti 名单，每次校验令牌都要查一遍
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const denyKeyPrefix = "auth:deny:"

// RedisDenylist 条目 TTL = 令牌剩余寿命，过期自动出清，无需扫描任务
type RedisDenylist struct {
	rdb *redis.Client
}

func NewRedisDenylist(rdb *redis.Client) *RedisDenylist {
	return &RedisDenylist{rdb: rdb}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // 已过期的令牌无需入名单
	}
	return d.rdb.Set(ctx, denyKeyPrefix+jti, "1", ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.rdb.Exists(ctx, denyKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
