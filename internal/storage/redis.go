package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"resume-match-go/internal/config"
	"resume-match-go/internal/constants"
)

// Redis Redis适配器, 为语义匹配提供跨进程共享的向量缓存。
// 实现 semantic.VectorCache 接口, 写入使用SetNX保证insert-if-absent语义。
type Redis struct {
	Client *redis.Client
	logger zerolog.Logger
}

// NewRedisAdapter 创建Redis适配器并验证连通性
func NewRedisAdapter(cfg *config.RedisConfig, logger zerolog.Logger) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis配置不能为空")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis地址不能为空")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("连接Redis %s 失败: %w", cfg.Address, err)
	}

	return &Redis{Client: client, logger: logger}, nil
}

// Get 读取向量缓存, 未命中返回(nil, false, nil)
func (r *Redis) Get(ctx context.Context, key string) ([]float64, bool, error) {
	if r.Client == nil {
		return nil, false, fmt.Errorf("redis客户端未初始化")
	}

	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取向量缓存失败: %w", err)
	}

	var vector []float64
	if err := json.Unmarshal([]byte(val), &vector); err != nil {
		return nil, false, fmt.Errorf("反序列化向量失败: %w", err)
	}
	return vector, true, nil
}

// Add 仅当键不存在时写入, 带固定TTL
func (r *Redis) Add(ctx context.Context, key string, vector []float64) error {
	if r.Client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	vectorJSON, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("序列化向量失败: %w", err)
	}

	if err := r.Client.SetNX(ctx, key, vectorJSON, constants.VectorCacheTTL).Err(); err != nil {
		return fmt.Errorf("写入向量缓存失败: %w", err)
	}
	return nil
}

// Ping 探测Redis连通性
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}
	return r.Client.Ping(ctx).Err()
}

// Close 关闭Redis连接
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
