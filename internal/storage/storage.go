package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"resume-match-go/internal/config"
)

// Storage 存储管理器, 聚合全部存储依赖。
// Redis和MySQL均为可选: 未启用或初始化失败只降级, 不阻止服务启动。
type Storage struct {
	// 向量缓存
	Redis *Redis

	// 分析结果持久化
	MySQL *MySQL
}

// NewStorage 按配置初始化存储依赖
func NewStorage(cfg *config.Config, logger zerolog.Logger) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	storage := &Storage{}

	if cfg.Redis.Enabled {
		redisClient, err := NewRedisAdapter(&cfg.Redis, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化Redis失败, 向量缓存退回进程内实现")
		} else {
			storage.Redis = redisClient
			logger.Info().Str("address", cfg.Redis.Address).Msg("Redis向量缓存初始化成功")
		}
	}

	if cfg.MySQL.Enabled {
		mysqlClient, err := NewMySQL(&cfg.MySQL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MySQL失败, 分析结果不落库")
		} else {
			storage.MySQL = mysqlClient
			logger.Info().Str("database", cfg.MySQL.Database).Msg("MySQL初始化成功")
		}
	}

	return storage, nil
}

// Close 关闭所有存储连接
func (s *Storage) Close() error {
	var firstErr error
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
