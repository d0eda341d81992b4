package constants

import "time"

// Redis Key 前缀和格式常量
// 统一命名规范: matcher:{module}:{entity}:{unique_id}
const (
	// AppPrefix 所有Redis Key的统一应用前缀
	AppPrefix = "matcher"

	// EmbeddingModulePrefix 向量模块
	EmbeddingModulePrefix = "embedding"

	// EntityVector 向量实体
	EntityVector = "vector"

	// KeyTextVector 文本向量缓存 (STRING, JSON编码)
	// 格式: matcher:embedding:vector:{modelVersion}:{textMD5}
	KeyTextVector = AppPrefix + ":" + EmbeddingModulePrefix + ":" + EntityVector + ":%s:%s"

	// VectorCacheTTL 向量缓存过期时间
	VectorCacheTTL = 24 * time.Hour
)
