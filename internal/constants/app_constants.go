package constants

import "time"

// 评分策略默认值。这些是系统最核心的可调业务参数，
// 可通过配置文件覆盖（见 internal/config）。
const (
	// DefaultHardWeight 硬匹配默认权重
	DefaultHardWeight = 0.6
	// DefaultSoftWeight 软匹配默认权重
	DefaultSoftWeight = 0.4

	// DefaultMustHaveWeight 必备技能在覆盖率中的权重
	DefaultMustHaveWeight = 2.0
	// DefaultGoodToHaveWeight 加分技能在覆盖率中的权重
	DefaultGoodToHaveWeight = 1.0

	// DefaultFuzzyThreshold 模糊匹配判定阈值（字符串相似度比率）
	DefaultFuzzyThreshold = 0.85
)

// 结论划分默认阈值
const (
	DefaultExcellentCutoff = 85.0
	DefaultGoodCutoff      = 70.0
	DefaultFairCutoff      = 50.0

	DefaultBandHighCutoff   = 80.0
	DefaultBandMediumCutoff = 60.0
)

// 语义匹配默认参数
const (
	// DefaultChunkSize 长文本分块大小（词数）
	DefaultChunkSize = 200
	// DefaultChunkOverlap 相邻分块重叠词数
	DefaultChunkOverlap = 50
	// DefaultTopKChunkPairs 聚合相似度时取平均的块对数量
	DefaultTopKChunkPairs = 3
	// DefaultVectorCacheSize 内存向量缓存容量（条目数）
	DefaultVectorCacheSize = 512
)

// 并发与外部调用默认值
const (
	// DefaultBatchConcurrency 批量分析的并发上限
	DefaultBatchConcurrency = 4
	// DefaultLLMTimeout 单次外部AI调用的超时
	DefaultLLMTimeout = 10 * time.Second
	// DefaultLLMQPM 外部AI调用的每分钟配额
	DefaultLLMQPM = 60
)

// 技能提取默认上限（与关键词法的候选裁剪保持一致）
const (
	MaxMustHaveSkills   = 8
	MaxGoodToHaveSkills = 12
)
