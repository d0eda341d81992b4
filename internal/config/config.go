package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"resume-match-go/internal/constants"
)

// Config 应用程序配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Logger LoggerConfig `yaml:"logger"`

	// 阿里云LLM与Embedding配置（OpenAI兼容端点）
	Aliyun AliyunConfig `yaml:"aliyun"`

	// Redis配置（可选，用于跨进程共享向量缓存）
	Redis RedisConfig `yaml:"redis"`

	// MySQL配置（可选，用于持久化分析结果）
	MySQL MySQLConfig `yaml:"mysql"`

	// 评分策略
	Scoring ScoringConfig `yaml:"scoring"`

	// 外部AI调用的限流与超时
	LLM LLMConfig `yaml:"llm"`
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Address string `yaml:"address"`
	// APIKey 非空时启用 keyauth 中间件
	APIKey string `yaml:"api_key,omitempty"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"` // json 或 pretty
	TimeFormat   string `yaml:"time_format"`
	ReportCaller bool   `yaml:"report_caller"`
}

// AliyunConfig 阿里云模型服务配置
type AliyunConfig struct {
	APIKey    string          `yaml:"api_key"`
	APIURL    string          `yaml:"api_url"`
	Model     string          `yaml:"model"`
	Embedding EmbeddingConfig `yaml:"embedding"`
}

// EmbeddingConfig Embedding 专用配置
type EmbeddingConfig struct {
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	BaseURL    string `yaml:"base_url"`
}

// RedisConfig Redis连接配置
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`
	// 超时设置
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
}

// MySQLConfig MySQL连接配置
type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	// 连接池设置
	MaxIdleConns           int `yaml:"max_idle_conns"`
	MaxOpenConns           int `yaml:"max_open_conns"`
	ConnMaxLifetimeMinutes int `yaml:"conn_max_lifetime_minutes"`
}

// ScoringConfig 评分策略配置。这是系统最主要的可调业务参数，
// 缺省值见 internal/constants。
type ScoringConfig struct {
	HardWeight float64 `yaml:"hard_weight"`
	SoftWeight float64 `yaml:"soft_weight"`

	MustHaveWeight   float64 `yaml:"must_have_weight"`
	GoodToHaveWeight float64 `yaml:"good_to_have_weight"`

	// 模糊匹配判定阈值 (0-1)
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`

	// 四档结论阈值
	ExcellentCutoff float64 `yaml:"excellent_cutoff"`
	GoodCutoff      float64 `yaml:"good_cutoff"`
	FairCutoff      float64 `yaml:"fair_cutoff"`

	// 三档对比视图阈值
	BandHighCutoff   float64 `yaml:"band_high_cutoff"`
	BandMediumCutoff float64 `yaml:"band_medium_cutoff"`

	// 语义匹配分块参数
	ChunkSize      int `yaml:"chunk_size"`
	ChunkOverlap   int `yaml:"chunk_overlap"`
	TopKChunkPairs int `yaml:"top_k_chunk_pairs"`

	// 向量缓存容量（内存实现）
	VectorCacheSize int `yaml:"vector_cache_size"`

	// 批量分析并发上限
	BatchConcurrency int `yaml:"batch_concurrency"`
}

// LLMConfig 外部AI调用配置
type LLMConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	QPM            int `yaml:"qpm"`
}

// Timeout 返回AI调用超时时间
func (c LLMConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return constants.DefaultLLMTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DSN 构造MySQL连接串
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// LoadConfig 加载配置文件。path为空时按默认路径顺序查找；
// 找不到任何配置文件时返回纯默认配置（便于测试和本地运行）。
func LoadConfig(path string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	resolved := path
	if resolved == "" {
		for _, candidate := range defaultConfigPaths() {
			if _, err := os.Stat(candidate); err == nil {
				resolved = candidate
				break
			}
		}
	}

	if resolved != "" {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败 %s: %w", resolved, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("解析配置文件失败 %s: %w", resolved, err)
		}
	}

	applyEnvOverrides(config)
	normalize(config)
	return config, nil
}

// defaultConfigPaths 默认配置文件查找顺序
func defaultConfigPaths() []string {
	paths := []string{"config.yaml", filepath.Join("config", "config.yaml")}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".resume-match", "config.yaml"))
	}
	return paths
}

// setDefaults 填充所有默认值
func setDefaults(config *Config) {
	config.Server.Address = ":8080"

	config.Logger.Level = "info"
	config.Logger.Format = "json"

	config.Aliyun.APIURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	config.Aliyun.Model = "qwen-plus"
	config.Aliyun.Embedding.Model = "text-embedding-v3"
	config.Aliyun.Embedding.Dimensions = 1024
	config.Aliyun.Embedding.BaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/embeddings"

	config.Redis.Address = "localhost:6379"
	config.Redis.PoolSize = 10

	config.MySQL.Host = "localhost"
	config.MySQL.Port = 3306
	config.MySQL.MaxIdleConns = 5
	config.MySQL.MaxOpenConns = 20
	config.MySQL.ConnMaxLifetimeMinutes = 30

	config.Scoring = ScoringConfig{
		HardWeight:       constants.DefaultHardWeight,
		SoftWeight:       constants.DefaultSoftWeight,
		MustHaveWeight:   constants.DefaultMustHaveWeight,
		GoodToHaveWeight: constants.DefaultGoodToHaveWeight,
		FuzzyThreshold:   constants.DefaultFuzzyThreshold,
		ExcellentCutoff:  constants.DefaultExcellentCutoff,
		GoodCutoff:       constants.DefaultGoodCutoff,
		FairCutoff:       constants.DefaultFairCutoff,
		BandHighCutoff:   constants.DefaultBandHighCutoff,
		BandMediumCutoff: constants.DefaultBandMediumCutoff,
		ChunkSize:        constants.DefaultChunkSize,
		ChunkOverlap:     constants.DefaultChunkOverlap,
		TopKChunkPairs:   constants.DefaultTopKChunkPairs,
		VectorCacheSize:  constants.DefaultVectorCacheSize,
		BatchConcurrency: constants.DefaultBatchConcurrency,
	}

	config.LLM.TimeoutSeconds = int(constants.DefaultLLMTimeout / time.Second)
	config.LLM.QPM = constants.DefaultLLMQPM
}

// applyEnvOverrides 环境变量覆盖，主要用于密钥类配置
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("ALIYUN_API_KEY"); v != "" {
		config.Aliyun.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		config.Redis.Address = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		config.Redis.Password = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		config.MySQL.Password = v
	}
	if v := os.Getenv("SERVER_API_KEY"); v != "" {
		config.Server.APIKey = v
	}
}

// normalize 修正非法取值，保证配置总是可用
// 权重类配置错误不作为失败处理，按策略钳制后记录在返回值中由调用方打日志
func normalize(config *Config) {
	s := &config.Scoring
	if s.HardWeight < 0 {
		s.HardWeight = 0
	}
	if s.SoftWeight < 0 {
		s.SoftWeight = 0
	}
	if s.HardWeight == 0 && s.SoftWeight == 0 {
		s.HardWeight = constants.DefaultHardWeight
		s.SoftWeight = constants.DefaultSoftWeight
	}
	if s.FuzzyThreshold <= 0 || s.FuzzyThreshold > 1 {
		s.FuzzyThreshold = constants.DefaultFuzzyThreshold
	}
	if s.MustHaveWeight <= 0 {
		s.MustHaveWeight = constants.DefaultMustHaveWeight
	}
	if s.GoodToHaveWeight <= 0 {
		s.GoodToHaveWeight = constants.DefaultGoodToHaveWeight
	}
	if s.ChunkSize <= 0 {
		s.ChunkSize = constants.DefaultChunkSize
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		s.ChunkOverlap = s.ChunkSize / 4
	}
	if s.TopKChunkPairs <= 0 {
		s.TopKChunkPairs = constants.DefaultTopKChunkPairs
	}
	if s.VectorCacheSize <= 0 {
		s.VectorCacheSize = constants.DefaultVectorCacheSize
	}
	if s.BatchConcurrency <= 0 {
		s.BatchConcurrency = constants.DefaultBatchConcurrency
	}
}
