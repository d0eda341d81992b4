package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644), "无法写入临时配置文件")
	return configPath
}

// TestLoadConfigDefaults 验证无配置文件时返回完整默认配置
func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	// 指定了不存在的路径应报错
	assert.Error(t, err)
	assert.Nil(t, config)

	// 空路径且无默认文件时返回纯默认配置
	config, err = LoadConfig("")
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, ":8080", config.Server.Address)
	assert.Equal(t, "info", config.Logger.Level)
	assert.Equal(t, "qwen-plus", config.Aliyun.Model)
	assert.Equal(t, 0.6, config.Scoring.HardWeight)
	assert.Equal(t, 0.4, config.Scoring.SoftWeight)
	assert.Equal(t, 2.0, config.Scoring.MustHaveWeight)
	assert.Equal(t, 0.85, config.Scoring.FuzzyThreshold)
	assert.Equal(t, 200, config.Scoring.ChunkSize)
	assert.Equal(t, 50, config.Scoring.ChunkOverlap)
	assert.Equal(t, 3, config.Scoring.TopKChunkPairs)
}

// TestLoadConfigFromFile 验证YAML字段正确加载并保留未覆盖的默认值
func TestLoadConfigFromFile(t *testing.T) {
	configPath := writeTempConfig(t, `
server:
  address: ":9000"
scoring:
  hard_weight: 0.7
  soft_weight: 0.3
  fuzzy_threshold: 0.9
mysql:
  enabled: true
  host: "db.internal"
  database: "matcher"
`)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, ":9000", config.Server.Address)
	assert.Equal(t, 0.7, config.Scoring.HardWeight)
	assert.Equal(t, 0.9, config.Scoring.FuzzyThreshold)
	assert.True(t, config.MySQL.Enabled)
	assert.Equal(t, "db.internal", config.MySQL.Host)
	// 未覆盖的字段保持默认
	assert.Equal(t, 3306, config.MySQL.Port)
	assert.Equal(t, "qwen-plus", config.Aliyun.Model)
}

// TestLoadConfigInvalidYAML 验证语法错误的配置文件报错
func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := writeTempConfig(t, "server: [这不是合法的\n  结构")

	_, err := LoadConfig(configPath)
	assert.Error(t, err)
}

// TestNormalizeClampsInvalidValues 验证非法取值被修正为可用值
func TestNormalizeClampsInvalidValues(t *testing.T) {
	configPath := writeTempConfig(t, `
scoring:
  hard_weight: -1
  soft_weight: -2
  fuzzy_threshold: 1.5
  must_have_weight: -3
  chunk_size: -10
  chunk_overlap: 9999
  batch_concurrency: 0
`)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 0.6, config.Scoring.HardWeight, "全零权重应回退默认")
	assert.Equal(t, 0.4, config.Scoring.SoftWeight)
	assert.Equal(t, 0.85, config.Scoring.FuzzyThreshold)
	assert.Equal(t, 2.0, config.Scoring.MustHaveWeight)
	assert.Equal(t, 200, config.Scoring.ChunkSize)
	assert.Less(t, config.Scoring.ChunkOverlap, config.Scoring.ChunkSize)
	assert.Greater(t, config.Scoring.BatchConcurrency, 0)
}

// TestEnvOverrides 验证环境变量覆盖密钥类配置
func TestEnvOverrides(t *testing.T) {
	t.Setenv("ALIYUN_API_KEY", "sk-test-123")
	t.Setenv("SERVER_API_KEY", "server-key-456")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "sk-test-123", config.Aliyun.APIKey)
	assert.Equal(t, "server-key-456", config.Server.APIKey)
}

// TestMySQLDSN 验证DSN拼装
func TestMySQLDSN(t *testing.T) {
	cfg := MySQLConfig{
		Host:     "db.internal",
		Port:     3307,
		Username: "matcher",
		Password: "secret",
		Database: "resume_match",
	}
	dsn := cfg.DSN()
	assert.Contains(t, dsn, "matcher:secret@tcp(db.internal:3307)/resume_match")
	assert.Contains(t, dsn, "parseTime=True")
}

// TestLLMTimeout 验证超时配置的默认回退
func TestLLMTimeout(t *testing.T) {
	assert.Equal(t, "10s", LLMConfig{}.Timeout().String())
	assert.Equal(t, "30s", LLMConfig{TimeoutSeconds: 30}.Timeout().String())
}
