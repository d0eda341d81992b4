package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeTextIdempotent 验证规范化结果可复现
func TestNormalizeTextIdempotent(t *testing.T) {
	input := "  Node.JS 与\tGo\n并发编程  "
	once := NormalizeText(input)
	twice := NormalizeText(once)
	assert.Equal(t, once, twice, "二次规范化结果应与一次相同")
	assert.Equal(t, "node.js 与 go 并发编程", once)
}

// TestTokenizeKeepsSkillConnectors 验证技能名中的连接符被保留
func TestTokenizeKeepsSkillConnectors(t *testing.T) {
	tokens := Tokenize("熟悉 C++, C# 和 Node.js（CI/CD）")
	assert.Contains(t, tokens, "c++")
	assert.Contains(t, tokens, "c#")
	assert.Contains(t, tokens, "node.js")
	assert.Contains(t, tokens, "ci/cd")
}

// TestTokenizeTrimsEdgeConnectors 验证词元首尾的 ./- 被去掉
func TestTokenizeTrimsEdgeConnectors(t *testing.T) {
	tokens := Tokenize("experience. -golang- protocols/")
	assert.Equal(t, []string{"experience", "golang", "protocols"}, tokens)
}

// TestTokenizeMixedCJK 验证中英混排时英文技能名不被粘连
func TestTokenizeMixedCJK(t *testing.T) {
	tokens := Tokenize("五年python开发经验, 熟悉mysql调优")
	assert.Contains(t, tokens, "python")
	assert.Contains(t, tokens, "mysql")
	assert.Contains(t, tokens, "年")
}

// TestContainsTokenWordBoundary 验证按词边界匹配, 子串不误中
func TestContainsTokenWordBoundary(t *testing.T) {
	tokens := Tokenize("proficient in mysql and postgresql administration")
	assert.False(t, ContainsToken(tokens, "sql"), "sql 不应命中 mysql")
	assert.True(t, ContainsToken(tokens, "mysql"))
	assert.True(t, ContainsToken(tokens, "postgresql"))
}

// TestContainsTokenPhrase 验证多词词组需要连续出现
func TestContainsTokenPhrase(t *testing.T) {
	tokens := Tokenize("hands-on machine learning projects")
	assert.True(t, ContainsToken(tokens, "machine learning"))
	assert.False(t, ContainsToken(tokens, "learning machine"))
	assert.False(t, ContainsToken(tokens, ""))
}

// TestSplitSentences 验证句子切分丢弃空片段
func TestSplitSentences(t *testing.T) {
	out := SplitSentences("Must have Go. Nice to have Rust!\n\nBonus: Kafka; Redis")
	assert.Equal(t, []string{"Must have Go", "Nice to have Rust", "Bonus: Kafka", "Redis"}, out)
}

// TestUniqueStrings 验证去重保持首次出现顺序
func TestUniqueStrings(t *testing.T) {
	out := UniqueStrings([]string{"go", "python", "go", "sql", "python"})
	assert.Equal(t, []string{"go", "python", "sql"}, out)
}

// TestClamp 验证区间裁剪
func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3, 0, 100))
	assert.Equal(t, 100.0, Clamp(120, 0, 100))
	assert.Equal(t, 55.5, Clamp(55.5, 0, 100))
}

// TestCalculateMD5 验证MD5键稳定
func TestCalculateMD5(t *testing.T) {
	assert.Equal(t, CalculateMD5([]byte("abc")), CalculateMD5([]byte("abc")))
	assert.NotEqual(t, CalculateMD5([]byte("abc")), CalculateMD5([]byte("abd")))
	assert.Len(t, CalculateMD5([]byte("abc")), 32)
}
