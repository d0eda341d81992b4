package utils

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"
)

// CalculateMD5 计算字节切片的MD5十六进制值，用于向量缓存的内容寻址键
func CalculateMD5(data []byte) string {
	hasher := md5.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// NormalizeText 文本规范化：小写 + 空白折叠 + 去首尾空白
// 同一段文本多次规范化结果相同，保证缓存键和提取结果可复现
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = whitespaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeSkill 技能名规范化，与 NormalizeText 一致
// 单独命名是为了让调用点的意图清晰
func NormalizeSkill(s string) string {
	return NormalizeText(s)
}

// Tokenize 将文本切分为小写词元
// 保留字母、数字以及技能名中常见的 + # . / - 连接符（如 c++, c#, node.js, ci/cd）
// 中日韩文字不使用空格分词, 逐字成词, 避免英文技能名被粘连（如 "python工程师"）
func Tokenize(s string) []string {
	s = strings.ToLower(s)
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, strings.Trim(b.String(), "./-"))
			b.Reset()
		}
	}
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			flush()
			tokens = append(tokens, string(r))
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' || r == '/' || r == '-' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	// Trim可能产生空词元
	out := tokens[:0]
	for _, t := range tokens {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

var sentenceRE = regexp.MustCompile(`[.!?;\n]+`)

// SplitSentences 按句子边界粗粒度切分文本，用于触发词分类
func SplitSentences(s string) []string {
	parts := sentenceRE.Split(s, -1)
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// UniqueStrings 去重并保持首次出现顺序
func UniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ContainsToken 判断词元序列中是否出现目标词组（按词边界匹配，
// 避免 "sql" 误中 "mysql" 这类子串）
func ContainsToken(tokens []string, phrase string) bool {
	parts := Tokenize(phrase)
	if len(parts) == 0 {
		return false
	}
	for i := 0; i+len(parts) <= len(tokens); i++ {
		match := true
		for j, p := range parts {
			if tokens[i+j] != p {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Clamp 将 v 限制在 [lo, hi] 区间
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
