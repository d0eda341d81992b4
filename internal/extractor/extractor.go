package extractor

import (
	"context"

	"github.com/rs/zerolog"

	"resume-match-go/internal/types"
)

// Method 技能抽取方式
type Method string

const (
	MethodAI      Method = "ai"
	MethodKeyword Method = "keyword"
)

// SkillExtractor 技能抽取门面: AI优先, 失败时静默降级到关键词方式。
// 降级对调用方无感, 仅通过返回的degraded标记体现。
type SkillExtractor struct {
	ai      *AIExtractor
	keyword *KeywordExtractor
	logger  zerolog.Logger
}

// NewSkillExtractor 创建技能抽取器。ai可为nil, 此时所有请求走关键词方式。
func NewSkillExtractor(ai *AIExtractor, logger zerolog.Logger) *SkillExtractor {
	return &SkillExtractor{
		ai:      ai,
		keyword: NewKeywordExtractor(),
		logger:  logger,
	}
}

// Extract 按指定方式抽取技能。
// method为ai时任何AI失败都自动落到关键词方式, 不向上传播错误。
func (s *SkillExtractor) Extract(ctx context.Context, jdText string, method Method) (types.SkillSet, bool) {
	if method == MethodAI {
		if s.ai == nil {
			s.logger.Debug().Msg("未配置LLM客户端, 技能抽取走关键词方式")
			return s.keyword.Extract(jdText), true
		}
		skills, err := s.ai.Extract(ctx, jdText)
		if err == nil && !skills.IsEmpty() {
			return skills, false
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("AI技能抽取失败, 降级到关键词方式")
		}
		return s.keyword.Extract(jdText), true
	}
	return s.keyword.Extract(jdText), false
}
