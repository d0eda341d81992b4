package matcher

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/rs/zerolog"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/types"
	"resume-match-go/pkg/utils"
)

// HardMatcher 计算技能覆盖率(硬匹配分)。
// 先精确匹配, 未命中的技能再用编辑距离相似度做模糊匹配吸收拼写差异。
type HardMatcher struct {
	mustHaveWeight   float64
	goodToHaveWeight float64
	fuzzyThreshold   float64
	similarity       strutil.StringMetric
	logger           zerolog.Logger
}

// HardMatcherOption HardMatcher可选配置
type HardMatcherOption func(*HardMatcher)

// WithWeights 设置必备/加分技能权重, 必备权重应大于加分权重
func WithWeights(mustHave, goodToHave float64) HardMatcherOption {
	return func(h *HardMatcher) {
		if mustHave > 0 {
			h.mustHaveWeight = mustHave
		}
		if goodToHave > 0 {
			h.goodToHaveWeight = goodToHave
		}
	}
}

// WithFuzzyThreshold 设置模糊匹配相似度阈值 (0,1]
func WithFuzzyThreshold(threshold float64) HardMatcherOption {
	return func(h *HardMatcher) {
		if threshold > 0 && threshold <= 1 {
			h.fuzzyThreshold = threshold
		}
	}
}

// NewHardMatcher 创建硬匹配器
func NewHardMatcher(logger zerolog.Logger, opts ...HardMatcherOption) *HardMatcher {
	h := &HardMatcher{
		mustHaveWeight:   constants.DefaultMustHaveWeight,
		goodToHaveWeight: constants.DefaultGoodToHaveWeight,
		fuzzyThreshold:   constants.DefaultFuzzyThreshold,
		similarity:       metrics.NewLevenshtein(),
		logger:           logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Score 计算加权技能覆盖率与缺失技能清单。
// 空SkillSet视为无要求, 直接满分; missing仅包含未命中的必备技能。
func (h *HardMatcher) Score(profile types.ExtractedProfile, skillSet types.SkillSet) (float64, []string) {
	if skillSet.IsEmpty() {
		return 100, nil
	}

	rawTokens := utils.Tokenize(profile.RawText)

	var matchedMust, matchedGood int
	var missing []string

	for _, skill := range skillSet.MustHave {
		if h.matches(skill, &profile, rawTokens) {
			matchedMust++
		} else {
			missing = append(missing, utils.NormalizeSkill(skill))
		}
	}
	for _, skill := range skillSet.GoodToHave {
		if h.matches(skill, &profile, rawTokens) {
			matchedGood++
		}
	}

	totalWeight := float64(len(skillSet.MustHave))*h.mustHaveWeight +
		float64(len(skillSet.GoodToHave))*h.goodToHaveWeight
	matchedWeight := float64(matchedMust)*h.mustHaveWeight +
		float64(matchedGood)*h.goodToHaveWeight

	hardPct := utils.Clamp(100*matchedWeight/totalWeight, 0, 100)

	h.logger.Debug().
		Int("matched_must", matchedMust).
		Int("matched_good", matchedGood).
		Int("missing", len(missing)).
		Float64("hard_pct", hardPct).
		Msg("硬匹配完成")

	return hardPct, missing
}

// matches 精确命中(画像技能集或原文词边界)优先, 否则对画像技能做模糊匹配
func (h *HardMatcher) matches(skill string, profile *types.ExtractedProfile, rawTokens []string) bool {
	normalized := utils.NormalizeSkill(skill)
	if normalized == "" {
		return false
	}
	if profile.HasSkill(normalized) {
		return true
	}
	if len(rawTokens) > 0 && utils.ContainsToken(rawTokens, normalized) {
		return true
	}
	for _, candidate := range profile.Skills {
		if strutil.Similarity(normalized, utils.NormalizeSkill(candidate), h.similarity) >= h.fuzzyThreshold {
			return true
		}
	}
	return false
}
