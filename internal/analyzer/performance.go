package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"resume-match-go/internal/types"
	"resume-match-go/pkg/utils"
)

// 面试/录用预测的启发式系数。
// 这些是确定性策略参数, 随final_score和ats_score单调, 未经真实招聘数据校准。
const (
	perfInterviewBase       = 0.8
	perfMissingSkillPenalty = 5.0
	perfMaxMissingPenalty   = 30.0
	perfHiringBaseFactor    = 0.7
	perfHiringMatchBonus    = 0.3

	perfBandHighMultiplier = 1.2
	perfBandMedMultiplier  = 1.0
	perfBandLowMultiplier  = 0.8

	perfExperienceWeight = 0.4
	perfSkillsWeight     = 0.3
	perfATSWeight        = 0.2
	perfEducationWeight  = 0.1
)

// PerformancePredictor 面试与录用可能性的启发式估计器。
// 输出对同一输入恒定, 且随匹配分和ATS分单调递增。
type PerformancePredictor struct {
	logger zerolog.Logger
}

// NewPerformancePredictor 创建表现预测器
func NewPerformancePredictor(logger zerolog.Logger) *PerformancePredictor {
	return &PerformancePredictor{logger: logger}
}

// Predict 根据匹配结果与ATS分数给出表现预测
func (p *PerformancePredictor) Predict(match types.MatchResult, ats types.ATSResult, skillSet types.SkillSet) types.PerformanceResult {
	baseScore := utils.Clamp(
		match.HardPct*perfExperienceWeight+
			match.SoftPct*perfSkillsWeight+
			ats.ATSScore*perfATSWeight+
			educationEstimate(match.FinalScore)*perfEducationWeight, 0, 100)

	interviewProb := p.interviewProbability(match, baseScore)
	hiringLikelihood := utils.Clamp(
		baseScore*perfHiringBaseFactor+match.FinalScore*perfHiringMatchBonus, 0, 100)

	result := types.PerformanceResult{
		BaseScore:            round2(baseScore),
		InterviewProbability: round2(interviewProb),
		HiringLikelihood:     round2(hiringLikelihood),
		Confidence:           confidenceLevel(match, skillSet),
		Grade:                performanceGrade(baseScore),
		Insights:             performanceInsights(match, baseScore),
		Recommendations:      performanceRecommendations(match),
	}

	p.logger.Debug().
		Float64("base_score", result.BaseScore).
		Float64("interview_probability", result.InterviewProbability).
		Str("confidence", result.Confidence).
		Msg("表现预测完成")

	return result
}

// interviewProbability 基准分打折后扣缺失技能罚分, 再按三档分带加乘
func (p *PerformancePredictor) interviewProbability(match types.MatchResult, baseScore float64) float64 {
	penalty := math.Min(float64(len(match.MissingSkills))*perfMissingSkillPenalty, perfMaxMissingPenalty)

	multiplier := perfBandLowMultiplier
	switch match.Band {
	case types.BandHigh:
		multiplier = perfBandHighMultiplier
	case types.BandMedium:
		multiplier = perfBandMedMultiplier
	}

	return utils.Clamp((baseScore*perfInterviewBase-penalty)*multiplier, 0, 100)
}

// educationEstimate 教育维度的代理估计, 随最终分分段递增
func educationEstimate(finalScore float64) float64 {
	switch {
	case finalScore >= 80:
		return 90
	case finalScore >= 60:
		return 75
	default:
		return 60
	}
}

// confidenceLevel 预测置信度: 信号越一致、缺口越小, 置信越高
func confidenceLevel(match types.MatchResult, skillSet types.SkillSet) string {
	score := 0

	switch {
	case match.FinalScore > 70:
		score += 30
	case match.FinalScore > 50:
		score += 20
	default:
		score += 10
	}

	switch {
	case len(match.MissingSkills) <= 3:
		score += 25
	case len(match.MissingSkills) <= 5:
		score += 15
	default:
		score += 5
	}

	if len(skillSet.MustHave) >= 3 {
		score += 25
	} else {
		score += 10
	}

	if math.Abs(match.HardPct-match.SoftPct) < 20 {
		score += 20
	} else {
		score += 10
	}

	switch {
	case score >= 80:
		return "High"
	case score >= 60:
		return "Medium"
	default:
		return "Low"
	}
}

// performanceGrade 细分字母等级, 从A+到D
func performanceGrade(score float64) string {
	switch {
	case score >= 85:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 75:
		return "A-"
	case score >= 70:
		return "B+"
	case score >= 65:
		return "B"
	case score >= 60:
		return "B-"
	case score >= 55:
		return "C+"
	case score >= 50:
		return "C"
	default:
		return "D"
	}
}

func performanceInsights(match types.MatchResult, baseScore float64) []string {
	var insights []string

	switch {
	case baseScore >= 80:
		insights = append(insights, "候选人综合表现出色, 成功潜力高")
	case baseScore >= 70:
		insights = append(insights, "候选人整体较强, 具备良好潜力")
	case baseScore >= 60:
		insights = append(insights, "候选人水平中等, 尚有提升空间")
	default:
		insights = append(insights, "候选人与岗位差距较大, 需要系统性提升")
	}

	switch {
	case len(match.MissingSkills) <= 2:
		insights = append(insights, "技能覆盖全面, 几乎没有缺口")
	case len(match.MissingSkills) <= 4:
		insights = append(insights, "存在少量技能缺口, 可针对性补齐")
	default:
		insights = append(insights, "技能缺口明显, 建议优先补强核心技能")
	}

	return insights
}

func performanceRecommendations(match types.MatchResult) []string {
	var recommendations []string
	if match.FinalScore < 70 {
		recommendations = append(recommendations, "优先掌握岗位描述中的核心技能")
	}
	if len(match.MissingSkills) > 0 {
		limit := len(match.MissingSkills)
		if limit > 3 {
			limit = 3
		}
		recommendations = append(recommendations,
			fmt.Sprintf("优先学习: %s", strings.Join(match.MissingSkills[:limit], ", ")))
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "通过相关项目持续积累并展示实战成果")
	}
	return recommendations
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
