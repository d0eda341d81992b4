package comparator

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"resume-match-go/internal/types"
)

// Comparator 跨候选人对比器: 稳定排名、批次统计与聚合洞察。
// 纯函数式实现, 不修改传入的结果。
type Comparator struct {
	logger zerolog.Logger
}

// NewComparator 创建对比器
func NewComparator(logger zerolog.Logger) *Comparator {
	return &Comparator{logger: logger}
}

// Compare 按最终分降序排名, 同分保持原批次顺序。
// 空批次返回空结果不报错; 单份简历只给平凡排名, 不产出对比性洞察。
func (c *Comparator) Compare(results []types.MatchResult) types.BatchComparison {
	comparison := types.BatchComparison{
		TotalResumes:        len(results),
		VerdictDistribution: make(map[types.Verdict]int),
	}
	if len(results) == 0 {
		return comparison
	}

	ordered := make([]types.MatchResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].FinalScore > ordered[j].FinalScore
	})

	comparison.Rankings = make([]types.RankedEntry, len(ordered))
	scores := make([]float64, len(ordered))
	for i, r := range ordered {
		comparison.Rankings[i] = types.RankedEntry{
			Rank:       i + 1,
			ResumeID:   r.ResumeID,
			FinalScore: r.FinalScore,
			HardPct:    r.HardPct,
			SoftPct:    r.SoftPct,
			Verdict:    r.Verdict,
			Band:       r.Band,
		}
		scores[i] = r.FinalScore
		comparison.VerdictDistribution[r.Verdict]++
	}

	comparison.ScoreStats = scoreStats(scores)
	comparison.CommonMissingSkills = commonMissingSkills(results)

	if len(results) > 1 {
		comparison.Insights = comparisonInsights(scores, comparison.ScoreStats, comparison.CommonMissingSkills)
		comparison.Recommendations = comparisonRecommendations(ordered, comparison.CommonMissingSkills)
	}

	c.logger.Debug().
		Int("total", len(results)).
		Float64("top_score", scores[0]).
		Msg("批量对比完成")

	return comparison
}

// scoreStats 批次分数统计, 单份简历时标准差与极差为0
func scoreStats(scores []float64) types.ScoreStats {
	var sum float64
	highest, lowest := scores[0], scores[0]
	for _, s := range scores {
		sum += s
		if s > highest {
			highest = s
		}
		if s < lowest {
			lowest = s
		}
	}
	mean := sum / float64(len(scores))

	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(scores))

	return types.ScoreStats{
		Average: round2(mean),
		Highest: highest,
		Lowest:  lowest,
		StdDev:  round2(math.Sqrt(variance)),
		Range:   round2(highest - lowest),
	}
}

// commonMissingSkills 统计缺失技能出现频次, 按频次降序、同频按字典序
func commonMissingSkills(results []types.MatchResult) []types.SkillCount {
	counts := make(map[string]int)
	for _, r := range results {
		for _, skill := range r.MissingSkills {
			counts[skill]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	out := make([]types.SkillCount, 0, len(counts))
	for skill, count := range counts {
		out = append(out, types.SkillCount{Skill: skill, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Skill < out[j].Skill
	})
	return out
}

func comparisonInsights(scores []float64, stats types.ScoreStats, missing []types.SkillCount) []string {
	var insights []string

	high, low := 0, 0
	for _, s := range scores {
		if s >= 75 {
			high++
		}
		if s < 45 {
			low++
		}
	}
	if high > 0 {
		insights = append(insights, fmt.Sprintf("候选人池质量较高: %d份简历得分75以上", high))
	} else {
		insights = append(insights, "没有高分候选人, 可以考虑调整岗位要求")
	}
	if low > len(scores)/2 {
		insights = append(insights, fmt.Sprintf("多数候选人匹配度不足: %d份得分低于45", low))
	}

	if stats.StdDev < 10 {
		insights = append(insights, "分数方差小, 候选人水平接近")
	} else if stats.StdDev > 25 {
		insights = append(insights, "分数方差大, 候选人质量差异显著")
	}

	if len(missing) > 0 && missing[0].Count > 1 {
		insights = append(insights, fmt.Sprintf("最常见的缺失技能: %s (%d人缺失)", missing[0].Skill, missing[0].Count))
	}

	return insights
}

// comparisonRecommendations 相对头名候选人的聚合建议
func comparisonRecommendations(ordered []types.MatchResult, missing []types.SkillCount) []string {
	var recommendations []string

	top := ordered[0]
	switch {
	case top.FinalScore >= 80:
		recommendations = append(recommendations, "头名候选人匹配度很高, 建议尽快安排面试")
	case top.FinalScore >= 60:
		recommendations = append(recommendations, "头名候选人有潜力, 可以安排面试进一步考察")
	default:
		recommendations = append(recommendations, "整体匹配度偏低, 建议调整岗位要求或扩大候选范围")
	}

	if len(missing) > 0 && missing[0].Count >= len(ordered)/2 && missing[0].Count > 1 {
		recommendations = append(recommendations, "多数候选人存在相同技能缺口, 可考虑入职培训补齐")
	}

	return recommendations
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
