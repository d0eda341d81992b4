package analyzer

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"resume-match-go/internal/types"
	"resume-match-go/pkg/utils"
)

// strengthCategoryConfig 单个强度维度的关键词与权重
type strengthCategoryConfig struct {
	weight   float64
	keywords []string
	patterns []*regexp.Regexp
}

var strengthCategories = map[types.StrengthCategory]strengthCategoryConfig{
	types.CategoryTechnicalSkills: {
		weight: 0.30,
		keywords: []string{
			"python", "java", "javascript", "sql", "machine learning", "data science",
			"aws", "docker", "kubernetes", "react", "golang", "c++",
		},
	},
	types.CategorySoftSkills: {
		weight: 0.25,
		keywords: []string{
			"leadership", "communication", "teamwork", "problem solving",
			"project management", "collaborated", "presented", "mentored",
		},
	},
	types.CategoryExperience: {
		weight: 0.25,
		keywords: []string{
			"experience", "senior", "lead", "manager", "director", "head of",
		},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\d+\+?\s*(?:years?|yrs?)`),
		},
	},
	types.CategoryEducation: {
		weight: 0.20,
		keywords: []string{
			"bachelor", "master", "phd", "degree", "university", "college",
			"computer science", "engineering", "certified", "certification",
		},
	},
}

// StrengthAnalyzer 按维度扫描简历信号并输出加权强度分。
// 纯本地规则实现, 与JD要求做轻量对齐加成。
type StrengthAnalyzer struct {
	logger zerolog.Logger
}

// NewStrengthAnalyzer 创建强度分析器
func NewStrengthAnalyzer(logger zerolog.Logger) *StrengthAnalyzer {
	return &StrengthAnalyzer{logger: logger}
}

// Analyze 计算各维度得分、整体强度与最强/最弱维度洞察
func (s *StrengthAnalyzer) Analyze(resumeText string, skillSet types.SkillSet) types.StrengthResult {
	lower := strings.ToLower(resumeText)

	categoryScores := make(map[types.StrengthCategory]float64, len(strengthCategories))
	var weightedSum, totalWeight float64
	for category, cfg := range strengthCategories {
		score := categoryStrength(lower, cfg, skillSet)
		categoryScores[category] = score
		weightedSum += score * cfg.weight
		totalWeight += cfg.weight
	}

	overall := 0.0
	if totalWeight > 0 {
		overall = weightedSum / totalWeight
	}

	result := types.StrengthResult{
		StrengthScore:   math.Round(overall*100) / 100,
		CategoryScores:  categoryScores,
		Insights:        strengthInsights(categoryScores, overall),
		Recommendations: strengthRecommendations(categoryScores, skillSet),
	}

	s.logger.Debug().
		Float64("strength_score", result.StrengthScore).
		Msg("强度分析完成")

	return result
}

// categoryStrength 关键词命中计分 + JD必备/加分技能对齐加成, 归一到百分制
func categoryStrength(lowerText string, cfg strengthCategoryConfig, skillSet types.SkillSet) float64 {
	var score float64
	for _, kw := range cfg.keywords {
		if strings.Contains(lowerText, kw) {
			score += 10
		}
	}
	for _, p := range cfg.patterns {
		score += math.Min(float64(len(p.FindAllString(lowerText, -1)))*5, 20)
	}

	var alignment float64
	if len(skillSet.MustHave) > 0 {
		matched := 0
		for _, skill := range skillSet.MustHave {
			if strings.Contains(lowerText, strings.ToLower(skill)) {
				matched++
			}
		}
		alignment += float64(matched) / float64(len(skillSet.MustHave)) * 50
	}
	if len(skillSet.GoodToHave) > 0 {
		matched := 0
		for _, skill := range skillSet.GoodToHave {
			if strings.Contains(lowerText, strings.ToLower(skill)) {
				matched++
			}
		}
		alignment += float64(matched) / float64(len(skillSet.GoodToHave)) * 30
	}
	score += utils.Clamp(alignment, 0, 100) * 0.2

	maxPossible := float64(len(cfg.keywords))*10 + float64(len(cfg.patterns))*20 + 20
	return math.Round(utils.Clamp(score/maxPossible*100, 0, 100)*100) / 100
}

// strengthInsights 点名最强与最弱维度, 并给出整体评价
func strengthInsights(scores map[types.StrengthCategory]float64, overall float64) []string {
	var insights []string

	categories := make([]types.StrengthCategory, 0, len(scores))
	for c := range scores {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if scores[categories[i]] != scores[categories[j]] {
			return scores[categories[i]] > scores[categories[j]]
		}
		return categories[i] < categories[j]
	})

	if len(categories) > 0 {
		strongest := categories[0]
		weakest := categories[len(categories)-1]
		insights = append(insights,
			fmt.Sprintf("最强维度: %s (%.1f%%)", categoryLabel(strongest), scores[strongest]),
			fmt.Sprintf("待提升维度: %s (%.1f%%)", categoryLabel(weakest), scores[weakest]))
	}

	switch {
	case overall >= 80:
		insights = append(insights, "简历整体强度优秀")
	case overall >= 70:
		insights = append(insights, "简历整体强度良好")
	case overall >= 60:
		insights = append(insights, "简历整体强度中等")
	default:
		insights = append(insights, "简历整体强度偏弱, 需要全面加强")
	}

	return insights
}

func strengthRecommendations(scores map[types.StrengthCategory]float64, skillSet types.SkillSet) []string {
	var recommendations []string

	categories := make([]types.StrengthCategory, 0, len(scores))
	for c := range scores {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	for _, c := range categories {
		if scores[c] < 60 {
			recommendations = append(recommendations,
				fmt.Sprintf("加强%s相关内容 (当前: %.1f%%)", categoryLabel(c), scores[c]))
		}
	}

	if len(skillSet.MustHave) > 0 {
		limit := len(skillSet.MustHave)
		if limit > 3 {
			limit = 3
		}
		recommendations = append(recommendations,
			fmt.Sprintf("确保必备技能在简历中清晰可见: %s", strings.Join(skillSet.MustHave[:limit], ", ")))
	}

	return recommendations
}

func categoryLabel(c types.StrengthCategory) string {
	switch c {
	case types.CategoryTechnicalSkills:
		return "技术技能"
	case types.CategorySoftSkills:
		return "软技能"
	case types.CategoryExperience:
		return "工作经验"
	case types.CategoryEducation:
		return "教育背景"
	default:
		return string(c)
	}
}
