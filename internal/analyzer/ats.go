package analyzer

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"resume-match-go/internal/types"
	"resume-match-go/pkg/utils"
)

// 各检查项在ATS总分中的权重
const (
	atsFormattingWeight = 0.25
	atsContentWeight    = 0.30
	atsKeywordsWeight   = 0.20
	atsContactWeight    = 0.15
	atsSectionsWeight   = 0.10
)

// 字母等级阈值
const (
	atsGradeA = 90.0
	atsGradeB = 80.0
	atsGradeC = 70.0
	atsGradeD = 60.0
)

var (
	atsPhonePattern    = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	atsEmailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	atsLinkedinPattern = regexp.MustCompile(`linkedin\.com/in/[\w\-]+`)
	atsGithubPattern   = regexp.MustCompile(`github\.com/[\w\-]+`)
	atsYearPattern     = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	atsMetricPattern   = regexp.MustCompile(`\d+%|\$\d+|\d+\+|\d+x\b`)
)

var (
	atsRequiredSections  = []string{"experience", "education", "skills"}
	atsPreferredSections = []string{"summary", "projects", "certifications", "achievements"}
	atsActionVerbs       = []string{
		"achieved", "developed", "implemented", "managed", "led", "created",
		"designed", "built", "improved", "increased", "reduced", "optimized",
		"collaborated", "coordinated", "delivered", "executed", "facilitated",
	}
	atsQuantifierVerbs = []string{
		"increased", "decreased", "improved", "reduced", "saved", "generated",
		"supervised", "trained", "mentored",
	}
)

// industryBenchmarks 行业ATS分数基准线
var industryBenchmarks = map[string]types.IndustryBenchmark{
	"technology": {Excellent: 85, Good: 70, Average: 55},
	"finance":    {Excellent: 80, Good: 65, Average: 50},
	"healthcare": {Excellent: 82, Good: 67, Average: 52},
	"education":  {Excellent: 78, Good: 63, Average: 48},
	"marketing":  {Excellent: 80, Good: 65, Average: 50},
	"default":    {Excellent: 80, Good: 65, Average: 50},
}

// ATSAnalyzer 评估简历对ATS系统的解析友好度。
// 纯本地规则实现, 对相同输入输出恒定。
type ATSAnalyzer struct {
	logger zerolog.Logger
}

// NewATSAnalyzer 创建ATS分析器
func NewATSAnalyzer(logger zerolog.Logger) *ATSAnalyzer {
	return &ATSAnalyzer{logger: logger}
}

// Analyze 计算ATS兼容性分数、字母等级与逐项改进建议。
// industry用于选择基准线, 未知行业回退到default。
func (a *ATSAnalyzer) Analyze(resumeText, industry string) types.ATSResult {
	detailed := types.ATSDetailedScores{
		Formatting: formattingScore(resumeText),
		Content:    contentScore(resumeText),
		Keywords:   keywordScore(resumeText),
		Contact:    contactScore(resumeText),
		Sections:   sectionScore(resumeText),
	}

	atsScore := utils.Clamp(
		detailed.Formatting*atsFormattingWeight+
			detailed.Content*atsContentWeight+
			detailed.Keywords*atsKeywordsWeight+
			detailed.Contact*atsContactWeight+
			detailed.Sections*atsSectionsWeight, 0, 100)

	benchmark, ok := industryBenchmarks[strings.ToLower(industry)]
	if !ok {
		industry = "default"
		benchmark = industryBenchmarks["default"]
	}

	result := types.ATSResult{
		ATSScore:       atsScore,
		Grade:          atsGrade(atsScore),
		Industry:       industry,
		Benchmark:      benchmark,
		DetailedScores: detailed,
		Suggestions:    atsSuggestions(detailed),
	}

	a.logger.Debug().
		Float64("ats_score", atsScore).
		Str("grade", result.Grade).
		Msg("ATS分析完成")

	return result
}

// atsGrade 固定阈值字母等级: A≥90, B≥80, C≥70, D≥60, 否则F
func atsGrade(score float64) string {
	switch {
	case score >= atsGradeA:
		return "A"
	case score >= atsGradeB:
		return "B"
	case score >= atsGradeC:
		return "C"
	case score >= atsGradeD:
		return "D"
	default:
		return "F"
	}
}

// formattingScore 结构化排版信号: 行数、项目符号、大写标题、日期、量化指标
func formattingScore(text string) float64 {
	var score float64

	var nonEmpty []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			nonEmpty = append(nonEmpty, trimmed)
		}
	}
	if len(nonEmpty) > 10 {
		score += 20
	}

	bullets := 0
	upperHeaders := 0
	for _, line := range nonEmpty {
		if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") ||
			strings.HasPrefix(line, "*") || strings.HasPrefix(line, "◦") {
			bullets++
		}
		if len(line) > 3 && line == strings.ToUpper(line) && strings.ContainsAny(line, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
			upperHeaders++
		}
	}
	if bullets > 5 {
		score += 20
	}
	if upperHeaders >= 3 {
		score += 20
	}

	if len(atsYearPattern.FindAllString(text, -1)) >= 2 {
		score += 20
	}
	if len(atsMetricPattern.FindAllString(text, -1)) >= 3 {
		score += 20
	}

	return utils.Clamp(score, 0, 100)
}

// contentScore 内容完整性: 必备章节、优选章节、经历线索
func contentScore(text string) float64 {
	lower := strings.ToLower(text)
	var score float64

	found := 0
	for _, s := range atsRequiredSections {
		if strings.Contains(lower, s) {
			found++
		}
	}
	score += float64(found) / float64(len(atsRequiredSections)) * 40

	foundPreferred := 0
	for _, s := range atsPreferredSections {
		if strings.Contains(lower, s) {
			foundPreferred++
		}
	}
	score += float64(foundPreferred) / float64(len(atsPreferredSections)) * 30

	for _, indicator := range []string{"experience", "work", "employment", "career"} {
		if strings.Contains(lower, indicator) {
			score += 30
			break
		}
	}

	return utils.Clamp(score, 0, 100)
}

// keywordScore 关键词优化程度: 动作动词、量化动词、技术词
func keywordScore(text string) float64 {
	lower := strings.ToLower(text)
	var score float64

	verbs := 0
	for _, v := range atsActionVerbs {
		if strings.Contains(lower, v) {
			verbs++
		}
	}
	score += utils.Clamp(float64(verbs)*5, 0, 40)

	quantifiers := 0
	for _, q := range atsQuantifierVerbs {
		if strings.Contains(lower, q) {
			quantifiers++
		}
	}
	score += utils.Clamp(float64(quantifiers)*5, 0, 30)

	tech := 0
	for _, t := range []string{"python", "java", "sql", "machine learning", "data analysis", "project management"} {
		if strings.Contains(lower, t) {
			tech++
		}
	}
	score += utils.Clamp(float64(tech)*3, 0, 30)

	return utils.Clamp(score, 0, 100)
}

// contactScore 联系方式完整性: 电话/邮箱/LinkedIn/GitHub各25分
func contactScore(text string) float64 {
	var score float64
	if atsPhonePattern.MatchString(text) {
		score += 25
	}
	if atsEmailPattern.MatchString(text) {
		score += 25
	}
	if atsLinkedinPattern.MatchString(strings.ToLower(text)) {
		score += 25
	}
	if atsGithubPattern.MatchString(strings.ToLower(text)) {
		score += 25
	}
	return score
}

// sectionScore 章节组织性: 标准标题数、时间跨度、正文规模
func sectionScore(text string) float64 {
	lower := strings.ToLower(text)
	var score float64

	headers := 0
	for _, h := range []string{"experience", "education", "skills", "summary", "objective"} {
		if strings.Contains(lower, h) {
			headers++
		}
	}
	score += utils.Clamp(float64(headers)*15, 0, 60)

	years := atsYearPattern.FindAllString(text, -1)
	if len(years) >= 2 && years[0] != years[len(years)-1] {
		score += 20
	}

	nonEmpty := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			nonEmpty++
		}
	}
	if nonEmpty > 10 {
		score += 20
	}

	return utils.Clamp(score, 0, 100)
}

// atsSuggestions 对低于70分的检查项逐项给出建议
func atsSuggestions(d types.ATSDetailedScores) []string {
	var suggestions []string
	if d.Formatting < 70 {
		suggestions = append(suggestions, "统一使用项目符号和清晰的章节标题改善排版")
	}
	if d.Content < 70 {
		suggestions = append(suggestions, "补充缺失的章节, 如工作经历、教育背景和技能清单")
	}
	if d.Keywords < 70 {
		suggestions = append(suggestions, "增加动作动词并量化成果描述")
	}
	if d.Contact < 70 {
		suggestions = append(suggestions, "补全联系方式, 包括电话、邮箱和LinkedIn")
	}
	if d.Sections < 70 {
		suggestions = append(suggestions, "将内容组织为带标准标题的清晰章节")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "简历的ATS兼容性已经很好")
	}
	return suggestions
}
