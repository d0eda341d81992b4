package types

// Verdict 四档评估结论，由融合后的最终分数划分
type Verdict string

const (
	// VerdictExcellent 优秀 (>=85)
	VerdictExcellent Verdict = "Excellent"
	// VerdictGood 良好 (>=70)
	VerdictGood Verdict = "Good"
	// VerdictFair 一般 (>=50)
	VerdictFair Verdict = "Fair"
	// VerdictPoor 较差 (<50)
	VerdictPoor Verdict = "Poor"
)

// Band 三档对比视图结论，仅用于批量对比场景，与四档结论并存
type Band string

const (
	// BandHigh 高匹配 (>=80)
	BandHigh Band = "High"
	// BandMedium 中等匹配 (>=60)
	BandMedium Band = "Medium"
	// BandLow 低匹配 (<60)
	BandLow Band = "Low"
)

// SkillSet 从岗位描述中提取的技能要求集合
// 所有技能均已规范化（小写、空白折叠、去重），构建完成后不可变
type SkillSet struct {
	MustHave   []string `json:"must_have"`
	GoodToHave []string `json:"good_to_have"`
}

// IsEmpty 判断技能集合是否为空（无任何要求）
func (s SkillSet) IsEmpty() bool {
	return len(s.MustHave) == 0 && len(s.GoodToHave) == 0
}

// Total 返回要求技能总数
func (s SkillSet) Total() int {
	return len(s.MustHave) + len(s.GoodToHave)
}

// MatchResult 单份简历的匹配评估结果
// 不变式: FinalScore = HardWeight*HardPct + SoftWeight*SoftPct，
// MissingSkills 是 MustHave 的子集；结果一经产出不再修改
type MatchResult struct {
	ResumeID string `json:"resume_id,omitempty"`

	// 硬匹配分 (0-100)，基于技能关键词覆盖率
	HardPct float64 `json:"hard_pct"`
	// 软匹配分 (0-100)，基于语义向量相似度
	SoftPct float64 `json:"soft_pct"`
	// 融合后的最终分数 (0-100)
	FinalScore float64 `json:"final_score"`

	Verdict Verdict `json:"verdict"`
	Band    Band    `json:"band"`

	// 缺失的必备技能
	MissingSkills []string `json:"missing_skills"`

	// 改进建议文本及其来源 ("ai" 或 "template")
	Feedback       string `json:"feedback"`
	FeedbackSource string `json:"feedback_source,omitempty"`

	// 按缺失技能类别生成的改进建议清单
	Suggestions []string `json:"suggestions,omitempty"`

	// 实际采用的权重（已规范化）
	HardWeight float64 `json:"hard_weight"`
	SoftWeight float64 `json:"soft_weight"`

	// Degraded 标记本次分析是否走过降级路径（AI不可用、嵌入回退等）
	Degraded bool `json:"degraded,omitempty"`
}

// ATSResult ATS兼容性分析结果
type ATSResult struct {
	ATSScore float64 `json:"ats_score"`
	Grade    string  `json:"ats_grade"`

	// 各项检查的分项得分 (0-100)
	DetailedScores ATSDetailedScores `json:"detailed_scores"`

	// 针对未通过检查项的改进建议
	Suggestions []string `json:"suggestions"`

	Industry  string            `json:"industry,omitempty"`
	Benchmark IndustryBenchmark `json:"industry_benchmark"`
}

// IndustryBenchmark 行业ATS分数基准线
type IndustryBenchmark struct {
	Excellent float64 `json:"excellent"`
	Good      float64 `json:"good"`
	Average   float64 `json:"average"`
}

// ATSDetailedScores ATS分项检查得分
type ATSDetailedScores struct {
	Formatting float64 `json:"formatting"`
	Content    float64 `json:"content"`
	Keywords   float64 `json:"keywords"`
	Contact    float64 `json:"contact"`
	Sections   float64 `json:"sections"`
}

// PerformanceResult 面试/录用可能性的启发式预测结果
// 这里的概率是对硬/软信号的确定性启发式映射，不是训练得出的模型
type PerformanceResult struct {
	BaseScore            float64 `json:"base_performance_score"`
	InterviewProbability float64 `json:"interview_probability"`
	HiringLikelihood     float64 `json:"hiring_likelihood"`

	// 置信水平: High / Medium / Low
	Confidence string `json:"confidence_level"`
	Grade      string `json:"performance_grade"`

	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

// StrengthCategory 简历强度分析的维度名
type StrengthCategory string

const (
	CategoryTechnicalSkills StrengthCategory = "technical_skills"
	CategorySoftSkills      StrengthCategory = "soft_skills"
	CategoryExperience      StrengthCategory = "experience"
	CategoryEducation       StrengthCategory = "education"
)

// StrengthResult 简历多维度强度分析结果
type StrengthResult struct {
	StrengthScore  float64                      `json:"strength_score"`
	CategoryScores map[StrengthCategory]float64 `json:"category_scores"`

	Insights        []string `json:"strength_insights"`
	Recommendations []string `json:"recommendations"`
}

// AnalysisType 选择本次分析产出的结果种类
type AnalysisType string

const (
	// AnalysisRelevance 仅输出匹配结果
	AnalysisRelevance AnalysisType = "relevance"
	// AnalysisATS 匹配结果 + ATS分析
	AnalysisATS AnalysisType = "ats"
	// AnalysisPerformance 匹配结果 + 表现预测
	AnalysisPerformance AnalysisType = "performance"
	// AnalysisStrength 匹配结果 + 强度分析
	AnalysisStrength AnalysisType = "strength"
	// AnalysisFull 输出全部派生分析
	AnalysisFull AnalysisType = "full"
)

// AnalysisResult 单份简历的完整分析产物，派生分析按需填充
type AnalysisResult struct {
	ResumeID string `json:"resume_id"`

	Match       *MatchResult       `json:"match"`
	ATS         *ATSResult         `json:"ats,omitempty"`
	Performance *PerformanceResult `json:"performance,omitempty"`
	Strength    *StrengthResult    `json:"strength,omitempty"`

	// Err 记录该简历分析的不可恢复失败（仅限两级嵌入均失败的情形），
	// 同批次其他简历不受影响
	Err error `json:"-"`
}

// RankedEntry 排名列表中的一项
type RankedEntry struct {
	Rank       int     `json:"rank"`
	ResumeID   string  `json:"resume_id"`
	FinalScore float64 `json:"final_score"`
	HardPct    float64 `json:"hard_pct"`
	SoftPct    float64 `json:"soft_pct"`
	Verdict    Verdict `json:"verdict"`
	Band       Band    `json:"band"`
}

// SkillCount 技能及其出现次数，用于批量统计
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// ScoreStats 批次分数统计
type ScoreStats struct {
	Average float64 `json:"average_score"`
	Highest float64 `json:"highest_score"`
	Lowest  float64 `json:"lowest_score"`
	StdDev  float64 `json:"score_std"`
	Range   float64 `json:"score_range"`
}

// BatchComparison 跨候选人对比结果
// Rankings 按最终分降序排列，同分保持原批次顺序
type BatchComparison struct {
	TotalResumes int           `json:"total_resumes"`
	Rankings     []RankedEntry `json:"rankings"`

	ScoreStats          ScoreStats         `json:"score_analysis"`
	VerdictDistribution map[Verdict]int    `json:"verdict_distribution"`
	CommonMissingSkills []SkillCount       `json:"common_missing_skills,omitempty"`

	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}
