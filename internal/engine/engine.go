package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"resume-match-go/internal/analyzer"
	"resume-match-go/internal/comparator"
	"resume-match-go/internal/constants"
	"resume-match-go/internal/extractor"
	"resume-match-go/internal/feedback"
	"resume-match-go/internal/matcher"
	"resume-match-go/internal/scoring"
	"resume-match-go/internal/semantic"
	"resume-match-go/internal/storage"
	"resume-match-go/internal/storage/models"
	"resume-match-go/internal/tracing"
	"resume-match-go/internal/types"
)

// ErrStorageDisabled 未配置MySQL时历史查询不可用
var ErrStorageDisabled = errors.New("结果存储未启用")

// Resume 一份待分析的简历输入
type Resume struct {
	ResumeID string `json:"resume_id"`
	Text     string `json:"text"`
}

// AnalyzeOptions 单次分析的选项
type AnalyzeOptions struct {
	// Method 技能抽取方式, 默认keyword
	Method extractor.Method
	// Type 派生分析范围, 默认relevance
	Type types.AnalysisType
	// Industry ATS基准线行业, 默认default
	Industry string
	// HardWeight/SoftWeight 按请求覆盖融合权重, nil时使用服务配置
	HardWeight *float64
	SoftWeight *float64
}

// Components 引擎依赖的全部计算组件
type Components struct {
	Extractor   *extractor.SkillExtractor
	HardMatcher *matcher.HardMatcher
	Semantic    *semantic.Matcher
	Feedback    *feedback.Generator
	ATS         *analyzer.ATSAnalyzer
	Performance *analyzer.PerformancePredictor
	Strength    *analyzer.StrengthAnalyzer
	Comparator  *comparator.Comparator
	Store       *storage.Storage
}

// Settings 引擎运行参数
type Settings struct {
	Policy           scoring.Policy
	BatchConcurrency int
}

// Engine 评分引擎。除可选的向量缓存外不持有跨请求状态,
// 每次分析都是独立的同步计算。
type Engine struct {
	components Components
	settings   Settings
	tracer     trace.Tracer
	logger     zerolog.Logger
}

// New 创建评分引擎
func New(components Components, settings Settings, logger zerolog.Logger) (*Engine, error) {
	if components.Extractor == nil || components.HardMatcher == nil ||
		components.Semantic == nil || components.Feedback == nil ||
		components.Comparator == nil {
		return nil, fmt.Errorf("引擎核心组件不完整")
	}
	if components.ATS == nil || components.Performance == nil || components.Strength == nil {
		return nil, fmt.Errorf("派生分析组件不完整")
	}
	if settings.BatchConcurrency <= 0 {
		settings.BatchConcurrency = constants.DefaultBatchConcurrency
	}

	return &Engine{
		components: components,
		settings:   settings,
		tracer:     otel.Tracer("resume-match-engine"),
		logger:     logger,
	}, nil
}

// ExtractSkills 从JD抽取技能要求
func (e *Engine) ExtractSkills(ctx context.Context, jdText string, method extractor.Method) (types.SkillSet, bool) {
	ctx, span := e.tracer.Start(ctx, "engine.ExtractSkills")
	defer span.End()

	if method == "" {
		method = extractor.MethodKeyword
	}
	skillSet, degraded := e.components.Extractor.Extract(ctx, jdText, method)
	if degraded {
		tracing.MarkDegraded(span, "skill_extraction_fallback")
	}
	span.SetAttributes(
		attribute.Int("skills.must_have", len(skillSet.MustHave)),
		attribute.Int("skills.good_to_have", len(skillSet.GoodToHave)),
		attribute.Int("skills.total", skillSet.Total()),
	)
	return skillSet, degraded
}

// AnalyzeResume 对单份简历执行完整分析流水线。
// 仅当两级语义向量化均失败时返回的结果带Err; 其余失败都走降级路径。
func (e *Engine) AnalyzeResume(ctx context.Context, jdText string, skillSet types.SkillSet, resume Resume, opts AnalyzeOptions) types.AnalysisResult {
	ctx, span := e.tracer.Start(ctx, "engine.AnalyzeResume",
		trace.WithAttributes(attribute.String("resume.id", resume.ResumeID)))
	defer span.End()

	result := types.AnalysisResult{ResumeID: resume.ResumeID}

	profile := extractor.BuildProfile(resume.Text)
	hardPct, missing := e.components.HardMatcher.Score(profile, skillSet)

	softPct, softDegraded, err := e.components.Semantic.Score(ctx, resume.Text, jdText)
	if err != nil {
		// 两级向量化均失败, 是唯一允许向上传播的失败
		tracing.RecordError(span, err, tracing.ErrorTypeEmbedding)
		result.Err = err
		return result
	}

	policy := e.policyFor(opts)
	finalScore, verdict := policy.Fuse(hardPct, softPct)
	hw, sw, adjusted := scoring.NormalizeWeights(policy.HardWeight, policy.SoftWeight)
	if adjusted {
		e.logger.Warn().
			Float64("hard_weight", hw).
			Float64("soft_weight", sw).
			Msg("融合权重不合法, 已归一化处理")
	}

	match := types.MatchResult{
		ResumeID:      resume.ResumeID,
		HardPct:       hardPct,
		SoftPct:       softPct,
		FinalScore:    finalScore,
		Verdict:       verdict,
		Band:          policy.BandFor(finalScore),
		MissingSkills: missing,
		HardWeight:    hw,
		SoftWeight:    sw,
		Degraded:      softDegraded,
	}

	text, source := e.components.Feedback.Generate(ctx, jdText, profile.Skills, missing, match)
	match.Feedback = text
	match.FeedbackSource = source
	match.Suggestions = feedback.Suggestions(missing, finalScore)
	result.Match = &match

	e.runDerivedAnalyses(&result, resume.Text, skillSet, opts)

	if softDegraded {
		tracing.MarkDegraded(span, "semantic_fallback")
	}
	span.SetAttributes(
		attribute.Float64("score.final", finalScore),
		attribute.String("score.verdict", string(verdict)),
	)

	e.logger.Info().
		Str("resume_id", resume.ResumeID).
		Float64("hard_pct", hardPct).
		Float64("soft_pct", softPct).
		Float64("final_score", finalScore).
		Str("verdict", string(verdict)).
		Bool("degraded", softDegraded).
		Msg("简历分析完成")

	return result
}

// policyFor 在服务配置的策略上应用请求级权重覆盖
func (e *Engine) policyFor(opts AnalyzeOptions) scoring.Policy {
	policy := e.settings.Policy
	if opts.HardWeight != nil {
		policy.HardWeight = *opts.HardWeight
	}
	if opts.SoftWeight != nil {
		policy.SoftWeight = *opts.SoftWeight
	}
	return policy
}

// runDerivedAnalyses 按分析类型填充派生结果, 全部是对已有信号的只读计算
func (e *Engine) runDerivedAnalyses(result *types.AnalysisResult, resumeText string, skillSet types.SkillSet, opts AnalyzeOptions) {
	analysisType := opts.Type
	if analysisType == "" {
		analysisType = types.AnalysisRelevance
	}

	needATS := analysisType == types.AnalysisATS || analysisType == types.AnalysisFull ||
		analysisType == types.AnalysisPerformance
	needPerformance := analysisType == types.AnalysisPerformance || analysisType == types.AnalysisFull
	needStrength := analysisType == types.AnalysisStrength || analysisType == types.AnalysisFull

	// 表现预测依赖ATS分, 所以performance类型也要先算ATS
	var ats types.ATSResult
	if needATS {
		ats = e.components.ATS.Analyze(resumeText, opts.Industry)
		result.ATS = &ats
	}
	if needPerformance {
		perf := e.components.Performance.Predict(*result.Match, ats, skillSet)
		result.Performance = &perf
	}
	if needStrength {
		strength := e.components.Strength.Analyze(resumeText, skillSet)
		result.Strength = &strength
	}
}

// BatchRequest 批量分析请求
type BatchRequest struct {
	JDText  string
	Resumes []Resume
	Options AnalyzeOptions
}

// BatchResponse 批量分析结果: 逐份结果 + 跨候选人对比
type BatchResponse struct {
	BatchID    string                 `json:"batch_id"`
	Results    []types.AnalysisResult `json:"results"`
	Comparison types.BatchComparison  `json:"comparison"`
	// SkillSet 本批次使用的技能要求
	SkillSet types.SkillSet `json:"skill_set"`
}

// SaveResult 持久化单次分析结果, 存储未配置时为空操作
func (e *Engine) SaveResult(ctx context.Context, result types.AnalysisResult) {
	if e.components.Store == nil || e.components.Store.MySQL == nil {
		return
	}
	if err := e.components.Store.MySQL.SaveAnalysis(ctx, uuid.New().String(), []types.AnalysisResult{result}); err != nil {
		e.logger.Warn().Err(err).Str("resume_id", result.ResumeID).Msg("分析记录落库失败")
	}
}

// ListBatch 查询历史批次的落库分析记录, 按最终分降序
func (e *Engine) ListBatch(ctx context.Context, batchID string) ([]models.AnalysisRecord, error) {
	if e.components.Store == nil || e.components.Store.MySQL == nil {
		return nil, ErrStorageDisabled
	}
	return e.components.Store.MySQL.ListByBatch(ctx, batchID)
}

// AnalyzeBatch 并发分析一批简历并产出排名。
// 单份简历的失败不影响同批其他简历; 对比只纳入成功的结果,
// 且排名的平分顺序与输入批次顺序一致。
func (e *Engine) AnalyzeBatch(ctx context.Context, req BatchRequest) (BatchResponse, error) {
	ctx, span := e.tracer.Start(ctx, "engine.AnalyzeBatch",
		trace.WithAttributes(attribute.Int("batch.size", len(req.Resumes))))
	defer span.End()

	resp := BatchResponse{BatchID: uuid.New().String()}

	skillSet, extractDegraded := e.ExtractSkills(ctx, req.JDText, req.Options.Method)
	resp.SkillSet = skillSet

	results := make([]types.AnalysisResult, len(req.Resumes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.settings.BatchConcurrency)

	for i, resume := range req.Resumes {
		i, resume := i, resume
		g.Go(func() error {
			r := e.AnalyzeResume(gctx, req.JDText, skillSet, resume, req.Options)
			if r.Match != nil && extractDegraded {
				r.Match.Degraded = true
			}
			// 按下标写回, 保证结果顺序与输入一致
			results[i] = r
			return nil
		})
	}
	// 每份简历的错误都记录在各自结果里, Wait不会返回错误
	if err := g.Wait(); err != nil {
		return resp, err
	}
	resp.Results = results

	// 对比是同步屏障: 必须等全部结果就绪后才执行
	matches := make([]types.MatchResult, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Match != nil {
			matches = append(matches, *r.Match)
		}
	}
	resp.Comparison = e.components.Comparator.Compare(matches)

	if e.components.Store != nil && e.components.Store.MySQL != nil {
		if err := e.components.Store.MySQL.SaveAnalysis(ctx, resp.BatchID, results); err != nil {
			e.logger.Warn().Err(err).Str("batch_id", resp.BatchID).Msg("分析记录落库失败")
		}
	}

	failed := len(results) - len(matches)
	if failed > 0 {
		span.SetAttributes(attribute.Int("batch.failed", failed))
	}
	e.logger.Info().
		Str("batch_id", resp.BatchID).
		Int("total", len(results)).
		Int("failed", failed).
		Msg("批量分析完成")

	return resp, nil
}
