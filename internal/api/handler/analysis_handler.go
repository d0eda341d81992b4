package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/rs/zerolog"

	"resume-match-go/internal/engine"
	"resume-match-go/internal/extractor"
	"resume-match-go/internal/types"
)

// AnalysisHandler 评分API处理器
type AnalysisHandler struct {
	engine *engine.Engine
	logger zerolog.Logger
}

// NewAnalysisHandler 创建处理器
func NewAnalysisHandler(eng *engine.Engine, logger zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{engine: eng, logger: logger}
}

// ExtractSkillsRequest 技能抽取请求
type ExtractSkillsRequest struct {
	JDText string `json:"jd_text"`
	Method string `json:"method,omitempty"` // ai 或 keyword
}

// ExtractSkillsResponse 技能抽取响应
type ExtractSkillsResponse struct {
	SkillSet types.SkillSet `json:"skill_set"`
	Degraded bool           `json:"degraded,omitempty"`
}

// HandleExtractSkills POST /api/v1/skills/extract
func (h *AnalysisHandler) HandleExtractSkills(c context.Context, ctx *app.RequestContext) {
	var req ExtractSkillsRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败"})
		return
	}
	if strings.TrimSpace(req.JDText) == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "jd_text不能为空"})
		return
	}

	method, err := parseMethod(req.Method)
	if err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	skillSet, degraded := h.engine.ExtractSkills(c, req.JDText, method)
	ctx.JSON(consts.StatusOK, ExtractSkillsResponse{SkillSet: skillSet, Degraded: degraded})
}

// AnalyzeRequest 单份简历分析请求
type AnalyzeRequest struct {
	JDText     string   `json:"jd_text"`
	ResumeID   string   `json:"resume_id,omitempty"`
	ResumeText string   `json:"resume_text"`
	Method     string   `json:"method,omitempty"`
	Type       string   `json:"analysis_type,omitempty"`
	Industry   string   `json:"industry,omitempty"`
	HardWeight *float64 `json:"hard_weight,omitempty"`
	SoftWeight *float64 `json:"soft_weight,omitempty"`
}

// HandleAnalyze POST /api/v1/analyze
func (h *AnalysisHandler) HandleAnalyze(c context.Context, ctx *app.RequestContext) {
	var req AnalyzeRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败"})
		return
	}
	if strings.TrimSpace(req.JDText) == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "jd_text不能为空"})
		return
	}

	opts, err := h.buildOptions(req.Method, req.Type, req.Industry, req.HardWeight, req.SoftWeight)
	if err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	skillSet, extractDegraded := h.engine.ExtractSkills(c, req.JDText, opts.Method)
	result := h.engine.AnalyzeResume(c, req.JDText, skillSet,
		engine.Resume{ResumeID: req.ResumeID, Text: req.ResumeText}, opts)
	if result.Err != nil {
		h.logger.Error().Err(result.Err).Str("resume_id", req.ResumeID).Msg("简历分析失败")
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": result.Err.Error()})
		return
	}
	if extractDegraded && result.Match != nil {
		result.Match.Degraded = true
	}
	h.engine.SaveResult(c, result)

	ctx.JSON(consts.StatusOK, utils.H{"skill_set": skillSet, "result": result})
}

// BatchAnalyzeRequest 批量分析请求
type BatchAnalyzeRequest struct {
	JDText     string          `json:"jd_text"`
	Resumes    []engine.Resume `json:"resumes"`
	Method     string          `json:"method,omitempty"`
	Type       string          `json:"analysis_type,omitempty"`
	Industry   string          `json:"industry,omitempty"`
	HardWeight *float64        `json:"hard_weight,omitempty"`
	SoftWeight *float64        `json:"soft_weight,omitempty"`
}

// HandleAnalyzeBatch POST /api/v1/analyze/batch
func (h *AnalysisHandler) HandleAnalyzeBatch(c context.Context, ctx *app.RequestContext) {
	var req BatchAnalyzeRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体解析失败"})
		return
	}
	if strings.TrimSpace(req.JDText) == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "jd_text不能为空"})
		return
	}

	opts, err := h.buildOptions(req.Method, req.Type, req.Industry, req.HardWeight, req.SoftWeight)
	if err != nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	resp, err := h.engine.AnalyzeBatch(c, engine.BatchRequest{
		JDText:  req.JDText,
		Resumes: req.Resumes,
		Options: opts,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("批量分析失败")
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

// HandleListBatch GET /api/v1/analyses/:batch_id
func (h *AnalysisHandler) HandleListBatch(c context.Context, ctx *app.RequestContext) {
	batchID := ctx.Param("batch_id")
	if strings.TrimSpace(batchID) == "" {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": "batch_id不能为空"})
		return
	}

	records, err := h.engine.ListBatch(c, batchID)
	if err != nil {
		if errors.Is(err, engine.ErrStorageDisabled) {
			ctx.JSON(consts.StatusServiceUnavailable, utils.H{"error": err.Error()})
			return
		}
		h.logger.Error().Err(err).Str("batch_id", batchID).Msg("查询分析记录失败")
		ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}

	ctx.JSON(consts.StatusOK, utils.H{"batch_id": batchID, "records": records})
}

func (h *AnalysisHandler) buildOptions(method, analysisType, industry string, hardWeight, softWeight *float64) (engine.AnalyzeOptions, error) {
	m, err := parseMethod(method)
	if err != nil {
		return engine.AnalyzeOptions{}, err
	}
	t, err := parseAnalysisType(analysisType)
	if err != nil {
		return engine.AnalyzeOptions{}, err
	}
	return engine.AnalyzeOptions{
		Method:     m,
		Type:       t,
		Industry:   industry,
		HardWeight: hardWeight,
		SoftWeight: softWeight,
	}, nil
}

func parseMethod(method string) (extractor.Method, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "", "keyword":
		return extractor.MethodKeyword, nil
	case "ai":
		return extractor.MethodAI, nil
	default:
		return "", errInvalidParam("method只支持ai或keyword")
	}
}

func parseAnalysisType(t string) (types.AnalysisType, error) {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "relevance":
		return types.AnalysisRelevance, nil
	case "ats":
		return types.AnalysisATS, nil
	case "performance":
		return types.AnalysisPerformance, nil
	case "strength":
		return types.AnalysisStrength, nil
	case "full":
		return types.AnalysisFull, nil
	default:
		return "", errInvalidParam("analysis_type不合法")
	}
}

type paramError string

func (e paramError) Error() string { return string(e) }

func errInvalidParam(msg string) error { return paramError(msg) }
