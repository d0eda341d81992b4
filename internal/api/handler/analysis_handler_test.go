package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/analyzer"
	"resume-match-go/internal/api/handler"
	"resume-match-go/internal/api/router"
	"resume-match-go/internal/comparator"
	"resume-match-go/internal/engine"
	"resume-match-go/internal/extractor"
	"resume-match-go/internal/feedback"
	"resume-match-go/internal/matcher"
	"resume-match-go/internal/scoring"
	"resume-match-go/internal/semantic"
	"resume-match-go/internal/types"
)

const testJD = "Requirements: Python and Docker are required. Kubernetes is a plus."

// newTestServer 搭建仅本地路由的测试服务, apiKey非空时启用鉴权
func newTestServer(t *testing.T, apiKey string) *server.Hertz {
	t.Helper()

	nop := zerolog.Nop()
	sem := semantic.NewMatcher(nil, nil, nop)
	eng, err := engine.New(engine.Components{
		Extractor:   extractor.NewSkillExtractor(nil, nop),
		HardMatcher: matcher.NewHardMatcher(nop),
		Semantic:    sem,
		Feedback:    feedback.NewGenerator(nil, 0, nop),
		ATS:         analyzer.NewATSAnalyzer(nop),
		Performance: analyzer.NewPerformancePredictor(nop),
		Strength:    analyzer.NewStrengthAnalyzer(nop),
		Comparator:  comparator.NewComparator(nop),
	}, engine.Settings{Policy: scoring.DefaultPolicy()}, nop)
	require.NoError(t, err)

	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	router.RegisterRoutes(h, handler.NewAnalysisHandler(eng, nop), apiKey)
	return h
}

func postJSON(h *server.Hertz, path string, payload any, headers ...ut.Header) *ut.ResponseRecorder {
	body, _ := json.Marshal(payload)
	headers = append(headers, ut.Header{Key: "Content-Type", Value: "application/json"})
	return ut.PerformRequest(h.Engine, "POST", path,
		&ut.Body{Body: bytes.NewReader(body), Len: len(body)}, headers...)
}

// TestHealthEndpoint 验证健康检查
func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t, "")
	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "ok")
}

// TestListBatchWithoutStorage 未配置MySQL时历史查询应返回503
func TestListBatchWithoutStorage(t *testing.T) {
	h := newTestServer(t, "")
	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/analyses/some-batch", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

// TestExtractSkillsEndpoint 验证技能抽取接口
func TestExtractSkillsEndpoint(t *testing.T) {
	h := newTestServer(t, "")

	resp := postJSON(h, "/api/v1/skills/extract", map[string]string{
		"jd_text": testJD,
		"method":  "keyword",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var parsed handler.ExtractSkillsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &parsed))
	assert.Contains(t, parsed.SkillSet.MustHave, "python")
	assert.Contains(t, parsed.SkillSet.GoodToHave, "kubernetes")
	assert.False(t, parsed.Degraded)
}

// TestExtractSkillsValidation 验证参数校验返回400
func TestExtractSkillsValidation(t *testing.T) {
	h := newTestServer(t, "")

	resp := postJSON(h, "/api/v1/skills/extract", map[string]string{"jd_text": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = postJSON(h, "/api/v1/skills/extract", map[string]string{
		"jd_text": testJD,
		"method":  "telepathy",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

// TestAnalyzeEndpoint 验证单份分析接口返回完整匹配结果
func TestAnalyzeEndpoint(t *testing.T) {
	h := newTestServer(t, "")

	resp := postJSON(h, "/api/v1/analyze", map[string]any{
		"jd_text":       testJD,
		"resume_id":     "r1",
		"resume_text":   "python developer with docker and kubernetes experience",
		"analysis_type": "full",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var parsed struct {
		SkillSet types.SkillSet       `json:"skill_set"`
		Result   types.AnalysisResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &parsed))
	require.NotNil(t, parsed.Result.Match)
	assert.Equal(t, "r1", parsed.Result.Match.ResumeID)
	assert.Equal(t, 100.0, parsed.Result.Match.HardPct)
	assert.NotEmpty(t, parsed.Result.Match.Feedback)
	assert.NotNil(t, parsed.Result.ATS)
	assert.NotNil(t, parsed.Result.Performance)
	assert.NotNil(t, parsed.Result.Strength)
}

// TestAnalyzeValidation 验证空jd_text与非法analysis_type返回400
func TestAnalyzeValidation(t *testing.T) {
	h := newTestServer(t, "")

	resp := postJSON(h, "/api/v1/analyze", map[string]string{"resume_text": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = postJSON(h, "/api/v1/analyze", map[string]string{
		"jd_text":       testJD,
		"resume_text":   "x",
		"analysis_type": "astrology",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

// TestAnalyzeBatchEndpoint 验证批量接口的排名与结果顺序
func TestAnalyzeBatchEndpoint(t *testing.T) {
	h := newTestServer(t, "")

	resp := postJSON(h, "/api/v1/analyze/batch", map[string]any{
		"jd_text": testJD,
		"resumes": []map[string]string{
			{"resume_id": "weak", "text": "java developer"},
			{"resume_id": "strong", "text": "python docker kubernetes engineer"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var parsed engine.BatchResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &parsed))
	assert.NotEmpty(t, parsed.BatchID)
	require.Len(t, parsed.Results, 2)
	assert.Equal(t, "weak", parsed.Results[0].ResumeID, "结果顺序应与输入一致")
	assert.Equal(t, "strong", parsed.Comparison.Rankings[0].ResumeID, "排名按分数降序")
}

// TestKeyAuthMiddleware 验证配置API密钥后的鉴权行为
func TestKeyAuthMiddleware(t *testing.T) {
	h := newTestServer(t, "secret-key")

	resp := postJSON(h, "/api/v1/skills/extract", map[string]string{"jd_text": testJD})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = postJSON(h, "/api/v1/skills/extract", map[string]string{"jd_text": testJD},
		ut.Header{Key: "Authorization", Value: "Bearer secret-key"})
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = postJSON(h, "/api/v1/skills/extract", map[string]string{"jd_text": testJD},
		ut.Header{Key: "Authorization", Value: "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ut.PerformRequest(h.Engine, "GET", "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, resp.Code, "健康检查不应要求鉴权")
}
