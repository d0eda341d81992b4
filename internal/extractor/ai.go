package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/types"
	"resume-match-go/pkg/utils"
)

// aiSkillResponse LLM技能抽取的期望JSON结构
type aiSkillResponse struct {
	MustHave   []string `json:"must_have"`
	GoodToHave []string `json:"good_to_have"`
}

// AIExtractor 基于LLM的技能抽取器, 要求模型只输出严格JSON
type AIExtractor struct {
	llmModel model.ToolCallingChatModel
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewAIExtractor 创建LLM技能抽取器
func NewAIExtractor(llmModel model.ToolCallingChatModel, timeout time.Duration, logger zerolog.Logger) *AIExtractor {
	if timeout <= 0 {
		timeout = constants.DefaultLLMTimeout
	}
	return &AIExtractor{
		llmModel: llmModel,
		timeout:  timeout,
		logger:   logger,
	}
}

const aiSkillPromptTemplate = `你是一个从岗位描述中提取技能要求的招聘助手。请基于下面的【岗位描述】提取两类技能并严格按JSON格式输出:
- "must_have": 岗位明确要求的必备技能或资格 (最多%d项)
- "good_to_have": 加分但非必需的技能 (最多%d项)

**输出要求:**
- 完整输出必须是一个合法的JSON对象, 仅包含上述两个字符串数组字段。
- 技能名称使用简洁的小写英文术语, 如 "python"、"machine learning"、"aws"。
- 禁止在JSON结构之外输出任何文本、解释或Markdown标记。

【岗位描述】:
"""
%s
"""

输出示例:
{"must_have": ["python", "sql", "machine learning"], "good_to_have": ["tensorflow", "aws", "docker"]}`

// Extract 调用LLM抽取技能, 受有界超时约束。
// 任何失败(超时/空响应/JSON不合法)都以错误返回, 由上层决定是否降级。
func (a *AIExtractor) Extract(ctx context.Context, jdText string) (types.SkillSet, error) {
	if a.llmModel == nil {
		return types.SkillSet{}, fmt.Errorf("LLM模型未初始化")
	}
	if strings.TrimSpace(jdText) == "" {
		return types.SkillSet{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	messages := []*einoschema.Message{
		einoschema.SystemMessage("你是一个只输出严格JSON的技能提取助手。"),
		einoschema.UserMessage(fmt.Sprintf(aiSkillPromptTemplate,
			constants.MaxMustHaveSkills, constants.MaxGoodToHaveSkills, jdText)),
	}

	response, err := a.llmModel.Generate(ctx, messages)
	if err != nil {
		return types.SkillSet{}, fmt.Errorf("LLM调用失败: %w", err)
	}
	if response == nil || response.Content == "" {
		return types.SkillSet{}, fmt.Errorf("LLM返回空响应")
	}

	content := strings.TrimPrefix(response.Content, "\uFEFF")
	jsonStr := extractJSONObject(content)
	if jsonStr == "" {
		return types.SkillSet{}, fmt.Errorf("LLM响应中未找到JSON对象")
	}
	if !utf8.ValidString(jsonStr) {
		jsonStr = strings.ToValidUTF8(jsonStr, "")
	}

	var parsed aiSkillResponse
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return types.SkillSet{}, fmt.Errorf("解析LLM JSON响应失败: %w", err)
	}

	result := types.SkillSet{
		MustHave:   normalizeSkillList(parsed.MustHave, constants.MaxMustHaveSkills),
		GoodToHave: normalizeSkillList(parsed.GoodToHave, constants.MaxGoodToHaveSkills),
	}
	if result.IsEmpty() {
		return types.SkillSet{}, fmt.Errorf("LLM未抽取到任何技能")
	}

	a.logger.Debug().
		Int("must_have", len(result.MustHave)).
		Int("good_to_have", len(result.GoodToHave)).
		Msg("LLM技能抽取完成")

	return result, nil
}

// extractJSONObject 按花括号配对从文本中截取首个完整JSON对象,
// 顺带剥掉Markdown代码围栏
func extractJSONObject(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}
	level := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func normalizeSkillList(skills []string, limit int) []string {
	normalized := make([]string, 0, len(skills))
	for _, s := range skills {
		n := utils.NormalizeSkill(s)
		if n != "" {
			normalized = append(normalized, n)
		}
	}
	normalized = utils.UniqueStrings(normalized)
	if len(normalized) > limit {
		normalized = normalized[:limit]
	}
	return normalized
}
