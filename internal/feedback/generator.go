package feedback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/types"
)

// 反馈来源标记
const (
	SourceAI       = "ai"
	SourceTemplate = "template"
)

// Generator 简历改进反馈生成器。
// AI通道生成一句可执行的改进建议, 任何失败都静默落到确定性的模板通道。
type Generator struct {
	llmModel model.ToolCallingChatModel
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewGenerator 创建反馈生成器。llmModel可为nil, 此时只走模板通道。
func NewGenerator(llmModel model.ToolCallingChatModel, timeout time.Duration, logger zerolog.Logger) *Generator {
	if timeout <= 0 {
		timeout = constants.DefaultLLMTimeout
	}
	return &Generator{
		llmModel: llmModel,
		timeout:  timeout,
		logger:   logger,
	}
}

const aiFeedbackPromptTemplate = `你是一位求职辅导教练。根据岗位描述、候选人技能与缺失技能, 给出一条候选人在1-4周内可落地执行的简历改进建议。

岗位描述(节选): %s

候选人已具备技能: %s

缺失技能: %s

当前匹配分: %.0f

**要求: 只输出一行祈使句建议, 不要任何引号、解释或列表。**
示例: 用两周完成一个展示Docker部署流程的个人项目并把代码放到GitHub。`

// Generate 生成一条反馈并返回其来源(ai或template)。
// 任何输入组合下都返回非空文本, AI失败对调用方无感。
func (g *Generator) Generate(ctx context.Context, jdText string, profileSkills, missingSkills []string, result types.MatchResult) (string, string) {
	if g.llmModel != nil {
		text, err := g.generateAI(ctx, jdText, profileSkills, missingSkills, result.FinalScore)
		if err == nil && text != "" {
			return text, SourceAI
		}
		if err != nil {
			g.logger.Warn().Err(err).Msg("AI反馈生成失败, 降级到模板")
		}
	}
	return templateFeedback(missingSkills, result.Verdict), SourceTemplate
}

func (g *Generator) generateAI(ctx context.Context, jdText string, profileSkills, missingSkills []string, finalScore float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := fmt.Sprintf(aiFeedbackPromptTemplate,
		truncate(jdText, 500),
		strings.Join(limitList(profileSkills, 10), ", "),
		strings.Join(limitList(missingSkills, 5), ", "),
		finalScore)

	messages := []*einoschema.Message{
		einoschema.SystemMessage("你是一位只输出一行建议的求职辅导教练。"),
		einoschema.UserMessage(prompt),
	}

	response, err := g.llmModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("LLM调用失败: %w", err)
	}
	if response == nil {
		return "", fmt.Errorf("LLM返回空响应")
	}

	text := strings.TrimSpace(response.Content)
	// 只取第一行, 防止模型输出多行解释
	if idx := strings.IndexAny(text, "\r\n"); idx > 0 {
		text = text[:idx]
	}
	text = strings.Trim(text, `"'`)
	if text == "" {
		return "", fmt.Errorf("LLM返回空文本")
	}
	return text, nil
}

// templateFeedback 基于缺失技能与判定档位的确定性模板, 每档措辞不同
func templateFeedback(missingSkills []string, verdict types.Verdict) string {
	if len(missingSkills) == 0 {
		switch verdict {
		case types.VerdictExcellent:
			return "简历与岗位高度契合, 建议进一步补充可量化的成果数据以强化优势。"
		case types.VerdictGood:
			return "简历技能覆盖完整, 建议突出与岗位最相关的项目经历和具体贡献。"
		case types.VerdictFair:
			return "技能要求基本覆盖, 但整体相关性一般, 建议围绕岗位职责重组经历描述。"
		default:
			return "虽无明显技能缺口, 但简历与岗位相关性偏低, 建议针对该岗位定制简历内容。"
		}
	}

	lead := strings.Join(limitList(missingSkills, 3), ", ")
	switch verdict {
	case types.VerdictExcellent:
		return fmt.Sprintf("匹配度已经很高, 补充%s相关的实践经历即可更进一步。", lead)
	case types.VerdictGood:
		return fmt.Sprintf("整体匹配良好, 建议用2-4周完成一个覆盖%s的小型项目并在简历中体现。", lead)
	case types.VerdictFair:
		return fmt.Sprintf("存在明显技能缺口, 优先通过在线课程和实战项目补齐%s, 并量化项目成果。", lead)
	default:
		return fmt.Sprintf("当前匹配度较低, 建议系统学习%s并重写简历, 突出与岗位直接相关的经历。", lead)
	}
}

// Suggestions 基于缺失技能和最终分生成分类改进建议, 最多三条
func Suggestions(missingSkills []string, finalScore float64) []string {
	var suggestions []string

	if finalScore < 30 {
		suggestions = append(suggestions, "建议全面重写简历, 聚焦与岗位相关的技能和经历")
	} else if finalScore < 60 {
		suggestions = append(suggestions, "补充更多相关项目经历, 并量化个人成果")
	}

	var techSkills, tools, others []string
	for _, s := range missingSkills {
		lower := strings.ToLower(s)
		switch {
		case containsAny(lower, "python", "java", "javascript", "sql", "machine learning", "data"):
			techSkills = append(techSkills, s)
		case containsAny(lower, "git", "docker", "aws", "kubernetes", "jenkins"):
			tools = append(tools, s)
		default:
			others = append(others, s)
		}
	}
	if len(techSkills) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("完成%s相关的在线课程并产出实战项目", strings.Join(limitList(techSkills, 2), ", ")))
	}
	if len(tools) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("通过个人项目积累%s的实际使用经验", strings.Join(limitList(tools, 2), ", ")))
	}
	if len(others) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("在简历中用具体案例和数据佐证%s", strings.Join(limitList(others, 2), ", ")))
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, "补充更具体的成果描述并量化个人影响")
	}
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func limitList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
