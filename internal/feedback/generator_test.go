package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"resume-match-go/internal/types"
)

// stubChatModel 测试用LLM桩
type stubChatModel struct {
	reply string
	err   error
}

func (s *stubChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &schema.Message{Role: schema.Assistant, Content: s.reply}, nil
}

func (s *stubChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("测试桩不支持Stream")
}

func (s *stubChatModel) WithTools(_ []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return s, nil
}

// TestGenerateTemplateWhenNoLLM 验证未配置LLM时走模板且非空
func TestGenerateTemplateWhenNoLLM(t *testing.T) {
	g := NewGenerator(nil, time.Second, zerolog.Nop())

	text, source := g.Generate(context.Background(), "jd", nil, []string{"kafka"},
		types.MatchResult{Verdict: types.VerdictGood, FinalScore: 75})
	assert.Equal(t, SourceTemplate, source)
	assert.NotEmpty(t, text)
}

// TestGenerateAISuccess 验证AI成功时返回AI来源的单行文本
func TestGenerateAISuccess(t *testing.T) {
	stub := &stubChatModel{reply: "\"用两周完成一个Kafka消费端项目并写进简历。\"\n多余的第二行"}
	g := NewGenerator(stub, time.Second, zerolog.Nop())

	text, source := g.Generate(context.Background(), "jd", []string{"go"}, []string{"kafka"},
		types.MatchResult{Verdict: types.VerdictGood, FinalScore: 75})
	assert.Equal(t, SourceAI, source)
	assert.Equal(t, "用两周完成一个Kafka消费端项目并写进简历。", text, "应去引号并只保留第一行")
}

// TestGenerateAIFailureFallsBack 验证AI失败时静默降级到模板
func TestGenerateAIFailureFallsBack(t *testing.T) {
	stub := &stubChatModel{err: errors.New("超时")}
	g := NewGenerator(stub, time.Second, zerolog.Nop())

	text, source := g.Generate(context.Background(), "jd", nil, nil,
		types.MatchResult{Verdict: types.VerdictExcellent, FinalScore: 90})
	assert.Equal(t, SourceTemplate, source)
	assert.NotEmpty(t, text)
}

// TestTemplateFeedbackDistinctPerVerdict 验证各判定档位模板措辞不同
func TestTemplateFeedbackDistinctPerVerdict(t *testing.T) {
	verdicts := []types.Verdict{
		types.VerdictExcellent, types.VerdictGood, types.VerdictFair, types.VerdictPoor,
	}

	seen := make(map[string]struct{})
	for _, v := range verdicts {
		text := templateFeedback([]string{"docker"}, v)
		assert.NotEmpty(t, text)
		_, dup := seen[text]
		assert.False(t, dup, "档位 %s 的模板不应与其他档位重复", v)
		seen[text] = struct{}{}
	}

	// 无缺失技能时同样四档各不相同
	seen = make(map[string]struct{})
	for _, v := range verdicts {
		text := templateFeedback(nil, v)
		assert.NotEmpty(t, text)
		_, dup := seen[text]
		assert.False(t, dup)
		seen[text] = struct{}{}
	}
}

// TestSuggestions 验证分类建议与数量上限
func TestSuggestions(t *testing.T) {
	// 低分触发重写建议
	out := Suggestions([]string{"python", "docker", "communication"}, 25)
	assert.NotEmpty(t, out)
	assert.LessOrEqual(t, len(out), 3)

	// 无缺失且分数高时仍给出兜底建议
	out = Suggestions(nil, 92)
	assert.Len(t, out, 1)
	assert.NotEmpty(t, out[0])
}
