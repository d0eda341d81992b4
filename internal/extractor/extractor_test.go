package extractor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChatModel 测试用LLM桩, 返回固定内容或固定错误
type stubChatModel struct {
	reply string
	err   error
	calls int
}

func (s *stubChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	s.calls++
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

// TestKeywordExtractTriggerClassification 验证触发词分类
func TestKeywordExtractTriggerClassification(t *testing.T) {
	k := NewKeywordExtractor()
	jd := "Python is required for this role. Experience with Docker is preferred."

	skills := k.Extract(jd)
	assert.Equal(t, []string{"python"}, skills.MustHave)
	assert.Equal(t, []string{"docker"}, skills.GoodToHave)
}

// TestKeywordExtractRequirementsSectionDefault 验证Requirements章节内未分类技能默认必备
func TestKeywordExtractRequirementsSectionDefault(t *testing.T) {
	k := NewKeywordExtractor()
	jd := `Requirements:
Strong Python and PostgreSQL background

Nice to have:
Familiarity with Kubernetes`

	skills := k.Extract(jd)
	assert.Contains(t, skills.MustHave, "python")
	assert.Contains(t, skills.MustHave, "postgresql")
	assert.Contains(t, skills.GoodToHave, "kubernetes")
	assert.NotContains(t, skills.MustHave, "kubernetes")
}

// TestKeywordExtractMustWins 验证同一技能两类都命中时必备优先
func TestKeywordExtractMustWins(t *testing.T) {
	k := NewKeywordExtractor()
	jd := "Python is required. Python knowledge is also a plus."

	skills := k.Extract(jd)
	assert.Equal(t, []string{"python"}, skills.MustHave)
	assert.NotContains(t, skills.GoodToHave, "python")
}

// TestKeywordExtractLongestPhraseWins 验证长短语命中后子短语不再单独计入
func TestKeywordExtractLongestPhraseWins(t *testing.T) {
	k := NewKeywordExtractor()
	jd := "Experience with SQL Server is required."

	skills := k.Extract(jd)
	assert.Contains(t, skills.MustHave, "sql server")
	assert.NotContains(t, skills.MustHave, "sql")
}

// TestKeywordExtractDeterministic 验证同一输入两次抽取结果一致
func TestKeywordExtractDeterministic(t *testing.T) {
	k := NewKeywordExtractor()
	jd := `Requirements:
5+ years of Python, Django and AWS. Kafka is a plus.
Machine learning experience preferred.`

	first := k.Extract(jd)
	second := k.Extract(jd)
	assert.Equal(t, first, second)
}

// TestKeywordExtractCaps 验证必备技能数量上限
func TestKeywordExtractCaps(t *testing.T) {
	k := NewKeywordExtractor()
	jd := "Required: python, java, javascript, typescript, rust, ruby, php, scala, kotlin, swift, mysql, redis."

	skills := k.Extract(jd)
	assert.LessOrEqual(t, len(skills.MustHave), 8)
}

// TestKeywordExtractEmptyInput 验证空输入返回空集合
func TestKeywordExtractEmptyInput(t *testing.T) {
	k := NewKeywordExtractor()
	skills := k.Extract("   \n  ")
	assert.True(t, skills.IsEmpty())
}

// TestBuildProfileEducation 验证学历记录的学位/专业/院校/年份提取
func TestBuildProfileEducation(t *testing.T) {
	profile := BuildProfile(`EDUCATION
Bachelor of Science in Computer Science, Stanford University (2018)
硕士 机电工程 清华大学 2021`)

	require.Len(t, profile.Education, 2)
	assert.Equal(t, "Bachelor", profile.Education[0].Degree)
	assert.Equal(t, "Computer Science", profile.Education[0].Field)
	assert.Equal(t, "Stanford University", profile.Education[0].School)
	assert.Equal(t, 2018, profile.Education[0].Year)

	assert.Equal(t, "Master", profile.Education[1].Degree)
	assert.Equal(t, "清华大学", profile.Education[1].School)
	assert.Equal(t, 2021, profile.Education[1].Year)
}

// TestAIExtractParsesStrictJSON 验证AI抽取解析严格JSON输出
func TestAIExtractParsesStrictJSON(t *testing.T) {
	stub := &stubChatModel{reply: `{"must_have": ["Python", "SQL"], "good_to_have": ["AWS"]}`}
	a := NewAIExtractor(stub, time.Second, zerolog.Nop())

	skills, err := a.Extract(context.Background(), "some jd")
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "sql"}, skills.MustHave)
	assert.Equal(t, []string{"aws"}, skills.GoodToHave)
}

// TestAIExtractStripsCodeFence 验证Markdown围栏包裹的JSON也能解析
func TestAIExtractStripsCodeFence(t *testing.T) {
	stub := &stubChatModel{reply: "```json\n{\"must_have\": [\"go\"], \"good_to_have\": []}\n```"}
	a := NewAIExtractor(stub, time.Second, zerolog.Nop())

	skills, err := a.Extract(context.Background(), "some jd")
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, skills.MustHave)
}

// TestAIExtractStripsBOM 验证BOM开头的响应也能解析
func TestAIExtractStripsBOM(t *testing.T) {
	stub := &stubChatModel{reply: "\ufeff{\"must_have\": [\"python\"], \"good_to_have\": []}"}
	a := NewAIExtractor(stub, time.Second, zerolog.Nop())

	skills, err := a.Extract(context.Background(), "some jd")
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, skills.MustHave)
}

// TestAIExtractRejectsNonJSON 验证无JSON响应时报错
func TestAIExtractRejectsNonJSON(t *testing.T) {
	stub := &stubChatModel{reply: "抱歉, 我无法完成这个任务。"}
	a := NewAIExtractor(stub, time.Second, zerolog.Nop())

	_, err := a.Extract(context.Background(), "some jd")
	assert.Error(t, err)
}

// TestFacadeAIFailureFallsBack 验证AI失败时静默降级到关键词方式
func TestFacadeAIFailureFallsBack(t *testing.T) {
	stub := &stubChatModel{err: errors.New("服务超时")}
	s := NewSkillExtractor(NewAIExtractor(stub, time.Second, zerolog.Nop()), zerolog.Nop())

	skills, degraded := s.Extract(context.Background(), "Python is required.", MethodAI)
	assert.True(t, degraded, "AI失败后应标记降级")
	assert.Equal(t, []string{"python"}, skills.MustHave)
	assert.Equal(t, 1, stub.calls)
}

// TestFacadeNilClientFallsBack 验证未配置LLM时AI方式直接降级
func TestFacadeNilClientFallsBack(t *testing.T) {
	s := NewSkillExtractor(nil, zerolog.Nop())

	skills, degraded := s.Extract(context.Background(), "Python is required.", MethodAI)
	assert.True(t, degraded)
	assert.Equal(t, []string{"python"}, skills.MustHave)
}

// TestFacadeKeywordMethodNotDegraded 验证显式关键词方式不算降级
func TestFacadeKeywordMethodNotDegraded(t *testing.T) {
	s := NewSkillExtractor(nil, zerolog.Nop())

	_, degraded := s.Extract(context.Background(), "Python is required.", MethodKeyword)
	assert.False(t, degraded)
}

// TestFacadeAISuccess 验证AI成功时不降级且结果来自AI
func TestFacadeAISuccess(t *testing.T) {
	stub := &stubChatModel{reply: `{"must_have": ["golang"], "good_to_have": ["kafka"]}`}
	s := NewSkillExtractor(NewAIExtractor(stub, time.Second, zerolog.Nop()), zerolog.Nop())

	skills, degraded := s.Extract(context.Background(), "后端工程师岗位描述", MethodAI)
	assert.False(t, degraded)
	assert.Equal(t, []string{"golang"}, skills.MustHave)
	assert.Equal(t, []string{"kafka"}, skills.GoodToHave)
}
