package semantic

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder 确定性测试嵌入器, 记录调用次数
type stubEmbedder struct {
	calls      int
	embedded   int
	failAlways bool
}

func (s *stubEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	s.calls++
	if s.failAlways {
		return nil, errors.New("嵌入服务不可用")
	}
	s.embedded += len(texts)
	out := make([][]float64, len(texts))
	for i, t := range texts {
		// 同一文本恒定向量
		out[i] = []float64{float64(len(t)), 1, float64(len(t) % 7)}
	}
	return out, nil
}

func (s *stubEmbedder) GetDimensions() int   { return 3 }
func (s *stubEmbedder) ModelVersion() string { return "stub-v1" }

// TestCosineSimilarity 验证余弦相似度的边界情况
func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9, "同方向向量相似度为1")
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), "正交向量相似度为0")
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{-1, 0}), "负相似度截断为0")
	assert.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 1}), "零向量相似度为0")
	assert.Equal(t, 0.0, CosineSimilarity([]float64{1}, []float64{1, 2}), "维度不一致相似度为0")
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil), "空向量相似度为0")
}

// TestSplitChunks 验证分片的重叠与兜底行为
func TestSplitChunks(t *testing.T) {
	assert.Nil(t, SplitChunks("", 10, 2))
	assert.Nil(t, SplitChunks("   ", 10, 2))

	// 不足一片时整体返回
	chunks := SplitChunks("one two three", 10, 2)
	require.Len(t, chunks, 1)
	assert.Equal(t, "one two three", chunks[0])

	// size=4 overlap=2 → 步长2
	chunks = SplitChunks("a b c d e f", 4, 2)
	require.Len(t, chunks, 2)
	assert.Equal(t, "a b c d", chunks[0])
	assert.Equal(t, "c d e f", chunks[1])

	// overlap不小于size时自动收缩, 不会死循环
	chunks = SplitChunks("a b c d e f g h", 4, 4)
	assert.NotEmpty(t, chunks)
}

// TestTopKMean 验证top-k聚合
func TestTopKMean(t *testing.T) {
	assert.Equal(t, 0.0, TopKMean(nil, 3))
	assert.InDelta(t, 0.9, TopKMean([]float64{0.1, 0.9, 0.5}, 1), 1e-9)
	assert.InDelta(t, 0.7, TopKMean([]float64{0.1, 0.9, 0.5}, 2), 1e-9)
	// k超过数量时取全部平均
	assert.InDelta(t, 0.5, TopKMean([]float64{0.1, 0.9, 0.5}, 10), 1e-9)
}

// TestTFIDFDeterministic 验证同一批输入两次向量化结果一致
func TestTFIDFDeterministic(t *testing.T) {
	e := NewTFIDFEmbedder(0)
	texts := []string{
		"golang backend engineer with kafka experience",
		"frontend developer react typescript",
	}
	first, err := e.EmbedStrings(context.Background(), texts)
	require.NoError(t, err)
	second, err := e.EmbedStrings(context.Background(), texts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestTFIDFIdenticalTexts 验证相同文本向量化后相似度接近1
func TestTFIDFIdenticalTexts(t *testing.T) {
	e := NewTFIDFEmbedder(0)
	text := "distributed systems engineer golang kubernetes"
	vecs, err := e.EmbedStrings(context.Background(), []string{text, text, "cooking recipes and baking"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	assert.InDelta(t, 1.0, CosineSimilarity(vecs[0], vecs[1]), 1e-9, "相同文本相似度应为1")
	assert.Less(t, CosineSimilarity(vecs[0], vecs[2]), 0.5, "无关文本相似度应明显更低")
}

// TestTFIDFEmptyInput 验证空输入返回空结果
func TestTFIDFEmptyInput(t *testing.T) {
	e := NewTFIDFEmbedder(0)
	vecs, err := e.EmbedStrings(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vecs)
}

// TestMemoryVectorCacheLRU 验证容量上限与淘汰顺序
func TestMemoryVectorCacheLRU(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryVectorCache(2)

	require.NoError(t, cache.Add(ctx, "a", []float64{1}))
	require.NoError(t, cache.Add(ctx, "b", []float64{2}))

	// 访问a使其变为最近使用
	_, ok, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	// 插入c应淘汰b
	require.NoError(t, cache.Add(ctx, "c", []float64{3}))
	assert.Equal(t, 2, cache.Len())

	_, ok, _ = cache.Get(ctx, "b")
	assert.False(t, ok, "最久未用的b应被淘汰")
	_, ok, _ = cache.Get(ctx, "a")
	assert.True(t, ok)
	_, ok, _ = cache.Get(ctx, "c")
	assert.True(t, ok)
}

// TestMemoryVectorCacheNoOverwrite 验证已有键不被覆盖
func TestMemoryVectorCacheNoOverwrite(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryVectorCache(4)

	require.NoError(t, cache.Add(ctx, "k", []float64{1, 2}))
	require.NoError(t, cache.Add(ctx, "k", []float64{9, 9}))

	vec, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2}, vec)
	assert.Equal(t, 1, cache.Len())
}

// TestMatcherEmptyInput 验证空输入记0分且不报错
func TestMatcherEmptyInput(t *testing.T) {
	m := NewMatcher(&stubEmbedder{}, nil, zerolog.Nop())

	score, degraded, err := m.Score(context.Background(), "", "job description")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
	assert.True(t, degraded)

	score, degraded, err = m.Score(context.Background(), "resume text", "   ")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
	assert.True(t, degraded)
}

// TestMatcherPrimaryPath 验证主通道成功时不降级
func TestMatcherPrimaryPath(t *testing.T) {
	stub := &stubEmbedder{}
	m := NewMatcher(stub, nil, zerolog.Nop())

	score, degraded, err := m.Score(context.Background(),
		"golang engineer with five years experience",
		"looking for golang engineer")
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
	assert.Equal(t, 1, stub.calls)
}

// TestMatcherCacheHit 验证重复输入不再调用嵌入服务
func TestMatcherCacheHit(t *testing.T) {
	stub := &stubEmbedder{}
	m := NewMatcher(stub, NewMemoryVectorCache(64), zerolog.Nop())

	resume := "backend engineer golang redis"
	jd := "golang backend position"

	first, _, err := m.Score(context.Background(), resume, jd)
	require.NoError(t, err)
	callsAfterFirst := stub.calls

	second, _, err := m.Score(context.Background(), resume, jd)
	require.NoError(t, err)

	assert.Equal(t, first, second, "缓存命中不应改变得分")
	assert.Equal(t, callsAfterFirst, stub.calls, "全部分片命中缓存后不应再请求嵌入服务")
}

// TestMatcherFallback 验证主通道失败时降级到TF-IDF
func TestMatcherFallback(t *testing.T) {
	m := NewMatcher(&stubEmbedder{failAlways: true}, nil, zerolog.Nop())

	score, degraded, err := m.Score(context.Background(),
		"python data engineer spark airflow",
		"hiring python data engineer familiar with spark")
	require.NoError(t, err)
	assert.True(t, degraded, "走降级通道时degraded应为true")
	assert.Greater(t, score, 0.0, "相关文本的TF-IDF得分应大于0")
}

// TestMatcherBothFail 验证主备均失败时返回ErrNoEmbedding
func TestMatcherBothFail(t *testing.T) {
	m := NewMatcher(
		&stubEmbedder{failAlways: true},
		nil,
		zerolog.Nop(),
		WithFallback(&stubEmbedder{failAlways: true}),
	)

	score, degraded, err := m.Score(context.Background(), "resume", "jd")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoEmbedding)
	assert.Equal(t, 0.0, score)
	assert.True(t, degraded)
}

// TestMatcherNilPrimary 验证未配置主嵌入器时直接走降级通道
func TestMatcherNilPrimary(t *testing.T) {
	m := NewMatcher(nil, nil, zerolog.Nop())

	score, degraded, err := m.Score(context.Background(),
		"golang engineer", "golang engineer wanted")
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Greater(t, score, 0.0)
}

// TestMatcherPerCallEmbedderBypassesCache 验证按调用拟合的嵌入器不经过共享缓存。
// TF-IDF的向量空间随每批文本变化, 若写入跨调用缓存, 后续分析会拿到
// 两个空间里的向量做余弦相似度, 软匹配分被污染为0。
func TestMatcherPerCallEmbedderBypassesCache(t *testing.T) {
	jd := "hiring python data engineer familiar with spark and airflow"
	resumeA := "python data engineer with spark experience"
	resumeB := "senior python engineer who built airflow pipelines"

	cache := NewMemoryVectorCache(64)
	m := NewMatcher(NewTFIDFEmbedder(0), cache, zerolog.Nop())

	_, _, err := m.Score(context.Background(), resumeA, jd)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len(), "按调用拟合的向量不应写入共享缓存")

	contaminated, _, err := m.Score(context.Background(), resumeB, jd)
	require.NoError(t, err)

	fresh := NewMatcher(NewTFIDFEmbedder(0), NewMemoryVectorCache(64), zerolog.Nop())
	baseline, _, err := fresh.Score(context.Background(), resumeB, jd)
	require.NoError(t, err)

	assert.InDelta(t, baseline, contaminated, 1e-9, "同一输入的得分不应受此前分析影响")
	assert.Greater(t, contaminated, 0.0, "相关文本的得分应大于0")
}

// TestMatcherCacheKeyIncludesModelVersion 验证缓存键包含模型版本
func TestMatcherCacheKeyIncludesModelVersion(t *testing.T) {
	cache := NewMemoryVectorCache(64)
	stub := &stubEmbedder{}
	m := NewMatcher(stub, cache, zerolog.Nop())

	_, _, err := m.Score(context.Background(), "some resume", "some jd")
	require.NoError(t, err)
	assert.Greater(t, cache.Len(), 0)

	// 换一个模型版本的嵌入器, 旧缓存不应命中
	other := &otherVersionEmbedder{stubEmbedder{}}
	m2 := NewMatcher(other, cache, zerolog.Nop())
	_, _, err = m2.Score(context.Background(), "some resume", "some jd")
	require.NoError(t, err)
	assert.Equal(t, 1, other.calls, "模型版本不同时必须重新向量化")
}

type otherVersionEmbedder struct {
	stubEmbedder
}

func (o *otherVersionEmbedder) ModelVersion() string { return "stub-v2" }
