package semantic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"resume-match-go/internal/constants"
	"resume-match-go/pkg/utils"
)

// Matcher 计算简历与JD的语义相似度(软匹配分)。
// 主通道走远程嵌入服务, 失败时降级到本地TF-IDF; 两者都失败才向上报错。
type Matcher struct {
	primary      TextEmbedder
	fallback     TextEmbedder
	cache        VectorCache
	chunkSize    int
	chunkOverlap int
	topK         int
	logger       zerolog.Logger
}

// MatcherOption Matcher可选配置
type MatcherOption func(*Matcher)

// WithChunking 设置分片参数
func WithChunking(size, overlap, topK int) MatcherOption {
	return func(m *Matcher) {
		if size > 0 {
			m.chunkSize = size
		}
		if overlap >= 0 {
			m.chunkOverlap = overlap
		}
		if topK > 0 {
			m.topK = topK
		}
	}
}

// WithFallback 替换降级向量化器
func WithFallback(fallback TextEmbedder) MatcherOption {
	return func(m *Matcher) {
		m.fallback = fallback
	}
}

// NewMatcher 创建语义匹配器。primary可以为nil, 此时直接使用降级通道。
func NewMatcher(primary TextEmbedder, cache VectorCache, logger zerolog.Logger, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		primary:      primary,
		fallback:     NewTFIDFEmbedder(0),
		cache:        cache,
		chunkSize:    constants.DefaultChunkSize,
		chunkOverlap: constants.DefaultChunkOverlap,
		topK:         constants.DefaultTopKChunkPairs,
		logger:       logger,
	}
	if m.cache == nil {
		m.cache = NewMemoryVectorCache(constants.DefaultVectorCacheSize)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Score 计算软匹配百分比。
// 返回值degraded为true表示走了TF-IDF降级通道或输入为空。
// 仅当主备向量化均失败时返回 ErrNoEmbedding。
func (m *Matcher) Score(ctx context.Context, resumeText, jdText string) (float64, bool, error) {
	resumeNorm := utils.NormalizeText(resumeText)
	jdNorm := utils.NormalizeText(jdText)
	if resumeNorm == "" || jdNorm == "" {
		m.logger.Warn().Msg("语义匹配输入为空, 软匹配分记0")
		return 0, true, nil
	}

	resumeChunks := SplitChunks(resumeNorm, m.chunkSize, m.chunkOverlap)
	jdChunks := SplitChunks(jdNorm, m.chunkSize, m.chunkOverlap)

	if m.primary != nil {
		var resumeVecs, jdVecs [][]float64
		var err error
		if perCallVectorSpace(m.primary) {
			resumeVecs, jdVecs, err = m.embedJoint(ctx, m.primary, resumeChunks, jdChunks)
		} else {
			resumeVecs, jdVecs, err = m.embedWithCache(ctx, resumeChunks, jdChunks)
		}
		if err == nil {
			return m.aggregate(resumeVecs, jdVecs), false, nil
		}
		m.logger.Warn().Err(err).Msg("主嵌入通道失败, 降级到TF-IDF")
	}

	softPct, err := m.scoreFallback(ctx, resumeChunks, jdChunks)
	if err != nil {
		m.logger.Error().Err(err).Msg("TF-IDF降级通道也失败")
		return 0, true, fmt.Errorf("%w: %v", ErrNoEmbedding, err)
	}
	return softPct, true, nil
}

// embedWithCache 通过主嵌入器计算两组分片的向量, 命中缓存的分片不再重复请求
func (m *Matcher) embedWithCache(ctx context.Context, resumeChunks, jdChunks []string) ([][]float64, [][]float64, error) {
	all := make([]string, 0, len(resumeChunks)+len(jdChunks))
	all = append(all, resumeChunks...)
	all = append(all, jdChunks...)

	modelVersion := m.primary.ModelVersion()
	keys := make([]string, len(all))
	vectors := make([][]float64, len(all))
	missIdx := make([]int, 0, len(all))
	missTexts := make([]string, 0, len(all))

	for i, chunk := range all {
		keys[i] = fmt.Sprintf(constants.KeyTextVector, modelVersion, utils.CalculateMD5([]byte(chunk)))
		vec, ok, err := m.cache.Get(ctx, keys[i])
		if err != nil {
			m.logger.Warn().Err(err).Msg("读取向量缓存失败, 按未命中处理")
		}
		if ok {
			vectors[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, chunk)
	}

	if len(missTexts) > 0 {
		computed, err := m.primary.EmbedStrings(ctx, missTexts)
		if err != nil {
			return nil, nil, err
		}
		if len(computed) != len(missTexts) {
			return nil, nil, fmt.Errorf("嵌入结果数量不符: 期望%d, 实际%d", len(missTexts), len(computed))
		}
		for j, idx := range missIdx {
			vectors[idx] = computed[j]
			if err := m.cache.Add(ctx, keys[idx], computed[j]); err != nil {
				m.logger.Warn().Err(err).Msg("写入向量缓存失败")
			}
		}
	}

	m.logger.Debug().
		Int("chunks", len(all)).
		Int("cache_misses", len(missTexts)).
		Msg("分片向量化完成")

	return vectors[:len(resumeChunks)], vectors[len(resumeChunks):], nil
}

// perCallVectorSpace 判定嵌入器的向量空间是否仅单次EmbedStrings调用内可比。
// 这类向量不满足缓存键要求的跨调用稳定性, 进入共享缓存会污染后续打分。
func perCallVectorSpace(e TextEmbedder) bool {
	pc, ok := e.(interface{ PerCallVectorSpace() bool })
	return ok && pc.PerCallVectorSpace()
}

// embedJoint 在单次EmbedStrings调用内对两组分片联合向量化, 不读写缓存
func (m *Matcher) embedJoint(ctx context.Context, embedder TextEmbedder, resumeChunks, jdChunks []string) ([][]float64, [][]float64, error) {
	all := make([]string, 0, len(resumeChunks)+len(jdChunks))
	all = append(all, resumeChunks...)
	all = append(all, jdChunks...)

	vectors, err := embedder.EmbedStrings(ctx, all)
	if err != nil {
		return nil, nil, err
	}
	if len(vectors) != len(all) {
		return nil, nil, fmt.Errorf("联合向量化结果数量不符: 期望%d, 实际%d", len(all), len(vectors))
	}
	return vectors[:len(resumeChunks)], vectors[len(resumeChunks):], nil
}

// scoreFallback TF-IDF在全部分片上联合拟合
func (m *Matcher) scoreFallback(ctx context.Context, resumeChunks, jdChunks []string) (float64, error) {
	resumeVecs, jdVecs, err := m.embedJoint(ctx, m.fallback, resumeChunks, jdChunks)
	if err != nil {
		return 0, err
	}
	return m.aggregate(resumeVecs, jdVecs), nil
}

// aggregate 对分片两两相似度取top-k均值, 映射到百分制
func (m *Matcher) aggregate(resumeVecs, jdVecs [][]float64) float64 {
	sims := make([]float64, 0, len(resumeVecs)*len(jdVecs))
	for _, rv := range resumeVecs {
		for _, jv := range jdVecs {
			sims = append(sims, CosineSimilarity(rv, jv))
		}
	}
	return utils.Clamp(100*TopKMean(sims, m.topK), 0, 100)
}
