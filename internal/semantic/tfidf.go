package semantic

import (
	"context"
	"math"
	"sort"

	"github.com/cloudwego/eino/components/embedding"

	"resume-match-go/pkg/utils"
)

// tfidfStopwords 英文常见停用词，降级向量化时过滤
var tfidfStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "should": {}, "could": {}, "may": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "it": {},
	"we": {}, "you": {}, "they": {}, "i": {}, "he": {}, "she": {},
	"not": {}, "no": {}, "so": {}, "if": {}, "then": {}, "than": {},
}

// TFIDFEmbedder 本地TF-IDF向量化器, 作为远程嵌入服务不可用时的降级方案。
// 每次调用在传入的文本集合上拟合词表, 结果确定且不依赖外部状态。
type TFIDFEmbedder struct {
	maxFeatures int
}

// NewTFIDFEmbedder 创建TF-IDF降级向量化器
func NewTFIDFEmbedder(maxFeatures int) *TFIDFEmbedder {
	if maxFeatures <= 0 {
		maxFeatures = 2048
	}
	return &TFIDFEmbedder{maxFeatures: maxFeatures}
}

// GetDimensions 词表在拟合时确定, 维度不固定
func (t *TFIDFEmbedder) GetDimensions() int {
	return t.maxFeatures
}

// ModelVersion 返回降级模型标识
func (t *TFIDFEmbedder) ModelVersion() string {
	return "tfidf-local"
}

// PerCallVectorSpace TF-IDF词表按调用拟合, 向量只在同一次调用内可比,
// 因此禁止进入跨调用的共享缓存
func (t *TFIDFEmbedder) PerCallVectorSpace() bool {
	return true
}

// EmbedStrings 在texts上拟合词表并输出TF-IDF向量。
// 同一批文本的输出完全确定; 两次调用之间向量空间不可比。
func (t *TFIDFEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([][]string, len(texts))
	docFreq := make(map[string]int)
	for i, text := range texts {
		terms := tfidfTerms(text)
		docs[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	vocab := t.buildVocab(docFreq)

	n := float64(len(texts))
	vectors := make([][]float64, len(texts))
	for i, terms := range docs {
		vec := make([]float64, len(vocab))
		if len(terms) == 0 {
			vectors[i] = vec
			continue
		}
		counts := make(map[string]int, len(terms))
		for _, term := range terms {
			counts[term]++
		}
		for term, count := range counts {
			idx, ok := vocab[term]
			if !ok {
				continue
			}
			tf := float64(count) / float64(len(terms))
			idf := math.Log((n+1)/(float64(docFreq[term])+1)) + 1
			vec[idx] = tf * idf
		}
		vectors[i] = vec
	}

	return vectors, nil
}

// buildVocab 按文档频率降序截断词表, 同频词按字典序保证确定性
func (t *TFIDFEmbedder) buildVocab(docFreq map[string]int) map[string]int {
	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if docFreq[terms[i]] != docFreq[terms[j]] {
			return docFreq[terms[i]] > docFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > t.maxFeatures {
		terms = terms[:t.maxFeatures]
	}

	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}
	return vocab
}

// tfidfTerms 分词并生成unigram+bigram特征
func tfidfTerms(text string) []string {
	tokens := utils.Tokenize(text)
	terms := make([]string, 0, len(tokens)*2)
	filtered := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, stop := tfidfStopwords[tok]; stop {
			continue
		}
		if len(tok) < 2 {
			continue
		}
		filtered = append(filtered, tok)
	}
	terms = append(terms, filtered...)
	for i := 0; i+1 < len(filtered); i++ {
		terms = append(terms, filtered[i]+" "+filtered[i+1])
	}
	return terms
}
