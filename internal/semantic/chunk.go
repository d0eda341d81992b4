package semantic

import (
	"sort"
	"strings"
)

// SplitChunks 按词数将文本切分为有重叠的片段。
// size为每片词数, overlap为相邻片段重叠词数。文本不足一片时整体返回。
func SplitChunks(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if size <= 0 {
		size = 200
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 4
	}
	if len(words) <= size {
		return []string{strings.Join(words, " ")}
	}

	step := size - overlap
	chunks := make([]string, 0, len(words)/step+1)
	for start := 0; start < len(words); start += step {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

// TopKMean 对片段两两相似度取前k个的平均值, 作为整体语义相似度。
// 相似度对数量不足k时取全部平均。
func TopKMean(sims []float64, k int) float64 {
	if len(sims) == 0 {
		return 0
	}
	if k <= 0 {
		k = 1
	}
	sorted := make([]float64, len(sims))
	copy(sorted, sims)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if k > len(sorted) {
		k = len(sorted)
	}
	var sum float64
	for _, s := range sorted[:k] {
		sum += s
	}
	return sum / float64(k)
}
