package semantic

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/components/embedding"
)

// TextEmbedder 文本向量化接口 (遵循 cloudwego/eino 规范)。
// 对相同的规范化输入必须返回相同向量，这是缓存正确性的前提。
type TextEmbedder interface {
	// EmbedStrings 将一批文本转换为向量表示
	EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error)

	// GetDimensions 返回嵌入向量的维度，未知时返回0
	GetDimensions() int

	// ModelVersion 返回模型标识，参与缓存键，避免不同模型的向量互相污染
	ModelVersion() string
}

// ErrNoEmbedding 主备两级向量计算均失败，无法产出软匹配分。
// 这是语义匹配唯一允许向上传播的错误。
var ErrNoEmbedding = errors.New("主备嵌入计算均失败，无法生成向量")
