package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/rs/zerolog"

	"resume-match-go/internal/config"
)

// AliyunEmbedder 通过阿里云OpenAI兼容端点实现 TextEmbedder
type AliyunEmbedder struct {
	apiKey     string
	model      string
	dimensions int
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// NewAliyunEmbedder 创建阿里云Embedder (OpenAI兼容端点)
func NewAliyunEmbedder(apiKey string, embeddingCfg config.EmbeddingConfig, logger zerolog.Logger) (*AliyunEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API密钥不能为空")
	}

	model := embeddingCfg.Model
	if model == "" {
		model = "text-embedding-v3"
	}
	baseURL := embeddingCfg.BaseURL
	if baseURL == "" {
		baseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/embeddings"
	}

	return &AliyunEmbedder{
		apiKey:     apiKey,
		model:      model,
		dimensions: embeddingCfg.Dimensions,
		httpClient: &http.Client{},
		baseURL:    baseURL,
		logger:     logger,
	}, nil
}

// GetDimensions 返回配置的向量维度
func (a *AliyunEmbedder) GetDimensions() int {
	return a.dimensions
}

// ModelVersion 返回模型标识
func (a *AliyunEmbedder) ModelVersion() string {
	return a.model
}

// aliyunEmbeddingRequest 阿里云Embedding请求结构 (OpenAI兼容)
type aliyunEmbeddingRequest struct {
	Input      interface{} `json:"input"` // string 或 []string
	Model      string      `json:"model"`
	Dimensions int         `json:"dimensions,omitempty"`
}

// aliyunEmbeddingResponse 阿里云Embedding响应结构 (OpenAI兼容)
type aliyunEmbeddingResponse struct {
	Object string             `json:"object"`
	Data   []aliyunDataEntry  `json:"data"`
	Model  string             `json:"model"`
	Usage  aliyunUsage        `json:"usage"`
	Error  *aliyunEmbedderErr `json:"error,omitempty"`
}

type aliyunDataEntry struct {
	Object    string    `json:"object"`
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

type aliyunUsage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// aliyunEmbedderErr API可能在200响应体中携带的错误信息
type aliyunEmbedderErr struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// EmbedStrings 将文本转换为向量，实现 cloudwego/eino embedding.Embedder 接口
func (a *AliyunEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	options := &embedding.Options{}
	embedding.GetCommonOptions(options, opts...)

	effectiveModel := a.model
	if options.Model != nil && *options.Model != "" {
		effectiveModel = *options.Model
	}

	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	var inputBody interface{}
	if len(texts) == 1 {
		inputBody = texts[0]
	} else {
		inputBody = texts
	}

	reqBody := aliyunEmbeddingRequest{
		Input: inputBody,
		Model: effectiveModel,
	}
	if a.dimensions > 0 {
		reqBody.Dimensions = a.dimensions
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	a.logger.Debug().Int("texts", len(texts)).Str("model", effectiveModel).Msg("发送嵌入请求")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiError aliyunEmbedderErr
		if json.Unmarshal(body, &apiError) == nil && apiError.Message != "" {
			return nil, fmt.Errorf("API调用失败, 状态码: %d, 类型: %s, 错误: %s", resp.StatusCode, apiError.Type, apiError.Message)
		}
		return nil, fmt.Errorf("API调用失败, 状态码: %d, 响应: %s", resp.StatusCode, string(body))
	}

	var parsedResp aliyunEmbeddingResponse
	if err := json.Unmarshal(body, &parsedResp); err != nil {
		return nil, fmt.Errorf("解析响应JSON失败: %w", err)
	}
	if parsedResp.Error != nil && parsedResp.Error.Message != "" {
		return nil, fmt.Errorf("API返回错误: 类型=%s, 消息=%s", parsedResp.Error.Type, parsedResp.Error.Message)
	}

	outputEmbeddings := make([][]float64, len(parsedResp.Data))
	for i, entry := range parsedResp.Data {
		// 按Index归位，响应中顺序不保证与输入一致
		idx := entry.Index
		if idx < 0 || idx >= len(outputEmbeddings) {
			idx = i
		}
		outputEmbeddings[idx] = entry.Embedding
	}

	a.logger.Debug().
		Int("texts", len(texts)).
		Int("prompt_tokens", parsedResp.Usage.PromptTokens).
		Msg("嵌入完成")

	return outputEmbeddings, nil
}
