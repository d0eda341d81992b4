package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
)

const (
	// DashScope的OpenAI兼容聊天端点
	defaultQwenChatURL   = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	defaultQwenModelName = "qwen-plus"
)

// QwenChatModel 阿里云通义千问聊天客户端, 实现 model.ToolCallingChatModel。
// 本服务的提示词都是单轮纯文本交互, 不绑定工具。
type QwenChatModel struct {
	apiKey     string
	modelName  string
	apiURL     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewQwenChatModel 创建通义千问聊天客户端
func NewQwenChatModel(apiKey, modelName, apiURL string, logger zerolog.Logger) (*QwenChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API密钥不能为空")
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = defaultQwenModelName
	}
	if strings.TrimSpace(apiURL) == "" {
		apiURL = defaultQwenChatURL
	}

	logger.Info().Str("api_url", apiURL).Str("model", modelName).Msg("初始化通义千问聊天客户端")

	return &QwenChatModel{
		apiKey:     apiKey,
		modelName:  modelName,
		apiURL:     apiURL,
		httpClient: &http.Client{},
		logger:     logger,
	}, nil
}

type qwenChatRequest struct {
	Model    string            `json:"model"`
	Messages []*schema.Message `json:"messages"`
}

type qwenChatMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type qwenChatChoice struct {
	Index        int             `json:"index"`
	Message      qwenChatMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

type qwenChatResponse struct {
	Id      string           `json:"id"`
	Object  string           `json:"object"`
	Model   string           `json:"model"`
	Choices []qwenChatChoice `json:"choices"`
}

// Generate 实现 model.ChatModel 接口
func (q *QwenChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	reqPayload := qwenChatRequest{
		Model:    q.modelName,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, q.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+q.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	q.logger.Debug().Int("messages", len(messages)).Str("model", q.modelName).Msg("发送聊天请求")

	httpResp, err := q.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API请求失败, 状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var parsed qwenChatResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, fmt.Errorf("反序列化API响应失败: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("API返回空choices: %s", string(bodyBytes))
	}

	apiMessage := parsed.Choices[0].Message
	content := ""
	if apiMessage.Content != nil {
		content = *apiMessage.Content
	}

	role := schema.RoleType(apiMessage.Role)
	if role == "" {
		role = schema.Assistant
	}

	return &schema.Message{Role: role, Content: content}, nil
}

// Stream 未实现流式输出, 本服务所有调用都取完整响应
func (q *QwenChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("QwenChatModel未实现Stream方法")
}

// WithTools 满足 model.ToolCallingChatModel 接口。
// 本服务不使用工具调用, 直接返回自身。
func (q *QwenChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	if len(tools) > 0 {
		q.logger.Warn().Int("tools", len(tools)).Msg("QwenChatModel不支持工具调用, 已忽略")
	}
	return q, nil
}

var _ model.ToolCallingChatModel = (*QwenChatModel)(nil)
