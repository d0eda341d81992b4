package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrorType 定义错误类型，便于分类和过滤
type ErrorType string

const (
	// ErrorTypeLLM 外部AI服务错误
	ErrorTypeLLM ErrorType = "llm"
	// ErrorTypeEmbedding 向量计算错误
	ErrorTypeEmbedding ErrorType = "embedding"
	// ErrorTypeDB 数据库错误
	ErrorTypeDB ErrorType = "db"
	// ErrorTypeRedis Redis错误
	ErrorTypeRedis ErrorType = "redis"
	// ErrorTypeValidation 输入验证错误
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeTimeout 超时错误
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeInternal 内部错误
	ErrorTypeInternal ErrorType = "internal"
)

// RecordError 记录错误到span，附带统一的错误类型标签
func RecordError(span trace.Span, err error, errorType ErrorType) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, TruncateForAttribute(err.Error(), 256))
	span.SetAttributes(attribute.String("error.type", string(errorType)))
}

// MarkDegraded 标记span走过降级路径（AI回退、嵌入回退）
// 降级不是错误，span状态保持OK
func MarkDegraded(span trace.Span, reason string) {
	if span == nil {
		return
	}
	span.SetAttributes(
		attribute.Bool("analysis.degraded", true),
		attribute.String("analysis.degraded_reason", reason),
	)
}

// TruncateForAttribute 截断长文本，避免span属性过大
func TruncateForAttribute(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
