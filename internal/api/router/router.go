package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"

	"resume-match-go/internal/api/handler"
)

// RegisterRoutes 注册 API 路由
// apiKey 非空时对 /api/v1 分组启用 Bearer 鉴权
func RegisterRoutes(h *server.Hertz, analysisHandler *handler.AnalysisHandler, apiKey string) {
	// 健康检查不走鉴权
	h.GET("/api/v1/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	api := h.Group("/api/v1")

	if apiKey != "" {
		api.Use(keyauth.New(
			keyauth.WithKeyLookUp("header:Authorization", "Bearer"),
			keyauth.WithValidator(func(ctx context.Context, c *app.RequestContext, key string) (bool, error) {
				return key == apiKey, nil
			}),
			keyauth.WithErrorHandler(func(ctx context.Context, c *app.RequestContext, err error) {
				c.JSON(consts.StatusUnauthorized, utils.H{"error": "鉴权失败"})
				c.Abort()
			}),
		))
	}

	api.POST("/skills/extract", func(c context.Context, ctx *app.RequestContext) {
		analysisHandler.HandleExtractSkills(c, ctx)
	})

	api.POST("/analyze", func(c context.Context, ctx *app.RequestContext) {
		analysisHandler.HandleAnalyze(c, ctx)
	})

	api.POST("/analyze/batch", func(c context.Context, ctx *app.RequestContext) {
		analysisHandler.HandleAnalyzeBatch(c, ctx)
	})

	api.GET("/analyses/:batch_id", func(c context.Context, ctx *app.RequestContext) {
		analysisHandler.HandleListBatch(c, ctx)
	})
}
