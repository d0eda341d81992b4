package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/pflag"

	"resume-match-go/internal/analyzer"
	"resume-match-go/internal/api/handler"
	"resume-match-go/internal/api/router"
	"resume-match-go/internal/comparator"
	"resume-match-go/internal/config"
	"resume-match-go/internal/engine"
	"resume-match-go/internal/extractor"
	"resume-match-go/internal/feedback"
	"resume-match-go/internal/logger"
	"resume-match-go/internal/matcher"
	"resume-match-go/internal/scoring"
	"resume-match-go/internal/semantic"
	"resume-match-go/internal/storage"
	"resume-match-go/pkg/agent"
	"resume-match-go/pkg/ratelimit"
)

func main() {
	configPath := pflag.String("config", "", "配置文件路径, 留空则按默认路径查找")
	addr := pflag.String("addr", "", "监听地址, 覆盖配置文件中的server.address")
	pflag.Parse()

	// 1. 加载配置文件
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("加载配置文件失败")
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	// 2. 初始化日志系统
	logger.Init(cfg.Logger)
	logger.Logger = logger.Logger.With().
		Str("app", "resume-match-go").
		Logger()

	// 3. 初始化存储管理器
	storageManager, err := storage.NewStorage(cfg, logger.WithComponent("storage"))
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化存储管理器失败")
	}
	defer storageManager.Close()

	// 4. 组装评分引擎
	eng, err := buildEngine(cfg, storageManager)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化评分引擎失败")
	}
	logger.Info().Msg("评分引擎初始化成功")

	// 5. 创建HTTP服务器
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
	)

	analysisHandler := handler.NewAnalysisHandler(eng, logger.WithComponent("handler"))
	router.RegisterRoutes(h, analysisHandler, cfg.Server.APIKey)

	// 6. 启动HTTP服务器
	go func() {
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()
	logger.Info().Str("address", cfg.Server.Address).Msg("HTTP服务器已启动")

	// 7. 等待终止信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("接收到终止信号, 正在优雅退出...")

	// 8. 优雅关闭HTTP服务器
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("服务器关闭失败")
	}

	logger.Info().Msg("优雅退出完成")
}

// buildEngine 按配置组装各组件。没有配置Aliyun密钥时
// AI抽取与AI反馈不可用, 语义匹配直接使用TF-IDF兜底。
func buildEngine(cfg *config.Config, storageManager *storage.Storage) (*engine.Engine, error) {
	// LLM模型（可选）
	var llmModel model.ToolCallingChatModel
	if cfg.Aliyun.APIKey != "" {
		qwenModel, err := agent.NewQwenChatModel(
			cfg.Aliyun.APIKey,
			cfg.Aliyun.Model,
			cfg.Aliyun.APIURL,
			logger.WithComponent("qwen"),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化LLM模型失败, AI能力不可用")
		} else {
			llmModel = ratelimit.NewRateLimitedLLMModel(qwenModel, cfg.LLM.QPM)
		}
	} else {
		logger.Info().Msg("未配置Aliyun API密钥, 技能抽取与反馈使用本地实现")
	}

	// 技能抽取
	var aiExtractor *extractor.AIExtractor
	if llmModel != nil {
		aiExtractor = extractor.NewAIExtractor(llmModel, cfg.LLM.Timeout(), logger.WithComponent("extractor"))
	}
	skillExtractor := extractor.NewSkillExtractor(aiExtractor, logger.WithComponent("extractor"))

	// 硬匹配
	hardMatcher := matcher.NewHardMatcher(
		logger.WithComponent("hard_matcher"),
		matcher.WithWeights(cfg.Scoring.MustHaveWeight, cfg.Scoring.GoodToHaveWeight),
		matcher.WithFuzzyThreshold(cfg.Scoring.FuzzyThreshold),
	)

	// 语义匹配: 主通道为Aliyun Embedding, 兜底为TF-IDF。
	// 没有远程嵌入服务时主通道留空, 让匹配器直接走联合拟合的降级通道,
	// TF-IDF向量跨调用不可比, 不能经过共享缓存。
	// Redis可用时用作向量缓存, 否则退回进程内LRU。
	var primary semantic.TextEmbedder
	if cfg.Aliyun.APIKey != "" {
		embedder, err := semantic.NewAliyunEmbedder(cfg.Aliyun.APIKey, cfg.Aliyun.Embedding, logger.WithComponent("embedder"))
		if err != nil {
			logger.Warn().Err(err).Msg("初始化Embedding客户端失败, 语义匹配使用TF-IDF")
		} else {
			primary = embedder
		}
	}

	var vectorCache semantic.VectorCache
	if storageManager.Redis != nil {
		vectorCache = storageManager.Redis
	} else {
		vectorCache = semantic.NewMemoryVectorCache(cfg.Scoring.VectorCacheSize)
	}

	semanticMatcher := semantic.NewMatcher(
		primary,
		vectorCache,
		logger.WithComponent("semantic"),
		semantic.WithChunking(cfg.Scoring.ChunkSize, cfg.Scoring.ChunkOverlap, cfg.Scoring.TopKChunkPairs),
		semantic.WithFallback(semantic.NewTFIDFEmbedder(0)),
	)

	// 反馈与派生分析
	feedbackGen := feedback.NewGenerator(llmModel, cfg.LLM.Timeout(), logger.WithComponent("feedback"))
	atsAnalyzer := analyzer.NewATSAnalyzer(logger.WithComponent("ats"))
	performancePredictor := analyzer.NewPerformancePredictor(logger.WithComponent("performance"))
	strengthAnalyzer := analyzer.NewStrengthAnalyzer(logger.WithComponent("strength"))
	resumeComparator := comparator.NewComparator(logger.WithComponent("comparator"))

	hardWeight, softWeight, adjusted := scoring.NormalizeWeights(cfg.Scoring.HardWeight, cfg.Scoring.SoftWeight)
	if adjusted {
		logger.Warn().
			Float64("hard_weight", hardWeight).
			Float64("soft_weight", softWeight).
			Msg("配置的融合权重已归一化")
	}
	policy := scoring.DefaultPolicy()
	policy.HardWeight = hardWeight
	policy.SoftWeight = softWeight
	if cfg.Scoring.ExcellentCutoff > 0 {
		policy.ExcellentCutoff = cfg.Scoring.ExcellentCutoff
	}
	if cfg.Scoring.GoodCutoff > 0 {
		policy.GoodCutoff = cfg.Scoring.GoodCutoff
	}
	if cfg.Scoring.FairCutoff > 0 {
		policy.FairCutoff = cfg.Scoring.FairCutoff
	}
	if cfg.Scoring.BandHighCutoff > 0 {
		policy.BandHighCutoff = cfg.Scoring.BandHighCutoff
	}
	if cfg.Scoring.BandMediumCutoff > 0 {
		policy.BandMedCutoff = cfg.Scoring.BandMediumCutoff
	}

	return engine.New(
		engine.Components{
			Extractor:   skillExtractor,
			HardMatcher: hardMatcher,
			Semantic:    semanticMatcher,
			Feedback:    feedbackGen,
			ATS:         atsAnalyzer,
			Performance: performancePredictor,
			Strength:    strengthAnalyzer,
			Comparator:  resumeComparator,
			Store:       storageManager,
		},
		engine.Settings{
			Policy:           policy,
			BatchConcurrency: cfg.Scoring.BatchConcurrency,
		},
		logger.WithComponent("engine"),
	)
}
