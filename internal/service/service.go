package service

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/mindmate-ai/mindmate/core/common"
	"github.com/mindmate-ai/mindmate/core/config"
	"github.com/mindmate-ai/mindmate/core/errors"
	"github.com/mindmate-ai/mindmate/internal/logic/classifier"
	"github.com/mindmate-ai/mindmate/internal/logic/generator"
	"github.com/mindmate-ai/mindmate/internal/logic/knowledge"
	"github.com/mindmate-ai/mindmate/internal/logic/pipeline"
	"github.com/mindmate-ai/mindmate/internal/logic/session"
)

var engine *pipeline.Engine

// InitEngine 初始化对话引擎及其全部依赖。在服务启动时调用一次。
func InitEngine(ctx context.Context) error {
	if engine != nil {
		return nil
	}

	pipelineCfg := config.LoadPipelineConfig(ctx)
	chatCfg := config.LoadChatConfig(ctx)

	vs, err := GetVectorStore()
	if err != nil {
		return err
	}

	embedder, err := common.GetEmbedder(ctx)
	if err != nil {
		return err
	}

	kb, err := knowledge.NewStore(ctx, &knowledge.Config{
		VectorStore:    vs,
		Embedder:       embedder,
		Collection:     pipelineCfg.Collection,
		TopK:           pipelineCfg.TopK,
		ScoreThreshold: pipelineCfg.ScoreThreshold,
		ChunkSize:      pipelineCfg.ChunkSize,
		ChunkOverlap:   pipelineCfg.ChunkOverlap,
	})
	if err != nil {
		return err
	}

	if pipelineCfg.BootstrapSamples {
		if err := kb.BootstrapSamples(ctx); err != nil {
			g.Log().Warningf(ctx, "Failed to bootstrap sample knowledge: %v", err)
		}
	}

	// 模型未配置时引擎仍可启动，生成走兜底回复
	chatModel, err := common.GetChatModel(ctx, nil)
	if err != nil {
		g.Log().Warningf(ctx, "Chat model unavailable, responses will be degraded: %v", err)
		chatModel = nil
	}

	engine = pipeline.NewEngine(&pipeline.Config{
		Classifier:      classifier.NewKeywordClassifier(),
		Knowledge:       kb,
		Generator:       generator.New(chatModel, chatCfg.Timeout),
		Sessions:        session.NewStore(pipelineCfg.SessionTTL),
		MaxHistoryTurns: pipelineCfg.MaxHistoryTurns,
		MaxPromptChars:  pipelineCfg.MaxPromptChars,
		ModelName:       chatCfg.Model,
	})

	g.Log().Infof(ctx, "Engine initialized: collection=%s, store=%s, model=%s",
		pipelineCfg.Collection, vs.Name(), chatCfg.Model)
	return nil
}

// GetEngine 获取对话引擎，未初始化时报错
func GetEngine() (*pipeline.Engine, error) {
	if engine == nil {
		return nil, errors.New(errors.ErrInternalError, "engine is not initialized")
	}
	return engine, nil
}

// SetEngine 覆盖全局引擎，仅供测试使用
func SetEngine(e *pipeline.Engine) {
	engine = e
}
