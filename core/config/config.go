package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gogf/gf/v2/frame/g"
)

// ValidateConfiguration validates all required configuration items
func ValidateConfiguration(ctx context.Context) error {
	var missingConfigs []string
	var warnings []string

	// 验证向量库配置
	vectorDBType := g.Cfg().MustGet(ctx, "vectordb.type", "memory").String()
	switch vectorDBType {
	case "memory":
		// 内存向量库无外部依赖
	case "milvus":
		if g.Cfg().MustGet(ctx, "milvus.address", "").String() == "" {
			missingConfigs = append(missingConfigs, "milvus.address")
		}
	case "postgres":
		for _, key := range []string{"postgres.host", "postgres.user", "postgres.database"} {
			if g.Cfg().MustGet(ctx, key, "").String() == "" {
				missingConfigs = append(missingConfigs, key)
			}
		}
	default:
		missingConfigs = append(missingConfigs, fmt.Sprintf("vectordb.type (unknown value %q)", vectorDBType))
	}

	// 验证 Embedding 配置（memory 以外的后端必须可以向量化）
	if g.Cfg().MustGet(ctx, "embedding.apiKey", "").String() == "" {
		warnings = append(warnings, "embedding.apiKey is not set")
	}
	if g.Cfg().MustGet(ctx, "embedding.baseURL", "").String() == "" {
		warnings = append(warnings, "embedding.baseURL is not set")
	}
	if g.Cfg().MustGet(ctx, "embedding.model", "").String() == "" {
		warnings = append(warnings, "embedding.model is not set")
	}

	// 验证 Chat 配置
	if g.Cfg().MustGet(ctx, "chat.apiKey", "").String() == "" {
		warnings = append(warnings, "chat.apiKey is not set, generation will always fall back")
	}
	if g.Cfg().MustGet(ctx, "chat.model", "").String() == "" {
		warnings = append(warnings, "chat.model is not set")
	}

	if len(warnings) > 0 {
		g.Log().Warningf(ctx, "Configuration warnings:\n- %s", strings.Join(warnings, "\n- "))
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configuration items:\n- %s\n\nPlease check your config.yaml file and ensure all required settings are properly configured", strings.Join(missingConfigs, "\n- "))
	}

	g.Log().Info(ctx, "✓ All required configuration items are present")
	return nil
}

// EmbeddingConfig embedding 服务配置
type EmbeddingConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// LoadEmbeddingConfig 从配置文件加载 embedding 配置
func LoadEmbeddingConfig(ctx context.Context) *EmbeddingConfig {
	return &EmbeddingConfig{
		APIKey:    g.Cfg().MustGet(ctx, "embedding.apiKey", "").String(),
		BaseURL:   g.Cfg().MustGet(ctx, "embedding.baseURL", "").String(),
		Model:     g.Cfg().MustGet(ctx, "embedding.model", "").String(),
		Dimension: g.Cfg().MustGet(ctx, "embedding.dimension", 1024).Int(),
		Timeout:   g.Cfg().MustGet(ctx, "embedding.timeout", "30s").Duration(),
	}
}

// ChatConfig 补全服务配置。模型、温度、输出长度是固定配置，不接受调用方运行时传入。
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// LoadChatConfig 从配置文件加载 chat 配置
func LoadChatConfig(ctx context.Context) *ChatConfig {
	return &ChatConfig{
		APIKey:      g.Cfg().MustGet(ctx, "chat.apiKey", "").String(),
		BaseURL:     g.Cfg().MustGet(ctx, "chat.baseURL", "").String(),
		Model:       g.Cfg().MustGet(ctx, "chat.model", "").String(),
		Temperature: float32(g.Cfg().MustGet(ctx, "chat.temperature", 0.7).Float64()),
		MaxTokens:   g.Cfg().MustGet(ctx, "chat.maxTokens", 1024).Int(),
		Timeout:     g.Cfg().MustGet(ctx, "chat.timeout", "60s").Duration(),
	}
}

// PipelineConfig RAG 管道配置
type PipelineConfig struct {
	// TopK 检索返回的知识片段数量
	TopK int
	// ScoreThreshold 低于该相似度的片段不进入 prompt，0 表示不过滤
	ScoreThreshold float32
	// MaxHistoryTurns 拼装上下文时回放的最大历史轮数（只计 user/assistant）
	MaxHistoryTurns int
	// MaxPromptChars 拼装后 prompt 的最大字符预算，超出时优先截断最旧历史
	MaxPromptChars int
	// SessionTTL 会话空闲淘汰时间，0 表示不淘汰
	SessionTTL time.Duration
	// Collection 知识库集合名
	Collection string
	// ChunkSize / ChunkOverlap 长文档入库前的递归分片参数
	ChunkSize    int
	ChunkOverlap int
	// BootstrapSamples 启动时是否注入内置示例知识
	BootstrapSamples bool
}

// LoadPipelineConfig 从配置文件加载管道配置
func LoadPipelineConfig(ctx context.Context) *PipelineConfig {
	return &PipelineConfig{
		TopK:             g.Cfg().MustGet(ctx, "pipeline.topK", 3).Int(),
		ScoreThreshold:   float32(g.Cfg().MustGet(ctx, "pipeline.scoreThreshold", 0).Float64()),
		MaxHistoryTurns:  g.Cfg().MustGet(ctx, "pipeline.maxHistoryTurns", 10).Int(),
		MaxPromptChars:   g.Cfg().MustGet(ctx, "pipeline.maxPromptChars", 6000).Int(),
		SessionTTL:       g.Cfg().MustGet(ctx, "pipeline.sessionTTL", 0).Duration(),
		Collection:       g.Cfg().MustGet(ctx, "pipeline.collection", "mental_health_kb").String(),
		ChunkSize:        g.Cfg().MustGet(ctx, "pipeline.chunkSize", 800).Int(),
		ChunkOverlap:     g.Cfg().MustGet(ctx, "pipeline.chunkOverlap", 100).Int(),
		BootstrapSamples: g.Cfg().MustGet(ctx, "pipeline.bootstrapSamples", true).Bool(),
	}
}
