package common

import (
	"context"

	"github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/mindmate-ai/mindmate/core/config"
	"github.com/mindmate-ai/mindmate/core/errors"
)

// Embedder 文本向量化接口
type Embedder interface {
	// EmbedStrings 将一批文本转换为向量，结果顺序与输入一致
	EmbedStrings(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension 返回向量维度
	Dimension() int
}

// OpenAIEmbedder 基于OpenAI兼容API的向量化实现
type OpenAIEmbedder struct {
	embedder  *openai.Embedder
	dimension int
}

var globalEmbedder Embedder

// GetEmbedder 获取全局向量化实例，单例缓存
func GetEmbedder(ctx context.Context) (Embedder, error) {
	if globalEmbedder != nil {
		return globalEmbedder, nil
	}
	e, err := NewOpenAIEmbedder(ctx, nil)
	if err != nil {
		return nil, err
	}
	globalEmbedder = e
	return e, nil
}

// SetEmbedder 覆盖全局向量化实例，仅供初始化和测试使用
func SetEmbedder(e Embedder) {
	globalEmbedder = e
}

// NewOpenAIEmbedder 创建OpenAI向量化客户端，cfg为nil时从配置文件加载
func NewOpenAIEmbedder(ctx context.Context, cfg *config.EmbeddingConfig) (*OpenAIEmbedder, error) {
	if cfg == nil {
		cfg = config.LoadEmbeddingConfig(ctx)
	}

	if cfg.APIKey == "" {
		return nil, errors.Newf(errors.ErrModelNotConfigured, "embedding apiKey is required")
	}
	if cfg.Model == "" {
		return nil, errors.Newf(errors.ErrModelNotConfigured, "embedding model is required")
	}

	dim := cfg.Dimension
	emb, err := openai.NewEmbedder(ctx, &openai.EmbeddingConfig{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		Dimensions: &dim,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return nil, errors.Newf(errors.ErrModelNotConfigured, "failed to create embedder: %v", err)
	}

	return &OpenAIEmbedder{embedder: emb, dimension: dim}, nil
}

// EmbedStrings 批量向量化并将float64结果转为float32
func (e *OpenAIEmbedder) EmbedStrings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	raw, err := e.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, errors.Newf(errors.ErrEmbeddingFailed, "embedding request failed: %v", err)
	}
	if len(raw) != len(texts) {
		return nil, errors.Newf(errors.ErrEmbeddingFailed,
			"response length (%d) doesn't match input length (%d)", len(raw), len(texts))
	}

	result := make([][]float32, len(raw))
	for i, vec := range raw {
		f32 := make([]float32, len(vec))
		for j, v := range vec {
			f32[j] = float32(v)
		}
		result[i] = f32
	}
	return result, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}
