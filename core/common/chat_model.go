package common

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/mindmate-ai/mindmate/core/config"
	"github.com/mindmate-ai/mindmate/core/errors"
)

var chatModel einoModel.BaseChatModel

// GetChatModel 获取全局补全模型，单例缓存。cfg为nil时从配置文件加载。
func GetChatModel(ctx context.Context, cfg *openai.ChatModelConfig) (einoModel.BaseChatModel, error) {
	if chatModel != nil {
		return chatModel, nil
	}
	if cfg == nil {
		loaded := config.LoadChatConfig(ctx)
		if loaded.APIKey == "" || loaded.Model == "" {
			return nil, errors.Newf(errors.ErrModelNotConfigured, "chat apiKey and model are required")
		}
		temperature := loaded.Temperature
		maxTokens := loaded.MaxTokens
		cfg = &openai.ChatModelConfig{
			BaseURL:     loaded.BaseURL,
			APIKey:      loaded.APIKey,
			Model:       loaded.Model,
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
			Timeout:     loaded.Timeout,
		}
	}
	cm, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, errors.Newf(errors.ErrModelNotConfigured, "failed to create chat model: %v", err)
	}
	chatModel = cm
	return cm, nil
}

// SetChatModel 覆盖全局补全模型，仅供初始化和测试使用
func SetChatModel(cm einoModel.BaseChatModel) {
	chatModel = cm
}
