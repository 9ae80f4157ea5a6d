package generator

import (
	"context"
	"strings"
	"time"

	einoModel "github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/mindmate-ai/mindmate/internal/logic/classifier"
)

// systemPersona 补全模型的系统提示
const systemPersona = "You are MindMate, a caring and supportive mental health companion. " +
	"You listen without judgment, validate feelings, and offer gentle, evidence-based guidance. " +
	"You are not a therapist and you say so when asked for diagnoses or treatment decisions. " +
	"Keep responses warm, concise, and focused on the person in front of you."

// crisisResource 危机资源提示，危机消息的回复必须包含988热线信息
const crisisResource = "If you're in crisis or having thoughts of harming yourself, " +
	"please reach out right now: call or text 988 (Suicide & Crisis Lifeline) to talk with " +
	"a trained counselor, free and confidential, 24/7. If you're in immediate danger, call 911."

// fallbackResponse 模型不可用时的兜底回复，同样包含危机资源
const fallbackResponse = "I'm sorry, I'm having trouble responding right now. Please try again " +
	"in a moment. If you're in crisis, call or text 988 (Suicide & Crisis Lifeline) for immediate, " +
	"confidential support, available 24/7."

// Result 生成结果
type Result struct {
	// Response 最终回复文本
	Response string
	// Degraded 是否走了兜底回复
	Degraded bool
	// Latency 模型调用耗时
	Latency time.Duration
}

// Generator 回复生成器。封装补全模型调用、超时控制、危机资源注入和兜底降级。
type Generator struct {
	model   einoModel.BaseChatModel
	timeout time.Duration
}

func New(model einoModel.BaseChatModel, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Generator{model: model, timeout: timeout}
}

// Generate 生成回复。模型调用失败时返回兜底回复而不是错误，
// 由调用方决定是否关心 Degraded 标记。
func (gen *Generator) Generate(ctx context.Context, prompt string, cls *classifier.Result) *Result {
	start := time.Now()

	if gen.model == nil {
		g.Log().Warningf(ctx, "Chat model not configured, using fallback response")
		return &Result{Response: fallbackResponse, Degraded: true, Latency: time.Since(start)}
	}

	callCtx, cancel := context.WithTimeout(ctx, gen.timeout)
	defer cancel()

	messages := []*einoschema.Message{
		einoschema.SystemMessage(systemPersona),
		einoschema.UserMessage(prompt),
	}

	reply, err := gen.model.Generate(callCtx, messages)
	if err != nil {
		g.Log().Errorf(ctx, "Chat model call failed after %s: %v", time.Since(start), err)
		return &Result{Response: fallbackResponse, Degraded: true, Latency: time.Since(start)}
	}

	response := normalizeWhitespace(reply.Content)
	if response == "" {
		g.Log().Warningf(ctx, "Chat model returned empty content, using fallback response")
		return &Result{Response: fallbackResponse, Degraded: true, Latency: time.Since(start)}
	}

	// 危机消息的回复必须带上热线信息
	if cls != nil && cls.IsCrisis && !strings.Contains(response, "988") {
		response = response + "\n\n" + crisisResource
	}

	return &Result{Response: response, Latency: time.Since(start)}
}

// normalizeWhitespace 去掉首尾空白并把3个以上的连续换行压成2个
func normalizeWhitespace(s string) string {
	s = strings.TrimSpace(s)
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
