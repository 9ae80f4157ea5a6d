package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	einoModel "github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/mindmate-ai/mindmate/internal/logic/classifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChatModel 固定回复的模型桩
type stubChatModel struct {
	reply string
	err   error
	// lastInput 记录最近一次调用的消息，供断言
	lastInput []*einoschema.Message
}

func (m *stubChatModel) Generate(ctx context.Context, input []*einoschema.Message, opts ...einoModel.Option) (*einoschema.Message, error) {
	m.lastInput = input
	if m.err != nil {
		return nil, m.err
	}
	return einoschema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(ctx context.Context, input []*einoschema.Message, opts ...einoModel.Option) (*einoschema.StreamReader[*einoschema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestGenerateSuccess(t *testing.T) {
	ctx := context.Background()
	stub := &stubChatModel{reply: "That sounds really hard. Have you tried grounding exercises?"}
	gen := New(stub, 30*time.Second)

	res := gen.Generate(ctx, "Current query: I feel anxious", &classifier.Result{IsMentalHealth: true})

	assert.False(t, res.Degraded)
	assert.Equal(t, "That sounds really hard. Have you tried grounding exercises?", res.Response)
	assert.Greater(t, res.Latency, time.Duration(0))

	// 系统提示 + 用户prompt
	require.Len(t, stub.lastInput, 2)
	assert.Equal(t, einoschema.System, stub.lastInput[0].Role)
	assert.Equal(t, einoschema.User, stub.lastInput[1].Role)
	assert.Contains(t, stub.lastInput[1].Content, "I feel anxious")
}

func TestGenerateCrisisInjection(t *testing.T) {
	ctx := context.Background()

	t.Run("回复缺失热线时追加", func(t *testing.T) {
		stub := &stubChatModel{reply: "I'm really glad you told me. You are not alone."}
		gen := New(stub, 30*time.Second)

		res := gen.Generate(ctx, "prompt", &classifier.Result{IsMentalHealth: true, IsCrisis: true})
		assert.Contains(t, res.Response, "988")
	})

	t.Run("回复已含热线时不重复", func(t *testing.T) {
		reply := "Please call or text 988 right away, you deserve support."
		stub := &stubChatModel{reply: reply}
		gen := New(stub, 30*time.Second)

		res := gen.Generate(ctx, "prompt", &classifier.Result{IsMentalHealth: true, IsCrisis: true})
		assert.Equal(t, reply, res.Response)
	})

	t.Run("非危机消息不注入", func(t *testing.T) {
		stub := &stubChatModel{reply: "Sleep hygiene matters a lot."}
		gen := New(stub, 30*time.Second)

		res := gen.Generate(ctx, "prompt", &classifier.Result{IsMentalHealth: true})
		assert.NotContains(t, res.Response, "988")
	})
}

func TestGenerateFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("模型调用失败", func(t *testing.T) {
		stub := &stubChatModel{err: errors.New("connection refused")}
		gen := New(stub, 30*time.Second)

		res := gen.Generate(ctx, "prompt", nil)
		assert.True(t, res.Degraded)
		assert.Contains(t, res.Response, "988")
	})

	t.Run("模型未配置", func(t *testing.T) {
		gen := New(nil, 30*time.Second)

		res := gen.Generate(ctx, "prompt", nil)
		assert.True(t, res.Degraded)
		assert.NotEmpty(t, res.Response)
	})

	t.Run("模型返回空内容", func(t *testing.T) {
		stub := &stubChatModel{reply: "   "}
		gen := New(stub, 30*time.Second)

		res := gen.Generate(ctx, "prompt", nil)
		assert.True(t, res.Degraded)
	})
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a\n\nb", normalizeWhitespace("  a\n\n\n\nb  \n"))
	assert.Equal(t, "", normalizeWhitespace(" \t\n"))
}
