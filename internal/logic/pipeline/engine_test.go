package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	einoModel "github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/mindmate-ai/mindmate/core/vector_store"
	"github.com/mindmate-ai/mindmate/internal/logic/classifier"
	"github.com/mindmate-ai/mindmate/internal/logic/generator"
	"github.com/mindmate-ai/mindmate/internal/logic/knowledge"
	"github.com/mindmate-ai/mindmate/internal/logic/session"
	"github.com/mindmate-ai/mindmate/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder 关键词映射到固定向量轴
type stubEmbedder struct{}

var keywordAxes = map[string]int{
	"anxiety": 0, "anxious": 0, "breathing": 0,
	"depression": 1, "depressed": 1,
	"sleep": 2, "insomnia": 2,
}

func (e *stubEmbedder) EmbedStrings(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 8)
		vec[7] = 0.05
		lowered := strings.ToLower(text)
		for kw, axis := range keywordAxes {
			if strings.Contains(lowered, kw) {
				vec[axis] += 1
			}
		}
		result[i] = vec
	}
	return result, nil
}

func (e *stubEmbedder) Dimension() int { return 8 }

// echoChatModel 把收到的prompt原样带回，便于断言prompt内容
type echoChatModel struct {
	mu      sync.Mutex
	err     error
	prompts []string
}

func (m *echoChatModel) Generate(ctx context.Context, input []*einoschema.Message, opts ...einoModel.Option) (*einoschema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	prompt := input[len(input)-1].Content
	m.prompts = append(m.prompts, prompt)
	return einoschema.AssistantMessage("ECHO:"+prompt, nil), nil
}

func (m *echoChatModel) Stream(ctx context.Context, input []*einoschema.Message, opts ...einoModel.Option) (*einoschema.StreamReader[*einoschema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (m *echoChatModel) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

func newTestEngine(t *testing.T, model *echoChatModel) *Engine {
	t.Helper()
	ctx := context.Background()

	vs, err := vector_store.NewMemoryStore(&vector_store.VectorStoreConfig{
		Type:      vector_store.VectorStoreTypeMemory,
		Dimension: 8,
	})
	require.NoError(t, err)

	kb, err := knowledge.NewStore(ctx, &knowledge.Config{
		VectorStore: vs,
		Embedder:    &stubEmbedder{},
		Collection:  "test_kb",
		TopK:        2,
	})
	require.NoError(t, err)

	_, err = kb.Ingest(ctx, []*schema.Document{
		{
			Content:  "Deep breathing exercises reduce anxiety.",
			MetaData: map[string]interface{}{schema.MetaSource: "APA"},
		},
		{
			Content:  "Consistent sleep schedules help with insomnia.",
			MetaData: map[string]interface{}{schema.MetaSource: "CDC"},
		},
	})
	require.NoError(t, err)

	return NewEngine(&Config{
		Classifier:      classifier.NewKeywordClassifier(),
		Knowledge:       kb,
		Generator:       generator.New(model, 10*time.Second),
		Sessions:        session.NewStore(0),
		MaxHistoryTurns: 10,
		MaxPromptChars:  6000,
		ModelName:       "test-model",
	})
}

func TestProcessInDomainRetrieval(t *testing.T) {
	ctx := context.Background()
	model := &echoChatModel{}
	engine := newTestEngine(t, model)

	res := engine.Process(ctx, "", "I've been feeling anxious lately")

	assert.True(t, res.IsMentalHealth)
	assert.NotEmpty(t, res.SessionID)
	assert.Greater(t, res.ResponseTime, 0.0)

	// 领域内消息会带上检索到的知识
	prompt := model.lastPrompt()
	assert.Contains(t, prompt, "[APA] Deep breathing exercises reduce anxiety.")
	assert.Contains(t, prompt, "Current query: I've been feeling anxious lately")
}

func TestProcessOutOfDomainSkipsRetrieval(t *testing.T) {
	ctx := context.Background()
	model := &echoChatModel{}
	engine := newTestEngine(t, model)

	res := engine.Process(ctx, "", "What's the capital of France?")

	assert.False(t, res.IsMentalHealth)
	prompt := model.lastPrompt()
	assert.NotContains(t, prompt, "[APA]")
	assert.NotContains(t, prompt, "[CDC]")
}

func TestProcessMultiTurnContext(t *testing.T) {
	ctx := context.Background()
	model := &echoChatModel{}
	engine := newTestEngine(t, model)

	first := engine.Process(ctx, "", "I can't sleep because of anxiety")
	second := engine.Process(ctx, first.SessionID, "What else can I try?")

	assert.Equal(t, first.SessionID, second.SessionID)

	// 第二轮的prompt包含第一轮的双方消息
	prompt := model.lastPrompt()
	assert.Contains(t, prompt, "Recent conversation context:")
	assert.Contains(t, prompt, "USER: I can't sleep because of anxiety")
	assert.Contains(t, prompt, "ASSISTANT: ECHO:")
	assert.Contains(t, prompt, "Current query: What else can I try?")

	// 历史里成对出现
	history, err := engine.Sessions().History(first.SessionID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestProcessCrisisInjection(t *testing.T) {
	ctx := context.Background()
	model := &echoChatModel{}
	engine := newTestEngine(t, model)

	res := engine.Process(ctx, "", "I keep thinking about ending my life")

	assert.True(t, res.IsMentalHealth)
	assert.Contains(t, res.Response, "988")
}

func TestProcessDegradation(t *testing.T) {
	ctx := context.Background()
	model := &echoChatModel{err: errors.New("model unavailable")}
	engine := newTestEngine(t, model)

	res := engine.Process(ctx, "", "I feel depressed")

	// 模型失败时兜底回复仍包含危机资源
	assert.Contains(t, res.Response, "988")
	assert.NotEmpty(t, res.SessionID)

	// 兜底回复同样入库
	history, err := engine.Sessions().History(res.SessionID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestProcessEmptyInput(t *testing.T) {
	ctx := context.Background()
	model := &echoChatModel{}
	engine := newTestEngine(t, model)

	res := engine.Process(ctx, "", "   ")

	assert.Equal(t, emptyInputResponse, res.Response)
	assert.False(t, res.IsMentalHealth)
	assert.NotEmpty(t, res.SessionID)

	// 空消息不入库
	history, err := engine.Sessions().History(res.SessionID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestProcessUnknownSessionRecreated(t *testing.T) {
	ctx := context.Background()
	model := &echoChatModel{}
	engine := newTestEngine(t, model)

	res := engine.Process(ctx, "never-seen-before", "I feel anxious")
	assert.Equal(t, "never-seen-before", res.SessionID)

	history, err := engine.Sessions().History("never-seen-before", 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	model := &echoChatModel{}
	engine := newTestEngine(t, model)

	stats, err := engine.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ActiveSessions)
	assert.Equal(t, int64(2), stats.DocumentCount)
	assert.Equal(t, "memory", stats.VectorStore)
	assert.Equal(t, "test-model", stats.Model)

	engine.Process(ctx, "", "I feel anxious")

	stats, err = engine.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ActiveSessions)
	assert.Equal(t, 2, stats.TotalMessages)

	// 统计是只读操作，连续调用结果一致
	again, err := engine.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, again)
}

func TestSessionManagement(t *testing.T) {
	ctx := context.Background()
	model := &echoChatModel{}
	engine := newTestEngine(t, model)

	res := engine.Process(ctx, "", "I feel anxious")

	list := engine.ListSessions()
	require.Len(t, list, 1)
	assert.Equal(t, res.SessionID, list[0].ID)
	assert.Equal(t, 2, list[0].MessageCount)

	sess, err := engine.GetSession(res.SessionID)
	require.NoError(t, err)
	assert.Len(t, sess.Turns, 2)

	require.NoError(t, engine.DeleteSession(res.SessionID))
	assert.Empty(t, engine.ListSessions())
}

func TestConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	model := &echoChatModel{}
	engine := newTestEngine(t, model)

	var wg sync.WaitGroup
	sessionIDs := []string{"s1", "s2", "s3", "s4"}
	for _, id := range sessionIDs {
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(sid string) {
				defer wg.Done()
				res := engine.Process(ctx, sid, "I feel anxious")
				assert.Equal(t, sid, res.SessionID)
			}(id)
		}
	}
	wg.Wait()

	// 每个会话恰好10条消息（5轮 x 2条）
	for _, id := range sessionIDs {
		history, err := engine.Sessions().History(id, 0)
		require.NoError(t, err)
		assert.Len(t, history, 10)
	}
}
