package knowledge

import (
	"context"
	"strings"
	"testing"

	"github.com/mindmate-ai/mindmate/core/errors"
	"github.com/mindmate-ai/mindmate/core/vector_store"
	"github.com/mindmate-ai/mindmate/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder 关键词映射到固定向量轴，保证检索结果可预测
type stubEmbedder struct {
	failing bool
}

var keywordAxes = map[string]int{
	"anxiety": 0, "anxious": 0, "breathing": 0,
	"depression": 1, "depressed": 1,
	"sleep": 2, "insomnia": 2,
	"crisis": 3, "988": 3, "suicide": 3,
}

func (e *stubEmbedder) EmbedStrings(ctx context.Context, texts []string) ([][]float32, error) {
	if e.failing {
		return nil, errors.New(errors.ErrEmbeddingFailed, "embedding service unavailable")
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 8)
		vec[7] = 0.05 // 所有文本共享的微小分量，避免零向量
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

func newTestStore(t *testing.T, emb *stubEmbedder) *Store {
	t.Helper()
	ctx := context.Background()
	vs, err := vector_store.NewMemoryStore(&vector_store.VectorStoreConfig{
		Type:      vector_store.VectorStoreTypeMemory,
		Dimension: 8,
	})
	require.NoError(t, err)

	store, err := NewStore(ctx, &Config{
		VectorStore: vs,
		Embedder:    emb,
		Collection:  "test_kb",
		TopK:        3,
		ChunkSize:   800,
	})
	require.NoError(t, err)
	return store
}

func TestIngestAndRetrieve(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &stubEmbedder{})

	added, err := store.Ingest(ctx, []*schema.Document{
		{
			Content:  "Deep breathing exercises help manage anxiety in stressful moments.",
			MetaData: map[string]interface{}{schema.MetaSource: "APA"},
		},
		{
			Content:  "Depression is treatable with therapy and medication.",
			MetaData: map[string]interface{}{schema.MetaSource: "NIMH"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	t.Run("按相关性检索", func(t *testing.T) {
		snippets := store.Retrieve(ctx, "I feel anxious all the time", 0)
		require.NotEmpty(t, snippets)
		assert.Equal(t, "APA", snippets[0].Source())
		assert.Equal(t, 1, snippets[0].Rank)
	})

	t.Run("统计信息", func(t *testing.T) {
		stats, err := store.GetStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.DocumentCount)
		assert.Equal(t, "memory", stats.BackingStore)
	})
}

func TestIngestSkipsFailingDocuments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &stubEmbedder{})

	added, err := store.Ingest(ctx, []*schema.Document{
		{Content: "Valid content about sleep habits."},
		nil,
		{Content: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
}

func TestIngestAllFail(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &stubEmbedder{})
	store.embedder = &stubEmbedder{failing: true}

	_, err := store.Ingest(ctx, []*schema.Document{
		{Content: "some content"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrIngestionFailed))
}

func TestRetrieveTopKOverride(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &stubEmbedder{})

	_, err := store.Ingest(ctx, []*schema.Document{
		{Content: "Breathing techniques ease anxiety quickly."},
		{Content: "Anxiety can be managed with grounding exercises."},
		{Content: "Regular exercise reduces anxious feelings over time."},
	})
	require.NoError(t, err)

	t.Run("显式topK覆盖配置默认值", func(t *testing.T) {
		snippets := store.Retrieve(ctx, "anxiety", 1)
		assert.Len(t, snippets, 1)
	})

	t.Run("topK为0时退回配置值", func(t *testing.T) {
		snippets := store.Retrieve(ctx, "anxiety", 0)
		assert.Len(t, snippets, 3)
	})
}

func TestRetrieveDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &stubEmbedder{})
	store.embedder = &stubEmbedder{failing: true}

	// 向量化失败时返回空结果而不是错误
	snippets := store.Retrieve(ctx, "anxiety", 0)
	assert.NotNil(t, snippets)
	assert.Empty(t, snippets)
}

func TestRetrieveEmptyQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &stubEmbedder{})
	assert.Empty(t, store.Retrieve(ctx, "", 0))
}

func TestBootstrapSamplesIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &stubEmbedder{})

	require.NoError(t, store.BootstrapSamples(ctx))
	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	first := stats.DocumentCount
	assert.Greater(t, first, int64(0))

	// 再次注入不应增加数量
	require.NoError(t, store.BootstrapSamples(ctx))
	stats, err = store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, stats.DocumentCount)
}
