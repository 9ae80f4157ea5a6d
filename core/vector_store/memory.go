package vector_store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mindmate-ai/mindmate/pkg/schema"
)

// MemoryStore 内存向量数据库实现。
// 用于本地运行和测试，不依赖任何外部服务；相似度使用余弦相似度。
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]*memoryEntry
	dimension   int
}

type memoryEntry struct {
	doc    *schema.Document
	vector []float32
}

// NewMemoryStore 创建内存向量存储实例
func NewMemoryStore(config *VectorStoreConfig) (*MemoryStore, error) {
	dim := 0
	if config != nil {
		dim = config.Dimension
	}
	return &MemoryStore{
		collections: make(map[string][]*memoryEntry),
		dimension:   dim,
	}, nil
}

// EnsureCollection 创建集合（如果不存在）
func (m *MemoryStore) EnsureCollection(ctx context.Context, collectionName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[collectionName]; !ok {
		m.collections[collectionName] = []*memoryEntry{}
	}
	return nil
}

// Insert 插入文档片段及其向量
func (m *MemoryStore) Insert(ctx context.Context, collectionName string, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, len(chunks))
	entries := m.collections[collectionName]
	for idx, chunk := range chunks {
		if len(chunk.ID) == 0 {
			chunk.ID = uuid.New().String()
		}
		ids[idx] = chunk.ID

		// 拷贝向量，避免调用方后续修改
		vec := make([]float32, len(vectors[idx]))
		copy(vec, vectors[idx])

		entries = append(entries, &memoryEntry{doc: chunk, vector: vec})
	}
	m.collections[collectionName] = entries
	return ids, nil
}

// Search 余弦相似度近邻检索，按相似度降序返回
func (m *MemoryStore) Search(ctx context.Context, collectionName string, vector []float32, topK int) ([]*schema.Document, error) {
	if topK < 1 {
		return nil, fmt.Errorf("topK must be >= 1, got %d", topK)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.collections[collectionName]
	if len(entries) == 0 {
		return []*schema.Document{}, nil
	}

	type scoredEntry struct {
		doc   *schema.Document
		score float32
	}
	scored := make([]scoredEntry, 0, len(entries))
	for _, e := range entries {
		scored = append(scored, scoredEntry{doc: e.doc, score: cosineSimilarity(vector, e.vector)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	result := make([]*schema.Document, len(scored))
	for i, s := range scored {
		// 返回副本，Score 只对本次检索有意义
		docCopy := *s.doc
		docCopy.Score = s.score
		result[i] = &docCopy
	}
	return result, nil
}

// Count 返回集合中的片段数量
func (m *MemoryStore) Count(ctx context.Context, collectionName string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.collections[collectionName])), nil
}

// Name 返回后端标识
func (m *MemoryStore) Name() string {
	return "memory"
}

// Close 释放资源（内存实现无操作）
func (m *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// cosineSimilarity 计算两个向量的余弦相似度，维度不匹配或零向量返回0
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
