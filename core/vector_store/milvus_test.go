package vector_store

import (
	"testing"

	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/stretchr/testify/assert"
)

// TestMilvusScoreNormalization 各度量类型的分数统一为越大越相关
func TestMilvusScoreNormalization(t *testing.T) {
	t.Run("L2距离转为降序相似度", func(t *testing.T) {
		store := &MilvusStore{metricType: entity.L2}

		near := store.normalizeScore(0.1)
		far := store.normalizeScore(9.0)

		// 距离小的文档得到更高的分数
		assert.Greater(t, near, far)
		assert.InDelta(t, 1.0, store.normalizeScore(0), 1e-6)
		assert.Greater(t, far, float32(0))
	})

	t.Run("COSINE保持原样", func(t *testing.T) {
		store := &MilvusStore{metricType: entity.COSINE}
		assert.Equal(t, float32(0.87), store.normalizeScore(0.87))
	})

	t.Run("IP保持原样", func(t *testing.T) {
		store := &MilvusStore{metricType: entity.IP}
		assert.Equal(t, float32(12.5), store.normalizeScore(12.5))
	})
}
