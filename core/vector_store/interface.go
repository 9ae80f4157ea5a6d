package vector_store

import (
	"context"

	"github.com/mindmate-ai/mindmate/pkg/schema"
)

// VectorStoreType 向量数据库类型
type VectorStoreType string

const (
	VectorStoreTypeMemory     VectorStoreType = "memory"
	VectorStoreTypeMilvus     VectorStoreType = "milvus"
	VectorStoreTypePostgreSQL VectorStoreType = "postgres"
)

// VectorStoreConfig 向量数据库配置
type VectorStoreConfig struct {
	Type       VectorStoreType // 向量数据库类型
	Client     interface{}     // 客户端实例（milvus: *milvusclient.Client, postgres: *pgxpool.Pool）
	Database   string          // 数据库名称
	Dimension  int             // 向量维度
	MetricType string          // 距离度量类型（如 L2, COSINE, IP）
}

// VectorStore 向量数据库接口。
// 读操作可以并发执行；同一集合的写入由实现串行化。
type VectorStore interface {
	// EnsureCollection 创建集合（如果不存在）
	EnsureCollection(ctx context.Context, collectionName string) error

	// Insert 插入文档片段及其向量，返回片段ID列表
	Insert(ctx context.Context, collectionName string, chunks []*schema.Document, vectors [][]float32) ([]string, error)

	// Search 按查询向量做近邻检索，按相似度降序返回不超过topK条结果。
	// 空集合返回空切片，不报错。
	Search(ctx context.Context, collectionName string, vector []float32, topK int) ([]*schema.Document, error)

	// Count 返回集合中的片段数量
	Count(ctx context.Context, collectionName string) (int64, error)

	// Name 返回后端标识（用于 stats 展示）
	Name() string

	// Close 释放底层连接
	Close(ctx context.Context) error
}
