package vector_store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/google/uuid"
	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/mindmate-ai/mindmate/pkg/schema"
)

// MilvusStore Milvus向量数据库实现
type MilvusStore struct {
	client     *milvusclient.Client
	database   string
	dimension  int
	metricType entity.MetricType
}

// InitializeMilvusStore 根据配置文件初始化Milvus向量存储
func InitializeMilvusStore(ctx context.Context) (VectorStore, error) {
	address := g.Cfg().MustGet(ctx, "milvus.address", "").String()
	if address == "" {
		return nil, fmt.Errorf("milvus.address is required")
	}

	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address:  address,
		Username: g.Cfg().MustGet(ctx, "milvus.username", "").String(),
		Password: g.Cfg().MustGet(ctx, "milvus.password", "").String(),
		DBName:   g.Cfg().MustGet(ctx, "milvus.database", "default").String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client: %w", err)
	}

	return NewMilvusStore(&VectorStoreConfig{
		Type:       VectorStoreTypeMilvus,
		Client:     client,
		Database:   g.Cfg().MustGet(ctx, "milvus.database", "default").String(),
		Dimension:  g.Cfg().MustGet(ctx, "embedding.dimension", 1024).Int(),
		MetricType: g.Cfg().MustGet(ctx, "vectordb.metricType", "COSINE").String(),
	})
}

// NewMilvusStore 创建Milvus向量存储实例
func NewMilvusStore(config *VectorStoreConfig) (VectorStore, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	client, ok := config.Client.(*milvusclient.Client)
	if !ok {
		return nil, fmt.Errorf("client must be *milvusclient.Client")
	}
	if config.Dimension <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", config.Dimension)
	}

	metricType := entity.COSINE
	switch config.MetricType {
	case "L2":
		metricType = entity.L2
	case "IP":
		metricType = entity.IP
	}

	return &MilvusStore{
		client:     client,
		database:   config.Database,
		dimension:  config.Dimension,
		metricType: metricType,
	}, nil
}

// collectionFields 知识片段集合的标准字段定义
func (m *MilvusStore) collectionFields() []*entity.Field {
	dimStr := fmt.Sprintf("%d", m.dimension)
	return []*entity.Field{
		{
			Name:        "id",
			DataType:    entity.FieldTypeVarChar,
			TypeParams:  map[string]string{"max_length": "256"},
			PrimaryKey:  true,
			AutoID:      false,
			Description: "Chunk unique ID (primary key)",
		},
		{
			Name:        "text",
			DataType:    entity.FieldTypeVarChar,
			TypeParams:  map[string]string{"max_length": "65535"},
			Description: "Knowledge chunk content",
		},
		{
			Name:        "vector",
			DataType:    entity.FieldTypeFloatVector,
			TypeParams:  map[string]string{"dim": dimStr},
			Description: "Knowledge chunk embedding vector",
		},
		{
			Name:        "metadata",
			DataType:    entity.FieldTypeJSON,
			Description: "Additional metadata (JSON)",
		},
	}
}

// EnsureCollection 创建集合（如果不存在），并构建向量索引
func (m *MilvusStore) EnsureCollection(ctx context.Context, collectionName string) error {
	has, err := m.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(collectionName))
	if err != nil {
		return fmt.Errorf("failed to check milvus collection: %w", err)
	}
	if has {
		return nil
	}

	collSchema := &entity.Schema{
		CollectionName: collectionName,
		Description:    "存储知识片段及其向量",
		AutoID:         false,
		Fields:         m.collectionFields(),
	}

	err = m.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(collectionName, collSchema).WithIndexOptions(
		milvusclient.NewCreateIndexOption(collectionName, "vector", index.NewHNSWIndex(m.metricType, 64, 128))))
	if err != nil {
		return fmt.Errorf("failed to create milvus collection: %w", err)
	}

	// Load collection into memory
	_, err = m.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(collectionName))
	if err != nil {
		return fmt.Errorf("failed to load milvus collection: %w", err)
	}

	g.Log().Infof(ctx, "Collection '%s' created with dimension %d, index built and loaded", collectionName, m.dimension)
	return nil
}

// Insert 插入文档片段及其向量
func (m *MilvusStore) Insert(ctx context.Context, collectionName string, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}

	ids := make([]string, len(chunks))
	texts := make([]string, len(chunks))
	metadataList := make([][]byte, len(chunks))

	for idx, chunk := range chunks {
		if len(chunk.ID) == 0 {
			chunk.ID = uuid.New().String()
		}
		ids[idx] = chunk.ID
		texts[idx] = truncateString(chunk.Content, 65535)

		metaBytes, err := json.Marshal(chunk.MetaData)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataList[idx] = metaBytes
	}

	columns := []column.Column{
		column.NewColumnVarChar("id", ids),
		column.NewColumnVarChar("text", texts),
		column.NewColumnFloatVector("vector", m.dimension, vectors),
		column.NewColumnJSONBytes("metadata", metadataList),
	}

	insertOpt := milvusclient.NewColumnBasedInsertOption(collectionName, columns...)
	result, err := m.client.Insert(ctx, insertOpt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert vectors: %w", err)
	}

	g.Log().Infof(ctx, "Successfully inserted %d vectors into collection '%s'", result.InsertCount, collectionName)
	return ids, nil
}

// Search 向量近邻检索
func (m *MilvusStore) Search(ctx context.Context, collectionName string, vector []float32, topK int) ([]*schema.Document, error) {
	if topK < 1 {
		return nil, fmt.Errorf("topK must be >= 1, got %d", topK)
	}

	searchOpt := milvusclient.NewSearchOption(collectionName, topK, []entity.Vector{entity.FloatVector(vector)}).
		WithANNSField("vector").
		WithOutputFields("id", "text", "metadata").
		WithConsistencyLevel(entity.ClBounded)

	results, err := m.client.Search(ctx, searchOpt)
	if err != nil {
		return nil, fmt.Errorf("milvus search has error: %w", err)
	}
	if len(results) == 0 {
		return []*schema.Document{}, nil
	}

	docs, err := convertResultsToDocuments(results[0].Fields, results[0].Scores)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		doc.Score = m.normalizeScore(doc.Score)
	}
	return docs, nil
}

// normalizeScore 将milvus返回的度量值统一为越大越相关的相似度。
// L2 距离越小越相关，映射到 (0,1]；COSINE 和 IP 本身就是越大越相关。
func (m *MilvusStore) normalizeScore(score float32) float32 {
	if m.metricType == entity.L2 {
		return 1 / (1 + score)
	}
	return score
}

// Count 返回集合中的片段数量
func (m *MilvusStore) Count(ctx context.Context, collectionName string) (int64, error) {
	rs, err := m.client.Query(ctx, milvusclient.NewQueryOption(collectionName).
		WithOutputFields("count(*)").
		WithConsistencyLevel(entity.ClStrong))
	if err != nil {
		return 0, fmt.Errorf("failed to count collection '%s': %w", collectionName, err)
	}

	col := rs.GetColumn("count(*)")
	if col == nil || col.Len() == 0 {
		return 0, nil
	}
	return col.GetAsInt64(0)
}

// Name 返回后端标识
func (m *MilvusStore) Name() string {
	return "milvus"
}

// Close 关闭milvus连接
func (m *MilvusStore) Close(ctx context.Context) error {
	return m.client.Close(ctx)
}

// convertResultsToDocuments 转换搜索结果为文档
func convertResultsToDocuments(columns []column.Column, scores []float32) ([]*schema.Document, error) {
	if len(columns) == 0 {
		return []*schema.Document{}, nil
	}

	numDocs := columns[0].Len()
	result := make([]*schema.Document, numDocs)
	for i := range result {
		result[i] = &schema.Document{
			MetaData: make(map[string]interface{}),
		}
	}

	for i := 0; i < numDocs && i < len(scores); i++ {
		result[i].Score = scores[i]
	}

	for _, col := range columns {
		switch col.Name() {
		case "id":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					return nil, fmt.Errorf("failed to get id: %w", err)
				}
				if str, ok := val.(string); ok {
					result[i].ID = str
				}
			}
		case "text":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					return nil, fmt.Errorf("failed to get text: %w", err)
				}
				if str, ok := val.(string); ok {
					result[i].Content = str
				}
			}
		case "metadata":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil || val == nil {
					continue
				}

				var metadata map[string]interface{}
				switch v := val.(type) {
				case string:
					_ = json.Unmarshal([]byte(v), &metadata)
				case []byte:
					_ = json.Unmarshal(v, &metadata)
				}
				for k, mv := range metadata {
					result[i].MetaData[k] = mv
				}
			}
		}
	}

	return result, nil
}

// truncateString 截断字符串到指定长度
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
