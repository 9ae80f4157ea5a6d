package knowledge

import (
	"context"

	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/recursive"
	"github.com/cloudwego/eino/components/document"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/mindmate-ai/mindmate/core/common"
	"github.com/mindmate-ai/mindmate/core/errors"
	"github.com/mindmate-ai/mindmate/core/vector_store"
	"github.com/mindmate-ai/mindmate/pkg/schema"
)

// Snippet 检索出的知识片段，Rank从1开始
type Snippet struct {
	*schema.Document
	Rank int
}

// Stats 知识库统计信息
type Stats struct {
	DocumentCount int64
	BackingStore  string
}

// Store 知识库。负责文档分片、向量化入库和相似度检索。
type Store struct {
	vs         vector_store.VectorStore
	embedder   common.Embedder
	splitter   document.Transformer
	collection string
	topK       int
	threshold  float32
}

type Config struct {
	VectorStore    vector_store.VectorStore
	Embedder       common.Embedder
	Collection     string
	TopK           int
	ScoreThreshold float32
	ChunkSize      int
	ChunkOverlap   int
}

// NewStore 创建知识库并确保底层集合存在
func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg.VectorStore == nil {
		return nil, errors.New(errors.ErrVectorStoreInit, "vector store is required")
	}
	if cfg.Embedder == nil {
		return nil, errors.New(errors.ErrModelNotConfigured, "embedder is required")
	}
	if cfg.Collection == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "collection name is required")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 800
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 0
	}

	// 递归分割
	splitter, err := recursive.NewSplitter(ctx, &recursive.Config{
		ChunkSize:   cfg.ChunkSize,
		OverlapSize: cfg.ChunkOverlap,
		Separators:  []string{"\n\n", "\n", ". ", "。"},
	})
	if err != nil {
		return nil, errors.Newf(errors.ErrIngestionFailed, "failed to create splitter: %v", err)
	}

	if err := cfg.VectorStore.EnsureCollection(ctx, cfg.Collection); err != nil {
		return nil, errors.Newf(errors.ErrVectorStoreInit, "failed to ensure collection %s: %v", cfg.Collection, err)
	}

	return &Store{
		vs:         cfg.VectorStore,
		embedder:   cfg.Embedder,
		splitter:   splitter,
		collection: cfg.Collection,
		topK:       cfg.TopK,
		threshold:  cfg.ScoreThreshold,
	}, nil
}

// Ingest 入库一批文档。单个文档失败只记录日志并跳过，返回成功入库的文档数。
func (s *Store) Ingest(ctx context.Context, docs []*schema.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	added := 0
	for _, doc := range docs {
		if doc == nil || doc.Content == "" {
			continue
		}
		if err := s.ingestOne(ctx, doc); err != nil {
			g.Log().Warningf(ctx, "Failed to ingest document from %q: %v", doc.Source(), err)
			continue
		}
		added++
	}

	if added == 0 && len(docs) > 0 {
		return 0, errors.Newf(errors.ErrIngestionFailed, "all %d documents failed to ingest", len(docs))
	}
	return added, nil
}

func (s *Store) ingestOne(ctx context.Context, doc *schema.Document) error {
	// 长文档先递归分片
	pieces, err := s.splitter.Transform(ctx, []*einoschema.Document{{
		ID:       doc.ID,
		Content:  doc.Content,
		MetaData: doc.MetaData,
	}})
	if err != nil {
		return errors.Newf(errors.ErrIngestionFailed, "failed to split document: %v", err)
	}
	if len(pieces) == 0 {
		return nil
	}

	chunks := make([]*schema.Document, 0, len(pieces))
	texts := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		meta := make(map[string]interface{}, len(doc.MetaData))
		for k, v := range doc.MetaData {
			meta[k] = v
		}
		chunks = append(chunks, &schema.Document{
			Content:  piece.Content,
			MetaData: meta,
		})
		texts = append(texts, piece.Content)
	}

	vectors, err := s.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return err
	}

	if _, err = s.vs.Insert(ctx, s.collection, chunks, vectors); err != nil {
		return err
	}
	return nil
}

// Retrieve 按查询文本做相似度检索，topK<=0 时使用配置的默认值。
// 检索失败记录日志并返回空结果，调用方可以在无知识的情况下继续生成。
func (s *Store) Retrieve(ctx context.Context, query string, topK int) []*Snippet {
	if query == "" {
		return []*Snippet{}
	}
	if topK <= 0 {
		topK = s.topK
	}

	vectors, err := s.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		g.Log().Warningf(ctx, "Failed to embed query, proceeding without knowledge: %v", err)
		return []*Snippet{}
	}
	if len(vectors) == 0 {
		return []*Snippet{}
	}

	docs, err := s.vs.Search(ctx, s.collection, vectors[0], topK)
	if err != nil {
		g.Log().Warningf(ctx, "Vector search failed, proceeding without knowledge: %v", err)
		return []*Snippet{}
	}

	snippets := make([]*Snippet, 0, len(docs))
	for _, doc := range docs {
		if s.threshold > 0 && doc.Score < s.threshold {
			continue
		}
		snippets = append(snippets, &Snippet{
			Document: doc,
			Rank:     len(snippets) + 1,
		})
	}
	return snippets
}

// GetStats 返回知识库统计信息
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	count, err := s.vs.Count(ctx, s.collection)
	if err != nil {
		return nil, errors.Newf(errors.ErrRetrievalFailed, "failed to count collection: %v", err)
	}
	return &Stats{
		DocumentCount: count,
		BackingStore:  s.vs.Name(),
	}, nil
}

// Collection 返回集合名
func (s *Store) Collection() string {
	return s.collection
}
