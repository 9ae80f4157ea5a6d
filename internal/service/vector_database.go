package service

import (
	"context"
	"sync"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/gctx"
	"github.com/mindmate-ai/mindmate/core/errors"
	"github.com/mindmate-ai/mindmate/core/vector_store"
)

var (
	once         sync.Once
	vectorClient vector_store.VectorStore
	initError    error
)

// GetVectorStore returns the singleton vector database client
func GetVectorStore() (vector_store.VectorStore, error) {
	once.Do(func() {
		ctx := gctx.New()
		vectorClient, initError = initializeVectorStore(ctx)
	})
	return vectorClient, initError
}

// initializeVectorStore determines which client to use based on configuration
func initializeVectorStore(ctx context.Context) (vector_store.VectorStore, error) {
	dbType := g.Cfg().MustGet(ctx, "vectordb.type", "memory").String()

	g.Log().Infof(ctx, "Initializing vector store with type: %s", dbType)

	switch dbType {
	case "memory":
		store, err := vector_store.NewMemoryStore(&vector_store.VectorStoreConfig{
			Type:      vector_store.VectorStoreTypeMemory,
			Dimension: g.Cfg().MustGet(ctx, "embedding.dimension", 1024).Int(),
		})
		if err != nil {
			return nil, errors.Newf(errors.ErrVectorStoreInit, "failed to initialize memory vector store: %v", err)
		}
		g.Log().Info(ctx, "Memory vector store initialized successfully")
		return store, nil
	case "milvus":
		store, err := vector_store.InitializeMilvusStore(ctx)
		if err != nil {
			return nil, errors.Newf(errors.ErrVectorStoreInit, "failed to initialize Milvus vector store: %v", err)
		}
		g.Log().Info(ctx, "Milvus vector store initialized successfully")
		return store, nil
	case "postgres":
		store, err := vector_store.InitializePostgresStore(ctx)
		if err != nil {
			return nil, errors.Newf(errors.ErrVectorStoreInit, "failed to initialize PostgreSQL vector store: %v", err)
		}
		g.Log().Info(ctx, "PostgreSQL vector store initialized successfully")
		return store, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidParameter, "unsupported vector database type: %s. Supported types: memory, milvus, postgres", dbType)
	}
}
