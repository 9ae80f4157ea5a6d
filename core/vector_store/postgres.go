package vector_store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mindmate-ai/mindmate/pkg/schema"
	"github.com/pgvector/pgvector-go"
)

// PostgresStore PostgreSQL+pgvector向量数据库实现
type PostgresStore struct {
	pool       *pgxpool.Pool
	database   string
	schema     string // 向量数据存储的 schema
	dimension  int
	metricType string
}

// InitializePostgresStore 根据配置文件初始化PostgreSQL向量存储
func InitializePostgresStore(ctx context.Context) (VectorStore, error) {
	host := g.Cfg().MustGet(ctx, "postgres.host", "").String()
	port := g.Cfg().MustGet(ctx, "postgres.port", "5432").String()
	user := g.Cfg().MustGet(ctx, "postgres.user", "").String()
	password := g.Cfg().MustGet(ctx, "postgres.password", "").String()
	database := g.Cfg().MustGet(ctx, "postgres.database", "").String()
	sslMode := g.Cfg().MustGet(ctx, "postgres.sslmode", "disable").String()

	if host == "" || user == "" || database == "" {
		return nil, fmt.Errorf("postgres configuration is incomplete. Required: host, user, database")
	}

	var connStr string
	if password != "" {
		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, database, sslMode)
	} else {
		connStr = fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
			host, port, user, database, sslMode)
	}

	g.Log().Infof(ctx, "Connecting to PostgreSQL at: %s:%s, database: %s", host, port, database)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return NewPostgresStore(&VectorStoreConfig{
		Type:       VectorStoreTypePostgreSQL,
		Client:     pool,
		Database:   database,
		Dimension:  g.Cfg().MustGet(ctx, "embedding.dimension", 1024).Int(),
		MetricType: g.Cfg().MustGet(ctx, "vectordb.metricType", "COSINE").String(),
	})
}

// NewPostgresStore 创建PostgreSQL向量存储实例
func NewPostgresStore(config *VectorStoreConfig) (VectorStore, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	pool, ok := config.Client.(*pgxpool.Pool)
	if !ok {
		return nil, fmt.Errorf("client must be *pgxpool.Pool")
	}
	if config.Database == "" {
		return nil, fmt.Errorf("database name cannot be empty")
	}
	if config.Dimension <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", config.Dimension)
	}

	return &PostgresStore{
		pool:       pool,
		database:   config.Database,
		schema:     "vectors", // 使用独立的 vectors schema
		dimension:  config.Dimension,
		metricType: strings.ToUpper(config.MetricType),
	}, nil
}

// EnsureCollection 创建集合（表）及索引，如果不存在
func (p *PostgresStore) EnsureCollection(ctx context.Context, collectionName string) error {
	// 1. 检查 pgvector 扩展是否已安装
	var extensionExists bool
	err := p.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'vector')").Scan(&extensionExists)
	if err != nil {
		return fmt.Errorf("failed to check pgvector extension: %w", err)
	}
	if !extensionExists {
		if _, err = p.pool.Exec(ctx, "CREATE EXTENSION vector"); err != nil {
			return fmt.Errorf("failed to create pgvector extension: %w. Please ensure pgvector is installed for your PostgreSQL version", err)
		}
		g.Log().Infof(ctx, "pgvector extension created successfully")
	}

	// 2. 创建独立的 vectors schema
	if _, err = p.pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", p.schema)); err != nil {
		return fmt.Errorf("failed to create vectors schema: %w", err)
	}

	// 3. 创建表与索引
	tableName := p.sanitizeTableName(collectionName)
	fullTableName := fmt.Sprintf("%s.%s", p.schema, tableName)

	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) PRIMARY KEY,
			text TEXT NOT NULL,
			vector vector(%d) NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`, fullTableName, p.dimension)
	if _, err = p.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", fullTableName, err)
	}

	indexSQL := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS idx_%s_vector ON %s USING hnsw (vector %s)",
		tableName, fullTableName, p.vectorIndexOps(),
	)
	if _, err = p.pool.Exec(ctx, indexSQL); err != nil {
		return fmt.Errorf("failed to create index on table %s: %w", fullTableName, err)
	}

	g.Log().Infof(ctx, "Table '%s' ready with dimension %d", fullTableName, p.dimension)
	return nil
}

// Insert 插入文档片段及其向量（单事务，串行化写入）
func (p *PostgresStore) Insert(ctx context.Context, collectionName string, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}

	fullTableName := fmt.Sprintf("%s.%s", p.schema, p.sanitizeTableName(collectionName))
	ids := make([]string, len(chunks))

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertSQL := fmt.Sprintf(`
		INSERT INTO %s (id, text, vector, metadata)
		VALUES ($1, $2, $3, $4)
	`, fullTableName)

	for idx, chunk := range chunks {
		if len(chunk.ID) == 0 {
			chunk.ID = uuid.New().String()
		}
		ids[idx] = chunk.ID

		metaBytes, err := json.Marshal(chunk.MetaData)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}

		_, err = tx.Exec(ctx, insertSQL,
			chunk.ID,
			truncateString(chunk.Content, 65535),
			pgvector.NewVector(vectors[idx]),
			metaBytes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert vector for chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	g.Log().Infof(ctx, "Successfully inserted %d vectors into table '%s'", len(chunks), fullTableName)
	return ids, nil
}

// Search 向量近邻检索，按相似度降序返回
func (p *PostgresStore) Search(ctx context.Context, collectionName string, vector []float32, topK int) ([]*schema.Document, error) {
	if topK < 1 {
		return nil, fmt.Errorf("topK must be >= 1, got %d", topK)
	}

	fullTableName := fmt.Sprintf("%s.%s", p.schema, p.sanitizeTableName(collectionName))
	queryVector := pgvector.NewVector(vector)

	// 根据metricType选择pgvector操作符和分数计算方式
	var scoreCalc, orderBy string
	switch p.metricType {
	case "L2":
		// 欧氏距离: 0=相同，归一化到 (0,1]
		scoreCalc = "1 / (1 + (vector <-> $1))"
		orderBy = "vector <-> $1"
	case "IP", "INNER_PRODUCT":
		scoreCalc = "-(vector <#> $1)"
		orderBy = "vector <#> $1"
	default:
		// 余弦距离转换为相似度: 1=相同
		scoreCalc = "1 - (vector <=> $1)"
		orderBy = "vector <=> $1"
	}

	searchSQL := fmt.Sprintf(`
		SELECT id, text, metadata, %s AS similarity_score
		FROM %s
		ORDER BY %s
		LIMIT $2
	`, scoreCalc, fullTableName, orderBy)

	rows, err := p.pool.Query(ctx, searchSQL, queryVector, topK)
	if err != nil {
		return nil, fmt.Errorf("pgvector search has error: %w", err)
	}
	defer rows.Close()

	var result []*schema.Document
	for rows.Next() {
		var (
			id, text  string
			metaBytes []byte
			score     float64
		)
		if err := rows.Scan(&id, &text, &metaBytes, &score); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}

		metadata := make(map[string]interface{})
		if len(metaBytes) > 0 {
			_ = json.Unmarshal(metaBytes, &metadata)
		}

		result = append(result, &schema.Document{
			ID:       id,
			Content:  text,
			MetaData: metadata,
			Score:    float32(score),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search rows: %w", err)
	}
	if result == nil {
		result = []*schema.Document{}
	}
	return result, nil
}

// Count 返回集合中的片段数量
func (p *PostgresStore) Count(ctx context.Context, collectionName string) (int64, error) {
	fullTableName := fmt.Sprintf("%s.%s", p.schema, p.sanitizeTableName(collectionName))

	var count int64
	err := p.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", fullTableName)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count table '%s': %w", fullTableName, err)
	}
	return count, nil
}

// Name 返回后端标识
func (p *PostgresStore) Name() string {
	return "postgres"
}

// Close 关闭连接池
func (p *PostgresStore) Close(ctx context.Context) error {
	p.pool.Close()
	return nil
}

// vectorIndexOps 返回度量类型对应的hnsw索引操作符类
func (p *PostgresStore) vectorIndexOps() string {
	switch p.metricType {
	case "L2":
		return "vector_l2_ops"
	case "IP", "INNER_PRODUCT":
		return "vector_ip_ops"
	default:
		return "vector_cosine_ops"
	}
}

// sanitizeTableName 清理表名，防止SQL注入
func (p *PostgresStore) sanitizeTableName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "knowledge_chunks"
	}
	return b.String()
}
