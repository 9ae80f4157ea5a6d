package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/mindmate-ai/mindmate/internal/logic/assembler"
	"github.com/mindmate-ai/mindmate/internal/logic/classifier"
	"github.com/mindmate-ai/mindmate/internal/logic/generator"
	"github.com/mindmate-ai/mindmate/internal/logic/knowledge"
	"github.com/mindmate-ai/mindmate/internal/logic/session"
	"github.com/mindmate-ai/mindmate/pkg/schema"
)

// emptyInputResponse 空消息的固定回复，不经过分类和生成
const emptyInputResponse = "Please type something to chat with me."

// panicResponse 管道内部异常时的兜底回复
const panicResponse = "I'm sorry, something went wrong on my side. Please try sending your message again."

// ProcessResult 一轮对话的处理结果
type ProcessResult struct {
	Response       string
	SessionID      string
	IsMentalHealth bool
	// ResponseTime 处理耗时，单位秒
	ResponseTime float64
	Timestamp    time.Time
}

// Stats 引擎统计
type Stats struct {
	ActiveSessions int
	TotalMessages  int
	DocumentCount  int64
	VectorStore    string
	Model          string
}

// Engine 对话处理管道。串联分类、检索、拼装和生成，
// 同一会话内的处理串行化，不同会话可以并发。
type Engine struct {
	classifier classifier.Classifier
	knowledge  *knowledge.Store
	assembler  *assembler.Assembler
	generator  *generator.Generator
	sessions   *session.Store
	modelName  string

	// locks 每会话一把锁，保证同一会话的读历史和写回不交叠
	locks sync.Map
}

type Config struct {
	Classifier      classifier.Classifier
	Knowledge       *knowledge.Store
	Generator       *generator.Generator
	Sessions        *session.Store
	MaxHistoryTurns int
	MaxPromptChars  int
	ModelName       string
}

func NewEngine(cfg *Config) *Engine {
	return &Engine{
		classifier: cfg.Classifier,
		knowledge:  cfg.Knowledge,
		assembler:  assembler.New(cfg.MaxHistoryTurns, cfg.MaxPromptChars),
		generator:  cfg.Generator,
		sessions:   cfg.Sessions,
		modelName:  cfg.ModelName,
	}
}

// Process 处理一条用户消息并返回回复。
// sessionID为空或不存在时自动创建新会话。任何内部panic都被兜住，
// 调用方总能拿到一个可展示的回复。
func (e *Engine) Process(ctx context.Context, sessionID, message string) (result *ProcessResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			g.Log().Errorf(ctx, "Pipeline panic recovered: %v", r)
			result = &ProcessResult{
				Response:     panicResponse,
				SessionID:    sessionID,
				ResponseTime: time.Since(start).Seconds(),
				Timestamp:    time.Now(),
			}
		}
	}()

	sess, created := e.sessions.GetOrCreate(sessionID)
	sessionID = sess.ID
	if created {
		g.Log().Infof(ctx, "Created new session %s", sessionID)
	}

	// 空消息直接返回固定提示，不进入分类和生成
	if strings.TrimSpace(message) == "" {
		return &ProcessResult{
			Response:     emptyInputResponse,
			SessionID:    sessionID,
			ResponseTime: time.Since(start).Seconds(),
			Timestamp:    time.Now(),
		}
	}

	unlock := e.lockSession(sessionID)
	defer unlock()

	// 历史要在写入本轮消息之前取，当前消息单独出现在查询位置
	history, err := e.sessions.History(sessionID, 0)
	if err != nil {
		// 会话可能在取锁间隙被删除，重建一个
		sess, _ = e.sessions.GetOrCreate(sessionID)
		sessionID = sess.ID
		history = nil
	}

	cls := e.classifier.Classify(message)

	var snippets []*knowledge.Snippet
	if cls.IsMentalHealth {
		snippets = e.knowledge.Retrieve(ctx, message, 0)
	}

	prompt := e.assembler.Build(history, snippets, message)
	genResult := e.generator.Generate(ctx, prompt, cls)

	if genResult.Degraded {
		g.Log().Warningf(ctx, "Generation degraded for session %s, latency=%s", sessionID, genResult.Latency)
	}

	// 两条消息都成功生成后再入库，保证历史里成对出现
	if _, err := e.sessions.Append(sessionID, schema.User, message); err != nil {
		g.Log().Errorf(ctx, "Failed to append user turn: %v", err)
	}
	if _, err := e.sessions.Append(sessionID, schema.Assistant, genResult.Response); err != nil {
		g.Log().Errorf(ctx, "Failed to append assistant turn: %v", err)
	}

	return &ProcessResult{
		Response:       genResult.Response,
		SessionID:      sessionID,
		IsMentalHealth: cls.IsMentalHealth,
		ResponseTime:   time.Since(start).Seconds(),
		Timestamp:      time.Now(),
	}
}

// IngestKnowledge 入库一批文档
func (e *Engine) IngestKnowledge(ctx context.Context, docs []*schema.Document) (int, error) {
	return e.knowledge.Ingest(ctx, docs)
}

// GetStats 返回引擎统计信息
func (e *Engine) GetStats(ctx context.Context) (*Stats, error) {
	kbStats, err := e.knowledge.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	sessions, messages := e.sessions.Count()
	return &Stats{
		ActiveSessions: sessions,
		TotalMessages:  messages,
		DocumentCount:  kbStats.DocumentCount,
		VectorStore:    kbStats.BackingStore,
		Model:          e.modelName,
	}, nil
}

// ListSessions 列出全部会话概要
func (e *Engine) ListSessions() []*session.Summary {
	return e.sessions.List()
}

// GetSession 获取会话详情
func (e *Engine) GetSession(id string) (*session.Session, error) {
	return e.sessions.Get(id)
}

// DeleteSession 删除会话
func (e *Engine) DeleteSession(id string) error {
	return e.sessions.Delete(id)
}

// ExportSession 导出会话到文件
func (e *Engine) ExportSession(ctx context.Context, id string) (string, error) {
	return e.sessions.Export(ctx, id)
}

// Sessions 暴露底层会话存储，CLI会话需要直接操作
func (e *Engine) Sessions() *session.Store {
	return e.sessions
}

func (e *Engine) lockSession(id string) func() {
	actual, _ := e.locks.LoadOrStore(id, &sync.Mutex{})
	mu := actual.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
