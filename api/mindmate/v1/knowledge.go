package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// KnowledgeDocument 待入库的知识文档
type KnowledgeDocument struct {
	Text    string `v:"required" json:"text" dc:"document text"`
	Source  string `json:"source" dc:"document source, e.g. APA, NIMH"`
	DocType string `json:"doc_type" dc:"document type, e.g. coping_strategy, crisis_resource"`
}

type KnowledgeAddReq struct {
	g.Meta    `path:"/v1/knowledge" method:"post" tags:"knowledge" summary:"Add documents to the knowledge base"`
	Documents []*KnowledgeDocument `v:"required" json:"documents" dc:"documents to ingest"`
}

type KnowledgeAddRes struct {
	Added int `json:"added" dc:"number of documents successfully ingested"`
}

type StatsReq struct {
	g.Meta `path:"/v1/stats" method:"get" tags:"stats" summary:"Engine statistics"`
}

type StatsRes struct {
	ActiveSessions int    `json:"active_sessions" dc:"number of active sessions"`
	TotalMessages  int    `json:"total_messages" dc:"total messages across sessions"`
	DocumentCount  int64  `json:"document_count" dc:"number of knowledge chunks"`
	VectorStore    string `json:"vector_store" dc:"backing vector store"`
	Model          string `json:"model" dc:"configured chat model"`
}
