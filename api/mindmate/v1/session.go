package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// SessionSummary 会话概要
type SessionSummary struct {
	SessionID    string `json:"session_id" dc:"session id"`
	CreatedAt    string `json:"created_at" dc:"creation time, RFC3339"`
	LastActiveAt string `json:"last_active_at" dc:"last activity time, RFC3339"`
	MessageCount int    `json:"message_count" dc:"number of messages"`
}

// MessageItem 会话中的一条消息
type MessageItem struct {
	Role      string `json:"role" dc:"message role: user or assistant"`
	Message   string `json:"message" dc:"message content"`
	Timestamp string `json:"timestamp" dc:"message time, RFC3339"`
	SessionID string `json:"session_id" dc:"owning session id"`
}

type SessionListReq struct {
	g.Meta `path:"/v1/sessions" method:"get" tags:"session" summary:"List active sessions"`
}

type SessionListRes struct {
	Sessions []*SessionSummary `json:"sessions" dc:"session list"`
	Total    int               `json:"total" dc:"number of sessions"`
}

type SessionGetReq struct {
	g.Meta `path:"/v1/sessions/{session_id}" method:"get" tags:"session" summary:"Get session history"`
	SessionID string `v:"required" json:"session_id" dc:"session id"`
}

type SessionGetRes struct {
	SessionID string         `json:"session_id" dc:"session id"`
	CreatedAt string         `json:"created_at" dc:"creation time, RFC3339"`
	Messages  []*MessageItem `json:"messages" dc:"conversation history"`
}

type SessionDeleteReq struct {
	g.Meta    `path:"/v1/sessions/{session_id}" method:"delete" tags:"session" summary:"Delete a session"`
	SessionID string `v:"required" json:"session_id" dc:"session id"`
}

type SessionDeleteRes struct {
	Deleted bool `json:"deleted" dc:"whether the session was deleted"`
}

type SessionExportReq struct {
	g.Meta    `path:"/v1/sessions/{session_id}/export" method:"post" tags:"session" summary:"Export session history to a JSON file"`
	SessionID string `v:"required" json:"session_id" dc:"session id"`
}

type SessionExportRes struct {
	Location string `json:"location" dc:"export file path or object key"`
}
