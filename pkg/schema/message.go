package schema

import "time"

// RoleType 消息角色类型
type RoleType string

const (
	System    RoleType = "system"
	User      RoleType = "user"
	Assistant RoleType = "assistant"
)

// ValidRole 判断角色是否合法
func ValidRole(r RoleType) bool {
	switch r {
	case System, User, Assistant:
		return true
	}
	return false
}

// Turn 表示会话中的一条消息，创建后不可变，按创建时间排序
type Turn struct {
	// Role 消息角色：system, user, assistant
	Role RoleType `json:"role"`
	// Message 文本内容
	Message string `json:"message"`
	// Timestamp 创建时间
	Timestamp time.Time `json:"timestamp"`
	// SessionID 所属会话ID
	SessionID string `json:"session_id"`
}
