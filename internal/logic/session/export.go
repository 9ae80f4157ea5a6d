package session

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/mindmate-ai/mindmate/core/errors"
	"github.com/mindmate-ai/mindmate/core/file_store"
)

// exportDocument 导出文件的顶层结构
type exportDocument struct {
	SessionID string          `json:"session_id"`
	CreatedAt string          `json:"created_at"`
	Messages  []exportMessage `json:"messages"`
}

type exportMessage struct {
	Role      string `json:"role"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	SessionID string `json:"session_id"`
}

// Export 导出会话历史为JSON文件，返回文件路径或对象键
func (s *Store) Export(ctx context.Context, id string) (string, error) {
	sess, err := s.Get(id)
	if err != nil {
		return "", err
	}

	doc := exportDocument{
		SessionID: sess.ID,
		CreatedAt: sess.CreatedAt.Format(time.RFC3339),
		Messages:  make([]exportMessage, 0, len(sess.Turns)),
	}
	for _, turn := range sess.Turns {
		doc.Messages = append(doc.Messages, exportMessage{
			Role:      string(turn.Role),
			Message:   turn.Message,
			Timestamp: turn.Timestamp.Format(time.RFC3339),
			SessionID: turn.SessionID,
		})
	}

	data, err := sonic.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.Newf(errors.ErrExportFailed, "failed to marshal session: %v", err)
	}

	fileName := fmt.Sprintf("conversation_%s.json", s.now().Format("20060102_150405"))
	return file_store.SaveExport(ctx, fileName, data)
}
