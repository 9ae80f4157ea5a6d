package mindmate

import (
	"context"
	"time"

	v1 "github.com/mindmate-ai/mindmate/api/mindmate/v1"
	"github.com/mindmate-ai/mindmate/internal/service"
)

func (c *ControllerV1) SessionList(ctx context.Context, req *v1.SessionListReq) (res *v1.SessionListRes, err error) {
	engine, err := service.GetEngine()
	if err != nil {
		return nil, err
	}

	summaries := engine.ListSessions()
	sessions := make([]*v1.SessionSummary, 0, len(summaries))
	for _, s := range summaries {
		sessions = append(sessions, &v1.SessionSummary{
			SessionID:    s.ID,
			CreatedAt:    s.CreatedAt.Format(time.RFC3339),
			LastActiveAt: s.LastActiveAt.Format(time.RFC3339),
			MessageCount: s.MessageCount,
		})
	}

	return &v1.SessionListRes{
		Sessions: sessions,
		Total:    len(sessions),
	}, nil
}

func (c *ControllerV1) SessionGet(ctx context.Context, req *v1.SessionGetReq) (res *v1.SessionGetRes, err error) {
	engine, err := service.GetEngine()
	if err != nil {
		return nil, err
	}

	sess, err := engine.GetSession(req.SessionID)
	if err != nil {
		return nil, err
	}

	messages := make([]*v1.MessageItem, 0, len(sess.Turns))
	for _, turn := range sess.Turns {
		messages = append(messages, &v1.MessageItem{
			Role:      string(turn.Role),
			Message:   turn.Message,
			Timestamp: turn.Timestamp.Format(time.RFC3339),
			SessionID: turn.SessionID,
		})
	}

	return &v1.SessionGetRes{
		SessionID: sess.ID,
		CreatedAt: sess.CreatedAt.Format(time.RFC3339),
		Messages:  messages,
	}, nil
}

func (c *ControllerV1) SessionDelete(ctx context.Context, req *v1.SessionDeleteReq) (res *v1.SessionDeleteRes, err error) {
	engine, err := service.GetEngine()
	if err != nil {
		return nil, err
	}

	if err := engine.DeleteSession(req.SessionID); err != nil {
		return nil, err
	}
	return &v1.SessionDeleteRes{Deleted: true}, nil
}

func (c *ControllerV1) SessionExport(ctx context.Context, req *v1.SessionExportReq) (res *v1.SessionExportRes, err error) {
	engine, err := service.GetEngine()
	if err != nil {
		return nil, err
	}

	location, err := engine.ExportSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	return &v1.SessionExportRes{Location: location}, nil
}
