package mindmate

import (
	"context"
	"time"

	"github.com/gogf/gf/v2/frame/g"
	v1 "github.com/mindmate-ai/mindmate/api/mindmate/v1"
	"github.com/mindmate-ai/mindmate/internal/service"
)

func (c *ControllerV1) Chat(ctx context.Context, req *v1.ChatReq) (res *v1.ChatRes, err error) {
	g.Log().Infof(ctx, "Chat request received - SessionID: %s, Message length: %d", req.SessionID, len(req.Message))

	engine, err := service.GetEngine()
	if err != nil {
		return nil, err
	}

	result := engine.Process(ctx, req.SessionID, req.Message)

	return &v1.ChatRes{
		Response:       result.Response,
		SessionID:      result.SessionID,
		IsMentalHealth: result.IsMentalHealth,
		ResponseTime:   result.ResponseTime,
		Timestamp:      result.Timestamp.Format(time.RFC3339),
	}, nil
}
