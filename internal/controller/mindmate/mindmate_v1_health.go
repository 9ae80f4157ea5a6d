package mindmate

import (
	"context"
	"time"

	v1 "github.com/mindmate-ai/mindmate/api/mindmate/v1"
)

func (c *ControllerV1) Health(ctx context.Context, req *v1.HealthReq) (res *v1.HealthRes, err error) {
	return &v1.HealthRes{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
	}, nil
}
