package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

type HealthReq struct {
	g.Meta `path:"/v1/health" method:"get" tags:"health" summary:"Health check"`
}

type HealthRes struct {
	Status    string `json:"status" dc:"service status"`
	Timestamp string `json:"timestamp" dc:"server time, RFC3339"`
}
