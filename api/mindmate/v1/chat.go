package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

type ChatReq struct {
	g.Meta    `path:"/v1/chat" method:"post" tags:"chat" summary:"Send a message and get a supportive response"`
	SessionID string `json:"session_id" dc:"session id, a new session is created when empty"`
	Message   string `v:"required" json:"message" dc:"user message"`
}

type ChatRes struct {
	Response       string  `json:"response" dc:"assistant response"`
	SessionID      string  `json:"session_id" dc:"session id"`
	IsMentalHealth bool    `json:"is_mental_health" dc:"whether the message was classified as in-domain"`
	ResponseTime   float64 `json:"response_time" dc:"processing time in seconds"`
	Timestamp      string  `json:"timestamp" dc:"response timestamp, RFC3339"`
}
