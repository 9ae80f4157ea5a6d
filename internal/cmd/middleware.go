package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/net/ghttp"
	"github.com/google/uuid"
	"github.com/mindmate-ai/mindmate/core/errors"
)

const (
	headerRequestID   = "X-Request-ID"
	headerProcessTime = "X-Process-Time"
)

// MiddlewareRequestLog 为每个请求生成请求ID并记录耗时。
// 请求ID和处理耗时(秒)通过响应头返回给调用方。
func MiddlewareRequestLog(r *ghttp.Request) {
	requestID := r.Header.Get(headerRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	r.Response.Header().Set(headerRequestID, requestID)

	start := time.Now()
	r.Middleware.Next()
	elapsed := time.Since(start)

	r.Response.Header().Set(headerProcessTime, fmt.Sprintf("%.4f", elapsed.Seconds()))
	g.Log().Infof(r.Context(), "request_id=%s %s %s status=%d elapsed=%.4fs",
		requestID, r.Method, r.URL.Path, r.Response.Status, elapsed.Seconds())
}

// MiddlewareHandlerResponse is the default middleware handling handler response object and its error.
// 业务错误(AppError)映射到对应的HTTP状态码和业务错误码。
func MiddlewareHandlerResponse(r *ghttp.Request) {
	r.Middleware.Next()

	// There's custom buffer content, it then exits current handler.
	if r.Response.BufferLength() > 0 || r.Response.Writer.BytesWritten() > 0 {
		return
	}

	var (
		msg  string
		err  = r.GetError()
		res  = r.GetHandlerResponse()
		code gcode.Code = gcode.CodeOK
	)
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil {
			r.Response.WriteHeader(appErr.Code.HTTPStatusCode())
			code = gcode.New(int(appErr.Code), appErr.Message, nil)
			msg = appErr.Message
		} else {
			code = gerror.Code(err)
			if code == gcode.CodeNil {
				code = gcode.CodeInternalError
			}
			r.Response.WriteHeader(http.StatusInternalServerError)
			msg = err.Error()
		}
	} else {
		if r.Response.Status > 0 && r.Response.Status != http.StatusOK {
			switch r.Response.Status {
			case http.StatusNotFound:
				code = gcode.CodeNotFound
			case http.StatusForbidden:
				code = gcode.CodeNotAuthorized
			default:
				code = gcode.CodeUnknown
			}
			// It creates an error as it can be retrieved by other middlewares.
			err = gerror.NewCode(code, msg)
			r.SetError(err)
		}
		msg = code.Message()
	}
	r.Response.WriteJson(ghttp.DefaultHandlerResponse{
		Code:    code.Code(),
		Message: msg,
		Data:    res,
	})
}
