package cmd

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/net/ghttp"
	"github.com/gogf/gf/v2/os/gcmd"
	"github.com/mindmate-ai/mindmate/internal/controller/mindmate"
)

var (
	Main = gcmd.Command{
		Name:  "main",
		Usage: "main",
		Brief: "start mindmate http server",
		Func: func(ctx context.Context, parser *gcmd.Parser) (err error) {
			initComponents(ctx)

			s := g.Server()
			s.Group("/api", func(group *ghttp.RouterGroup) {
				group.Middleware(MiddlewareRequestLog, MiddlewareHandlerResponse, ghttp.MiddlewareCORS)
				group.Bind(
					mindmate.NewV1(),
				)
			})
			s.Run()
			return nil
		},
	}

	Chat = gcmd.Command{
		Name:  "chat",
		Usage: "chat",
		Brief: "start interactive support session in the terminal",
		Func: func(ctx context.Context, parser *gcmd.Parser) (err error) {
			initComponents(ctx)
			return runREPL(ctx)
		},
	}
)

func init() {
	if err := Main.AddCommand(&Chat); err != nil {
		panic(err)
	}
}
