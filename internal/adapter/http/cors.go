package httpadapter

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const corsAllowMethods = "GET,POST,OPTIONS"
const corsAllowHeaders = "Content-Type,X-User-ID,X-User-Key"
const corsAnyOrigin = "*"

// applyCORSHeaders echoes the request origin when it is on the allow list.
// An empty list allows any origin.
func applyCORSHeaders(ctx *app.RequestContext, allowed []string) {
	origin := corsAnyOrigin
	if len(allowed) > 0 {
		reqOrigin := string(ctx.Request.Header.Peek("Origin"))
		origin = ""
		for _, o := range allowed {
			if o == corsAnyOrigin || strings.EqualFold(o, reqOrigin) {
				origin = o
				if o != corsAnyOrigin {
					origin = reqOrigin
				}
				break
			}
		}
		if origin == "" {
			return
		}
		ctx.Response.Header.Set("Vary", "Origin")
	}
	ctx.Response.Header.Set("Access-Control-Allow-Origin", origin)
	ctx.Response.Header.Set("Access-Control-Allow-Methods", corsAllowMethods)
	ctx.Response.Header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	ctx.Response.Header.Set("Access-Control-Max-Age", "600")
}

func corsMiddleware(allowed []string) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		applyCORSHeaders(ctx, allowed)
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}
