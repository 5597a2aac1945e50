package middleware

import (
	"strings"

	"atlas/internal/queue"

	"github.com/gin-gonic/gin"
)

// ActorHeader 由前置认证代理写入
const ActorHeader = "X-Atlas-User"

// ActorMiddleware 把操作人放进请求 context，提交的任务会带上 actor
func ActorMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor := strings.TrimSpace(ctx.GetHeader(ActorHeader))
		if actor == "" {
			actor = "anonymous"
		}
		ctx.Request = ctx.Request.WithContext(queue.ContextWithActor(ctx.Request.Context(), actor))
		ctx.Next()
	}
}
