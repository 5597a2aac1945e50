package middleware

import (
	"bytes"
	"io"
	"time"

	"atlas/pkg/log"

	"github.com/duke-git/lancet/v2/cryptor"
	"github.com/duke-git/lancet/v2/random"
	"github.com/gin-gonic/gin"

	"go.uber.org/zap"
)

const maxLogBody = 4096

func RequestLogMiddleware(logger *log.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		uuid, err := random.UUIdV4()
		if err != nil {
			return
		}
		trace := cryptor.Md5String(uuid)
		logger.WithValue(ctx, zap.String("trace", trace))
		logger.WithValue(ctx, zap.String("request_method", ctx.Request.Method))
		logger.WithValue(ctx, zap.String("request_url", ctx.Request.URL.String()))
		if actor := ctx.GetHeader(ActorHeader); actor != "" {
			logger.WithValue(ctx, zap.String("actor", actor))
		}

		if ctx.Request.Body != nil {
			bodyBytes, _ := ctx.GetRawData()
			// 还原 Body，后续 handler 依然可以读取
			ctx.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			logBody := bodyBytes
			if len(logBody) > maxLogBody {
				logBody = logBody[:maxLogBody]
			}
			logger.WithValue(ctx, zap.String("request_params", string(logBody)))
		}
		logger.WithContext(ctx).Info("Request")
		ctx.Next()
	}
}

func ResponseLogMiddleware(logger *log.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		// outcome 推送走 WebSocket，不包装 ResponseWriter
		if ctx.GetHeader("Upgrade") == "websocket" {
			startTime := time.Now()
			ctx.Next()
			logger.WithContext(ctx).Info("Response (WebSocket)", zap.Duration("time", time.Since(startTime)))
			return
		}

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: ctx.Writer}
		ctx.Writer = blw
		startTime := time.Now()
		ctx.Next()
		body := blw.body.String()
		if len(body) > maxLogBody {
			body = body[:maxLogBody]
		}
		logger.WithContext(ctx).Info("Response",
			zap.Int("status", ctx.Writer.Status()),
			zap.String("response_body", body),
			zap.Duration("time", time.Since(startTime)),
		)
	}
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}
