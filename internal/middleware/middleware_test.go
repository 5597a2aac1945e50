package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"atlas/internal/queue"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestActorMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.ContextWithFallback = true
	r.Use(ActorMiddleware())
	r.GET("/whoami", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, queue.ActorFromContext(ctx))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(ActorHeader, " alice ")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "alice", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/x", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://ops.example.edu")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://ops.example.edu", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST", w.Header().Get("Access-Control-Allow-Methods"))
}
