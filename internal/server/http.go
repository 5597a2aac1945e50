package server

import (
	apiV1 "atlas/api/v1"
	"atlas/docs"
	"atlas/internal/middleware"
	"atlas/internal/router"
	"atlas/pkg/server/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewHTTPServer(
	deps router.RouterDeps,
) *http.Server {
	if deps.Config.GetString("env") == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	// service 层通过 ctx.Value 读取请求 context 里的 actor
	engine.ContextWithFallback = true
	s := http.NewServer(
		engine,
		deps.Logger,
		http.WithServerHost(deps.Config.GetString("http.host")),
		http.WithServerPort(deps.Config.GetInt("http.port")),
	)

	// swagger doc
	docs.SwaggerInfo.BasePath = "/"
	s.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerfiles.Handler,
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
	s.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	s.Use(
		middleware.CORSMiddleware(),
		middleware.ResponseLogMiddleware(deps.Logger),
		middleware.RequestLogMiddleware(deps.Logger),
		middleware.ActorMiddleware(),
	)
	s.GET("/", func(ctx *gin.Context) {
		apiV1.HandleSuccess(ctx, map[string]interface{}{
			":)": "Atlas",
		})
	})
	s.GET("/version", deps.OpsHandler.GetVersion)

	apiV1 := s.Group("/api/v1")
	router.InitCodeRouter(deps, apiV1)
	router.InitInstanceRouter(deps, apiV1)
	router.InitRouteRouter(deps, apiV1)
	router.InitSiteRouter(deps, apiV1)
	router.InitStatisticsRouter(deps, apiV1)
	router.InitBackupRouter(deps, apiV1)
	router.InitCommandRouter(deps, apiV1)
	router.InitOpsRouter(deps, apiV1)

	return s
}
