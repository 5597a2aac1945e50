package server

import (
	"context"
	"sort"

	apiV1 "atlas/api/v1"
	"atlas/internal/job"
	"atlas/internal/metrics"
	"atlas/internal/queue"
	"atlas/pkg/log"
	"atlas/pkg/server/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// WorkerServer 消费任务队列，注册全部任务处理函数
type WorkerServer struct {
	logger *log.Logger
	srv    *queue.Server
}

func NewWorkerServer(logger *log.Logger, srv *queue.Server, jobs *job.Jobs) *WorkerServer {
	jobs.Register(srv)
	return &WorkerServer{
		logger: logger,
		srv:    srv,
	}
}

func (w *WorkerServer) Start(ctx context.Context) error {
	names := w.srv.Names()
	sort.Strings(names)
	w.logger.Info("registered jobs", zap.Strings("jobs", names))
	return w.srv.Start(ctx)
}

func (w *WorkerServer) Stop(ctx context.Context) error {
	return w.srv.Stop(ctx)
}

// NewWorkerHTTPServer worker 进程只暴露 /metrics 和 /healthz
func NewWorkerHTTPServer(conf *viper.Viper, logger *log.Logger, m *metrics.Metrics) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	s := http.NewServer(
		gin.New(),
		logger,
		http.WithServerHost(conf.GetString("worker.http.host")),
		http.WithServerPort(conf.GetInt("worker.http.port")),
	)
	s.Use(gin.Recovery())
	s.GET("/metrics", gin.WrapH(m.Handler()))
	s.GET("/healthz", func(ctx *gin.Context) {
		apiV1.HandleSuccess(ctx, nil)
	})
	return s
}
