package handler

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"atlas/internal/middleware"
	"atlas/internal/mocks"
	"atlas/internal/model"
	"atlas/internal/notify"
	"atlas/internal/orchestrator"
	"atlas/internal/queue"
	"atlas/internal/repository"
	"atlas/internal/service"
	"atlas/pkg/log"
	"atlas/pkg/sid"

	"github.com/gavv/httpexpect/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang/mock/gomock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	e         *httpexpect.Expect
	q         *mocks.MockClient
	instances repository.InstanceRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "atlas.db")), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Code{}, &model.Instance{}, &model.Route{}, &model.Site{},
		&model.Statistics{}, &model.JobResult{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	conf := viper.New()
	conf.Set("env", "test")
	conf.Set("platform.default_core", "drupal")
	conf.Set("platform.default_profile", "stanford")

	logger := log.NewNop()
	repo := repository.NewRepository(logger, db)
	tm := repository.NewTransaction(repo)
	codes := repository.NewCodeRepository(repo)
	instances := repository.NewInstanceRepository(repo)
	q := mocks.NewMockClient(gomock.NewController(t))
	orch := orchestrator.NewOrchestrator(conf, logger, tm, codes, instances,
		repository.NewRouteRepository(repo), repository.NewSiteRepository(repo),
		repository.NewStatisticsRepository(repo), q, sid.NewSidWithMachineID(1))
	svc := service.NewService(tm, logger, orch, q)
	results, _, err := repository.NewJobResultRepository(repo, conf)
	require.NoError(t, err)

	h := NewHandler(logger)
	codeHandler := NewCodeHandler(h, service.NewCodeService(svc, codes))
	opsHandler := NewOpsHandler(h, conf, service.NewOpsService(svc, conf, results, instances), notify.NewHub(logger))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.ContextWithFallback = true
	r.Use(middleware.ActorMiddleware())
	r.GET("/version", opsHandler.GetVersion)
	v1 := r.Group("/api/v1")
	v1.GET("/code", codeHandler.ListCode)
	v1.GET("/code/:id", codeHandler.GetCode)
	v1.POST("/code", codeHandler.CreateCode)
	v1.DELETE("/code/:id", codeHandler.DeleteCode)
	v1.GET("/jobs/:id", opsHandler.GetJob)
	v1.POST("/ops/sweep/:name", opsHandler.Sweep)

	e := httpexpect.WithConfig(httpexpect.Config{
		Client: &http.Client{
			Transport: httpexpect.NewBinder(r),
			Jar:       httpexpect.NewCookieJar(),
		},
		Reporter: httpexpect.NewAssertReporter(t),
	})
	return &testEnv{e: e, q: q, instances: instances}
}

func (env *testEnv) createCore(t *testing.T) int64 {
	env.q.EXPECT().Submit(gomock.Any(), orchestrator.JobCodeDeploy, gomock.Any()).Return("job-deploy", nil)
	obj := env.e.POST("/api/v1/code").
		WithHeader(middleware.ActorHeader, "alice").
		WithJSON(map[string]interface{}{
			"name":        "drupal",
			"version":     "7.99",
			"code_type":   "core",
			"is_current":  true,
			"git_url":     "https://git.example.edu/drupal.git",
			"commit_hash": "0123456789abcdef0123456789abcdef01234567",
		}).
		Expect().
		Status(http.StatusOK).
		JSON().Object()
	obj.Value("code").Number().IsEqual(0)
	data := obj.Value("data").Object()
	data.Value("creator").String().IsEqual("alice")
	return int64(data.Value("id").Number().Raw())
}

func TestCodeHandler_DeleteReferencedCoreConflicts(t *testing.T) {
	env := newTestEnv(t)
	coreID := env.createCore(t)
	require.NoError(t, env.instances.Create(context.Background(), &model.Instance{
		Sid:    "p1inst0001",
		Type:   model.InstanceTypeExpress,
		Status: model.InstanceStatusInstalled,
		Pool:   model.PoolExpress,
		Code:   model.InstanceCode{Core: coreID, Package: []int64{}},
	}))

	obj := env.e.DELETE("/api/v1/code/{id}", coreID).
		Expect().
		Status(http.StatusConflict).
		JSON().Object()
	obj.Value("code").Number().IsEqual(409)
	obj.Value("data").Object().Value("reason").String().Contains("p1inst0001")

	// 被拒绝的删除不改动记录
	env.e.GET("/api/v1/code/{id}", coreID).
		Expect().
		Status(http.StatusOK)
}

func TestCodeHandler_Errors(t *testing.T) {
	env := newTestEnv(t)

	env.e.GET("/api/v1/code/{id}", 999).
		Expect().
		Status(http.StatusNotFound).
		JSON().Object().Value("code").Number().IsEqual(404)

	env.e.GET("/api/v1/code/abc").
		Expect().
		Status(http.StatusBadRequest)

	env.e.POST("/api/v1/code").
		WithJSON(map[string]interface{}{"name": "ab", "version": "1", "code_type": "module"}).
		Expect().
		Status(http.StatusBadRequest)

	env.e.GET("/api/v1/code").
		WithQuery("where", "not-json").
		Expect().
		Status(http.StatusBadRequest).
		JSON().Object().Value("code").Number().IsEqual(4001)

	env.e.GET("/api/v1/code").
		WithQuery("page_size", 5000).
		Expect().
		Status(http.StatusBadRequest)
}

func TestCodeHandler_List(t *testing.T) {
	env := newTestEnv(t)
	env.createCore(t)

	data := env.e.GET("/api/v1/code").
		WithQuery("where", `[{"field":"code_type","op":"eq","value":"core"}]`).
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("data").Object()
	data.Value("total").Number().IsEqual(1)
	data.Value("list").Array().Value(0).Object().Value("name").String().IsEqual("drupal")
}

func TestOpsHandler_Sweep(t *testing.T) {
	env := newTestEnv(t)

	env.e.POST("/api/v1/ops/sweep/drop_everything").
		Expect().
		Status(http.StatusBadRequest).
		JSON().Object().Value("code").Number().IsEqual(4002)

	env.q.EXPECT().Submit(gomock.Any(), orchestrator.JobRemoveOldBackups, gomock.Any()).Return("job-42", nil)
	env.e.POST("/api/v1/ops/sweep/remove_old_backups").
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("data").Object().Value("job_id").String().IsEqual("job-42")

	env.q.EXPECT().Submit(gomock.Any(), orchestrator.JobRemoveOldBackups, gomock.Any()).
		Return("", errors.Join(queue.ErrUnavailable, errors.New("dial tcp: refused")))
	env.e.POST("/api/v1/ops/sweep/remove_old_backups").
		Expect().
		Status(http.StatusServiceUnavailable).
		JSON().Object().Value("code").Number().IsEqual(503)
}

func TestOpsHandler_JobAndVersion(t *testing.T) {
	env := newTestEnv(t)

	env.e.GET("/api/v1/jobs/{id}", "missing").
		Expect().
		Status(http.StatusNotFound)

	env.e.GET("/version").
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("data").Object().Value("env").String().IsEqual("test")
}
