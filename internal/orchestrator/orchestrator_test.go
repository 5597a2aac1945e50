package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"atlas/internal/mocks"
	"atlas/internal/model"
	"atlas/internal/queue"
	"atlas/internal/repository"
	"atlas/pkg/log"
	"atlas/pkg/sid"

	"github.com/glebarez/sqlite"
	"github.com/golang/mock/gomock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	o          *Orchestrator
	q          *mocks.MockClient
	codes      repository.CodeRepository
	instances  repository.InstanceRepository
	routes     repository.RouteRepository
	sites      repository.SiteRepository
	statistics repository.StatisticsRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "atlas.db")), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Code{}, &model.Instance{}, &model.Route{}, &model.Site{}, &model.Statistics{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	conf := viper.New()
	conf.Set("platform.default_core", "drupal")
	conf.Set("platform.default_profile", "stanford")

	logger := log.NewNop()
	repo := repository.NewRepository(logger, db)
	f := &fixture{
		q:          mocks.NewMockClient(gomock.NewController(t)),
		codes:      repository.NewCodeRepository(repo),
		instances:  repository.NewInstanceRepository(repo),
		routes:     repository.NewRouteRepository(repo),
		sites:      repository.NewSiteRepository(repo),
		statistics: repository.NewStatisticsRepository(repo),
	}
	f.o = NewOrchestrator(conf, logger, repository.NewTransaction(repo),
		f.codes, f.instances, f.routes, f.sites, f.statistics, f.q, sid.NewSidWithMachineID(1))
	f.o.intn = func(int) int { return 3 }
	return f
}

var commit = 0

func (f *fixture) code(t *testing.T, name, version string, typ model.CodeType, current bool, deps ...int64) *model.Code {
	t.Helper()
	commit++
	c := &model.Code{
		Name:         name,
		Version:      version,
		CodeType:     typ,
		IsCurrent:    current,
		GitURL:       "https://git.example.edu/" + name + ".git",
		CommitHash:   fmt.Sprintf("%040x", commit),
		Dependencies: deps,
	}
	require.NoError(t, f.codes.Create(context.Background(), c))
	return c
}

func (f *fixture) instance(t *testing.T, sid string, status model.InstanceStatus, core int64) *model.Instance {
	t.Helper()
	inst := &model.Instance{
		Sid:    sid,
		Type:   model.InstanceTypeExpress,
		Status: status,
		Pool:   model.PoolExpress,
		Code:   model.InstanceCode{Core: core, Package: []int64{}},
	}
	require.NoError(t, f.instances.Create(context.Background(), inst))
	return inst
}

func TestResolveClosure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.code(t, "views_extra", "1.0", model.CodeTypeModule, true)
	b := f.code(t, "ctools", "1.0", model.CodeTypeModule, true, c.Id)
	a := f.code(t, "panels", "1.0", model.CodeTypeModule, true, b.Id)

	got, err := f.o.Resolver().Resolve(ctx, []int64{a.Id})
	require.NoError(t, err)
	assert.Equal(t, []int64{c.Id, b.Id, a.Id}, got)

	got, err = f.o.Resolver().Resolve(ctx, []int64{a.Id, c.Id, a.Id})
	require.NoError(t, err)
	assert.Equal(t, []int64{c.Id, b.Id, a.Id}, got)
}

func TestResolveCycleAndMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.code(t, "alpha", "1.0", model.CodeTypeModule, true)
	b := f.code(t, "bravo", "1.0", model.CodeTypeModule, true, a.Id)
	a.Dependencies = []int64{b.Id}
	require.NoError(t, f.codes.Update(ctx, a))

	_, err := f.o.Resolver().Resolve(ctx, []int64{a.Id})
	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.NotEmpty(t, depErr.Cycle)
	first := err.Error()
	_, err = f.o.Resolver().Resolve(ctx, []int64{a.Id})
	assert.Equal(t, first, err.Error())

	_, err = f.o.Resolver().Resolve(ctx, []int64{9999})
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, []int64{9999}, depErr.Missing)
}

func TestCreateCodeKeepsSingleCurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.q.EXPECT().Submit(gomock.Any(), JobCodeDeploy, gomock.Any()).Return("job", nil).Times(2)

	v1 := &model.Code{Name: "drupal", Version: "7.98", CodeType: model.CodeTypeCore, IsCurrent: true,
		GitURL: "https://git.example.edu/drupal.git", CommitHash: "aaa"}
	require.NoError(t, f.o.CreateCode(ctx, v1))
	v2 := &model.Code{Name: "drupal", Version: "7.99", CodeType: model.CodeTypeCore, IsCurrent: true,
		GitURL: "https://git.example.edu/drupal.git", CommitHash: "bbb"}
	require.NoError(t, f.o.CreateCode(ctx, v2))

	current, err := f.codes.ListCurrent(ctx, "drupal", model.CodeTypeCore)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, v2.Id, current[0].Id)

	dup := &model.Code{Name: "drupal", Version: "7.99", CodeType: model.CodeTypeCore,
		GitURL: "https://git.example.edu/drupal.git", CommitHash: "ccc"}
	var conflictErr *ConflictError
	assert.ErrorAs(t, f.o.CreateCode(ctx, dup), &conflictErr)
}

func TestUpdateCodeKeepsSingleCurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := f.code(t, "drupal", "7.98", model.CodeTypeCore, true)
	next := f.code(t, "drupal", "7.99", model.CodeTypeCore, false)

	f.q.EXPECT().Submit(gomock.Any(), JobCodeUpdate, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, args interface{}, _ ...queue.Option) (string, error) {
			a := args.(CodeUpdateArgs)
			assert.Equal(t, next.Id, a.CodeID)
			assert.False(t, a.Original.IsCurrent)
			return "job", nil
		})

	update := *next
	update.IsCurrent = true
	require.NoError(t, f.o.UpdateCode(ctx, &update))

	current, err := f.codes.ListCurrent(ctx, "drupal", model.CodeTypeCore)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, next.Id, current[0].Id)

	stored, err := f.codes.GetByID(ctx, old.Id)
	require.NoError(t, err)
	assert.False(t, stored.IsCurrent)
}

func TestUpdateCodeRejectsDependencyCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.code(t, "alpha", "1.0", model.CodeTypeModule, true)
	b := f.code(t, "bravo", "1.0", model.CodeTypeModule, true, a.Id)

	update := *a
	update.Dependencies = []int64{b.Id}
	err := f.o.UpdateCode(ctx, &update)
	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, []int64{a.Id, b.Id, a.Id}, depErr.Cycle)

	stored, err := f.codes.GetByID(ctx, a.Id)
	require.NoError(t, err)
	assert.Empty(t, stored.Dependencies)
}

func TestCreateCodeRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bad := &model.Code{Name: "xy", Version: "1", CodeType: model.CodeTypeModule,
		GitURL: "https://git.example.edu/xy.git", CommitHash: "abc"}
	assert.ErrorIs(t, f.o.CreateCode(ctx, bad), ErrValidation)

	bad = &model.Code{Name: "panels", Version: "1", CodeType: model.CodeTypeModule,
		GitURL: "not a url", CommitHash: "abc"}
	assert.ErrorIs(t, f.o.CreateCode(ctx, bad), ErrValidation)

	missing := &model.Code{Name: "panels", Version: "1", CodeType: model.CodeTypeModule,
		GitURL: "git@github.com:org/panels.git", CommitHash: "abc", Dependencies: []int64{404}}
	var depErr *DependencyError
	assert.ErrorAs(t, f.o.CreateCode(ctx, missing), &depErr)
}

func TestDeleteCodeRefusedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	core := f.code(t, "drupal", "7.99", model.CodeTypeCore, true)
	lib := f.code(t, "jquery", "3.0", model.CodeTypeLibrary, true)
	f.code(t, "jquery_update", "2.0", model.CodeTypeModule, true, lib.Id)
	f.instance(t, "p1inst0001", model.InstanceStatusInstalled, core.Id)

	var conflictErr *ConflictError
	require.ErrorAs(t, f.o.DeleteCode(ctx, core.Id), &conflictErr)
	assert.Contains(t, conflictErr.Reason, "p1inst0001")
	require.ErrorAs(t, f.o.DeleteCode(ctx, lib.Id), &conflictErr)
	assert.Contains(t, conflictErr.Reason, "dependency")

	still, err := f.codes.GetByID(ctx, core.Id)
	require.NoError(t, err)
	assert.NotNil(t, still)

	unused := f.code(t, "old_theme", "1.0", model.CodeTypeTheme, false)
	f.q.EXPECT().Submit(gomock.Any(), JobCodeRemove, gomock.Any()).Return("job", nil)
	require.NoError(t, f.o.DeleteCode(ctx, unused.Id))
}

func TestCreateInstanceDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.code(t, "drupal", "7.98", model.CodeTypeCore, false)
	core := f.code(t, "drupal", "7.99", model.CodeTypeCore, true)
	profile := f.code(t, "stanford", "1.0", model.CodeTypeProfile, true)
	dep := f.code(t, "ctools", "1.0", model.CodeTypeModule, true)
	pkg := f.code(t, "panels", "1.0", model.CodeTypeModule, true, dep.Id)
	f.q.EXPECT().Submit(gomock.Any(), JobInstanceProvision, gomock.Any()).Return("job", nil)

	inst := &model.Instance{Code: model.InstanceCode{Package: []int64{pkg.Id}}}
	require.NoError(t, f.o.CreateInstance(ctx, inst))

	assert.Equal(t, model.InstanceStatusPending, inst.Status)
	assert.Equal(t, model.PoolExpress, inst.Pool)
	assert.Equal(t, core.Id, inst.Code.Core)
	assert.Equal(t, profile.Id, inst.Code.Profile)
	assert.Equal(t, []int64{dep.Id, pkg.Id}, inst.Code.Package)
	assert.GreaterOrEqual(t, len(inst.Sid), 9)
	assert.LessOrEqual(t, len(inst.Sid), 14)

	stored, err := f.instances.GetBySid(ctx, inst.Sid)
	require.NoError(t, err)
	require.NotNil(t, stored.StatisticsID)
	stats, err := f.statistics.GetByInstance(ctx, inst.Id)
	require.NoError(t, err)
	assert.Equal(t, *stored.StatisticsID, stats.Id)
}

func TestCreateInstanceRejectsCoreAsPackage(t *testing.T) {
	f := newFixture(t)
	core := f.code(t, "drupal", "7.99", model.CodeTypeCore, true)
	f.code(t, "stanford", "1.0", model.CodeTypeProfile, true)
	inst := &model.Instance{Code: model.InstanceCode{Core: core.Id, Package: []int64{core.Id}}}
	assert.ErrorIs(t, f.o.CreateInstance(context.Background(), inst), ErrValidation)
}

func TestUpdateInstanceTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	core := f.code(t, "drupal", "7.99", model.CodeTypeCore, true)
	inst := f.instance(t, "p1inst0001", model.InstanceStatusAvailable, core.Id)

	launched := model.InstanceStatusLaunched
	_, err := f.o.UpdateInstance(ctx, inst.Id, InstancePatch{Status: &launched})
	var transErr *TransitionError
	require.ErrorAs(t, err, &transErr)

	installing := model.InstanceStatusInstalling
	f.q.EXPECT().Submit(gomock.Any(), JobInstanceUpdate, InstanceUpdateArgs{
		InstanceID: inst.Id,
		Changes:    InstanceChanges{From: model.InstanceStatusAvailable, To: model.InstanceStatusInstalling},
	}).Return("job", nil)
	got, err := f.o.UpdateInstance(ctx, inst.Id, InstancePatch{Status: &installing})
	require.NoError(t, err)
	assert.Equal(t, model.InstanceStatusInstalling, got.Status)
	assert.NotNil(t, got.Dates.Assigned)

	stored, err := f.instances.GetByID(ctx, inst.Id)
	require.NoError(t, err)
	assert.Equal(t, model.InstanceStatusInstalling, stored.Status)

	// 只修改 tag 不会产生任务
	tags := []string{"faculty"}
	_, err = f.o.UpdateInstance(ctx, inst.Id, InstancePatch{Tag: &tags})
	require.NoError(t, err)
}

func TestUpdateInstanceLaunchRequiresRoute(t *testing.T) {
	f := newFixture(t)
	core := f.code(t, "drupal", "7.99", model.CodeTypeCore, true)
	inst := f.instance(t, "p1inst0001", model.InstanceStatusInstalled, core.Id)
	launching := model.InstanceStatusLaunching
	_, err := f.o.UpdateInstance(context.Background(), inst.Id, InstancePatch{Status: &launching})
	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)
}

func TestCreateRouteLaunchesInstalledInstance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	core := f.code(t, "drupal", "7.99", model.CodeTypeCore, true)
	inst := f.instance(t, "p1inst0001", model.InstanceStatusInstalled, core.Id)
	site := &model.Site{Name: "Physics", SiteType: "academic_department"}
	require.NoError(t, f.sites.Create(ctx, site))

	f.q.EXPECT().Submit(gomock.Any(), JobInstanceUpdate, InstanceUpdateArgs{
		InstanceID: inst.Id,
		Changes:    InstanceChanges{From: model.InstanceStatusInstalled, To: model.InstanceStatusLaunching},
	}).Return("job", nil)

	r := &model.Route{
		RouteType:   model.RouteTypePoolExpress,
		RouteStatus: model.RouteStatusActive,
		Source:      "physics",
		InstanceID:  &inst.Id,
		SiteID:      &site.Id,
	}
	require.NoError(t, f.o.CreateRoute(ctx, r))

	stored, err := f.instances.GetByID(ctx, inst.Id)
	require.NoError(t, err)
	assert.Equal(t, model.InstanceStatusLaunching, stored.Status)
	assert.Equal(t, "physics", stored.PathString())
	require.NotNil(t, stored.Routes.PrimaryRoute)
	assert.Equal(t, r.Id, *stored.Routes.PrimaryRoute)

	s, err := f.sites.GetByID(ctx, site.Id)
	require.NoError(t, err)
	assert.Equal(t, []int64{r.Id}, s.Routes)

	// 已有主路由，第二条路由被拒绝且不落库
	second := &model.Route{
		RouteType:   model.RouteTypePoolExpress,
		RouteStatus: model.RouteStatusActive,
		Source:      "physics-dept",
		InstanceID:  &inst.Id,
	}
	var conflictErr *ConflictError
	require.ErrorAs(t, f.o.CreateRoute(ctx, second), &conflictErr)
	missing, err := f.routes.GetBySource(ctx, "physics-dept")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// launching 实例的主路由不能删除
	require.ErrorAs(t, f.o.DeleteRoute(ctx, r.Id), &conflictErr)
}

func TestRouteLifecycleDispatchesEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	core := f.code(t, "drupal", "7.99", model.CodeTypeCore, true)
	inst := f.instance(t, "p1inst0001", model.InstanceStatusInstalled, core.Id)
	f.q.EXPECT().Submit(gomock.Any(), JobInstanceUpdate, gomock.Any()).Return("job", nil).Times(1)

	var got []*RouteEvent
	record := func(_ context.Context, e Event) error {
		got = append(got, e.(*RouteEvent))
		return nil
	}
	for _, action := range []Action{ActionCreated, ActionUpdated, ActionDeleted} {
		f.o.Dispatcher().On(EventKey{EntityRoute, action}, record)
	}

	r := &model.Route{
		RouteType:   model.RouteTypePoolExpress,
		RouteStatus: model.RouteStatusActive,
		Source:      "geology",
		InstanceID:  &inst.Id,
	}
	require.NoError(t, f.o.CreateRoute(ctx, r))
	update := *r
	update.RouteStatus = model.RouteStatusInactive
	require.NoError(t, f.o.UpdateRoute(ctx, &update))
	require.NoError(t, f.o.DeleteRoute(ctx, r.Id))

	require.Len(t, got, 3)
	assert.Equal(t, EventKey{EntityRoute, ActionCreated}, got[0].Key())
	require.NotNil(t, got[0].Launched)
	assert.Equal(t, inst.Id, got[0].Launched.Id)
	assert.Equal(t, model.InstanceStatusLaunching, got[0].Launched.Status)

	assert.Equal(t, EventKey{EntityRoute, ActionUpdated}, got[1].Key())
	assert.Nil(t, got[1].Launched)
	require.NotNil(t, got[1].Original)
	assert.Equal(t, model.RouteStatusActive, got[1].Original.RouteStatus)

	assert.Equal(t, EventKey{EntityRoute, ActionDeleted}, got[2].Key())
	assert.Equal(t, r.Id, got[2].Route.Id)
}

func TestCreateRouteRejectsUnsafeSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	core := f.code(t, "drupal", "7.99", model.CodeTypeCore, true)
	inst := f.instance(t, "p1inst0001", model.InstanceStatusInstalled, core.Id)

	for _, source := range []string{"..", "../..", "physics/../..", "./physics", "phys ics", "physics/.hidden", "a;rm -rf b"} {
		r := &model.Route{
			RouteType:   model.RouteTypePoolExpress,
			RouteStatus: model.RouteStatusActive,
			Source:      source,
			InstanceID:  &inst.Id,
		}
		assert.ErrorIs(t, f.o.CreateRoute(ctx, r), ErrValidation, source)
	}

	stored, err := f.instances.GetByID(ctx, inst.Id)
	require.NoError(t, err)
	assert.Equal(t, model.InstanceStatusInstalled, stored.Status)
	assert.Nil(t, stored.Path)
}

func TestCreateRouteForUninstalledInstance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	core := f.code(t, "drupal", "7.99", model.CodeTypeCore, true)
	inst := f.instance(t, "p1inst0001", model.InstanceStatusAvailable, core.Id)

	r := &model.Route{
		RouteType:   model.RouteTypePoolExpress,
		RouteStatus: model.RouteStatusActive,
		Source:      "chemistry",
		InstanceID:  &inst.Id,
	}
	require.NoError(t, f.o.CreateRoute(ctx, r))
	stored, err := f.instances.GetByID(ctx, inst.Id)
	require.NoError(t, err)
	assert.Equal(t, model.InstanceStatusAvailable, stored.Status)
	assert.Nil(t, stored.Routes.PrimaryRoute)
}

func TestDeactivateRouteKeepsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	core := f.code(t, "drupal", "7.99", model.CodeTypeCore, true)
	inst := f.instance(t, "p1inst0001", model.InstanceStatusInstalled, core.Id)
	f.q.EXPECT().Submit(gomock.Any(), JobInstanceUpdate, gomock.Any()).Return("job", nil)

	r := &model.Route{
		RouteType:   model.RouteTypePoolExpress,
		RouteStatus: model.RouteStatusActive,
		Source:      "biology",
		InstanceID:  &inst.Id,
	}
	require.NoError(t, f.o.CreateRoute(ctx, r))
	ok, err := f.instances.TransitionStatus(ctx, inst.Id, model.InstanceStatusLaunching, model.InstanceStatusLaunched, nil)
	require.NoError(t, err)
	require.True(t, ok)

	update := *r
	update.RouteStatus = model.RouteStatusInactive
	require.NoError(t, f.o.UpdateRoute(ctx, &update))

	stored, err := f.instances.GetByID(ctx, inst.Id)
	require.NoError(t, err)
	assert.Equal(t, model.InstanceStatusLaunched, stored.Status)
	assert.Nil(t, stored.Routes.PrimaryRoute)

	update.Source = "zoology"
	assert.ErrorIs(t, f.o.UpdateRoute(ctx, &update), ErrValidation)

	// 不再是主路由后可以删除
	require.NoError(t, f.o.DeleteRoute(ctx, r.Id))
}

func TestSubmitFailureIsReturned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.q.EXPECT().Submit(gomock.Any(), JobCodeDeploy, gomock.Any()).Return("", errors.New("broker down"))
	c := &model.Code{Name: "drupal", Version: "7.99", CodeType: model.CodeTypeCore,
		GitURL: "https://git.example.edu/drupal.git", CommitHash: "abc"}
	assert.ErrorContains(t, f.o.CreateCode(ctx, c), "broker down")
}
