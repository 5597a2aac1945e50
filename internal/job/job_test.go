package job

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"atlas/internal/fleet"
	"atlas/internal/metrics"
	"atlas/internal/mocks"
	"atlas/internal/model"
	"atlas/internal/notify"
	"atlas/internal/orchestrator"
	"atlas/internal/provision"
	"atlas/internal/repository"
	"atlas/pkg/log"
	"atlas/pkg/remote"
	"atlas/pkg/sid"

	"github.com/glebarez/sqlite"
	"github.com/golang/mock/gomock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeDatabase struct {
	crypter *provision.Crypter
	dropErr error
	created []string
	dropped []string
}

func (d *fakeDatabase) Create(ctx context.Context, sid, dbKey string) error {
	d.created = append(d.created, sid)
	return nil
}

func (d *fakeDatabase) Drop(ctx context.Context, sid string) error {
	d.dropped = append(d.dropped, sid)
	return d.dropErr
}

func (d *fakeDatabase) Password(dbKey string) (string, error) { return d.crypter.Decrypt(dbKey) }
func (d *fakeDatabase) Host() string                          { return "db.internal" }
func (d *fakeDatabase) Port() int                             { return 3306 }

type recordingSink struct {
	mu  sync.Mutex
	got []*notify.Outcome
}

func (r *recordingSink) Name() string { return "recording" }
func (r *recordingSink) Send(ctx context.Context, o *notify.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, o)
	return nil
}

// runnerFunc 让测试按主机和命令决定结果
type runnerFunc func(host, command string) (*remote.Result, error)

func (f runnerFunc) Run(ctx context.Context, host, command string) (*remote.Result, error) {
	return f(host, command)
}

func succeed(host, command string) (*remote.Result, error) {
	return &remote.Result{Host: host}, nil
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	j          *Jobs
	q          *mocks.MockClient
	db         *fakeDatabase
	sink       *recordingSink
	crypter    *provision.Crypter
	codes      repository.CodeRepository
	instances  repository.InstanceRepository
	statistics repository.StatisticsRepository
	backups    repository.BackupRepository
	commands   repository.CommandRepository
	results    repository.JobResultRepository
	runner     runnerFunc
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "atlas.db")), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&model.Code{}, &model.Instance{}, &model.Route{}, &model.Site{},
		&model.Statistics{}, &model.Backup{}, &model.Command{}, &model.JobResult{}))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	conf := viper.New()
	conf.Set("env", "test")
	conf.Set("platform.default_core", "drupal")
	conf.Set("platform.desired_available", 3)
	conf.Set("platform.base_url", "https://sites.example.edu/")
	conf.Set("fleet.paths.code_root", "/srv/code")
	conf.Set("fleet.paths.instances_code_root", "/srv/instances/code")
	conf.Set("fleet.paths.instances_file_root", "/srv/instances/files")
	conf.Set("fleet.paths.web_root", "/srv/web")
	conf.Set("fleet.paths.down_path", "/srv/down")
	conf.Set("fleet.paths.backup_root", "/srv/backups")
	conf.Set("fleet.commands.php_cache_clear", "sudo service php-fpm reload")
	conf.Set("fleet.commands.homepage_files", "/usr/local/bin/atlas-homepage-files")

	logger := log.NewNop()
	repo := repository.NewRepository(logger, gdb)
	tm := repository.NewTransaction(repo)
	crypter, err := provision.NewCrypter("test-secret")
	require.NoError(t, err)

	f := &fixture{
		q:          mocks.NewMockClient(gomock.NewController(t)),
		db:         &fakeDatabase{crypter: crypter},
		sink:       &recordingSink{},
		crypter:    crypter,
		codes:      repository.NewCodeRepository(repo),
		instances:  repository.NewInstanceRepository(repo),
		statistics: repository.NewStatisticsRepository(repo),
		backups:    repository.NewBackupRepository(repo),
		commands:   repository.NewCommandRepository(repo),
		runner:     succeed,
	}
	f.results, _, err = repository.NewJobResultRepository(repo, conf)
	require.NoError(t, err)

	orch := orchestrator.NewOrchestrator(conf, logger, tm, f.codes, f.instances,
		repository.NewRouteRepository(repo), repository.NewSiteRepository(repo), f.statistics, f.q,
		sid.NewSidWithMachineID(7))
	inventory := fleet.NewStaticInventory("test", map[string][]string{
		model.PoolExpress:  {"web1", "web2"},
		model.PoolHomepage: {"web3"},
	}, "lb1").WithPicker(func(int) int { return 0 })
	runner := runnerFunc(func(host, command string) (*remote.Result, error) { return f.runner(host, command) })
	m := metrics.NewMetrics()
	executor := fleet.NewExecutor(conf, runner, inventory, logger, m)
	notifier := notify.NewNotifier("test", logger, f.sink)

	f.j = NewJobs(conf, logger, tm, orch, f.codes, f.instances, f.statistics, f.backups, f.commands,
		f.results, executor, fleet.NewLayout(conf), f.db, crypter, f.q, notifier, NewPeers(conf), m)
	f.j.now = func() time.Time { return testNow }
	f.j.intn = func(int) int { return 4 }
	return f
}

func (f *fixture) code(t *testing.T, name string, typ model.CodeType, current bool) *model.Code {
	t.Helper()
	c := &model.Code{
		Name:       name,
		Version:    "1.0",
		CodeType:   typ,
		IsCurrent:  current,
		GitURL:     "https://git.example.edu/" + name + ".git",
		CommitHash: name + "-commit",
	}
	require.NoError(t, f.codes.Create(context.Background(), c))
	return c
}

func (f *fixture) instance(t *testing.T, sid string, status model.InstanceStatus, mutate ...func(*model.Instance)) *model.Instance {
	t.Helper()
	inst := &model.Instance{
		Sid:      sid,
		Type:     model.InstanceTypeExpress,
		Status:   status,
		Pool:     model.PoolExpress,
		DBKey:    f.crypter.Encrypt(provision.NewPassword()),
		Code:     model.InstanceCode{Package: []int64{}},
		Settings: model.InstanceSettings{PageCacheMaximumAge: 3600},
	}
	for _, fn := range mutate {
		fn(inst)
	}
	require.NoError(t, f.instances.Create(context.Background(), inst))
	return inst
}

func createdAt(ts time.Time) func(*model.Instance) {
	return func(inst *model.Instance) { inst.CreateTime = ts }
}

func hasCommand(commands []string, part string) bool {
	for _, c := range commands {
		if strings.Contains(c, part) {
			return true
		}
	}
	return false
}
