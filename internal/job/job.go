package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atlas/internal/fleet"
	"atlas/internal/metrics"
	"atlas/internal/model"
	"atlas/internal/notify"
	"atlas/internal/orchestrator"
	"atlas/internal/provision"
	"atlas/internal/queue"
	"atlas/internal/repository"
	"atlas/pkg/log"

	"github.com/duke-git/lancet/v2/random"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Jobs 全部任务处理函数，处理时总是重新读取记录
type Jobs struct {
	logger     *log.Logger
	tm         repository.Transaction
	orch       *orchestrator.Orchestrator
	codes      repository.CodeRepository
	instances  repository.InstanceRepository
	statistics repository.StatisticsRepository
	backups    repository.BackupRepository
	commands   repository.CommandRepository
	results    repository.JobResultRepository
	executor   *fleet.Executor
	layout     *fleet.Layout
	database   provision.Database
	crypter    *provision.Crypter
	queue      queue.Client
	notifier   *notify.Notifier
	peers      *Peers
	metrics    *metrics.Metrics

	env              string
	desiredAvailable int
	cronStagger      time.Duration
	now              func() time.Time
	intn             func(n int) int
}

func NewJobs(
	conf *viper.Viper,
	logger *log.Logger,
	tm repository.Transaction,
	orch *orchestrator.Orchestrator,
	codes repository.CodeRepository,
	instances repository.InstanceRepository,
	statistics repository.StatisticsRepository,
	backups repository.BackupRepository,
	commands repository.CommandRepository,
	results repository.JobResultRepository,
	executor *fleet.Executor,
	layout *fleet.Layout,
	database provision.Database,
	crypter *provision.Crypter,
	q queue.Client,
	notifier *notify.Notifier,
	peers *Peers,
	m *metrics.Metrics,
) *Jobs {
	desired := conf.GetInt("platform.desired_available")
	if !conf.IsSet("platform.desired_available") {
		desired = 10
	}
	stagger := conf.GetDuration("schedule.cron_stagger")
	if stagger <= 0 {
		stagger = 5 * time.Minute
	}
	return &Jobs{
		logger:           logger,
		tm:               tm,
		orch:             orch,
		codes:            codes,
		instances:        instances,
		statistics:       statistics,
		backups:          backups,
		commands:         commands,
		results:          results,
		executor:         executor,
		layout:           layout,
		database:         database,
		crypter:          crypter,
		queue:            q,
		notifier:         notifier,
		peers:            peers,
		metrics:          m,
		env:              conf.GetString("env"),
		desiredAvailable: desired,
		cronStagger:      stagger,
		now:              time.Now,
		intn:             func(n int) int { return random.RandInt(0, n) },
	}
}

// Register 注册处理函数和完成回调
func (j *Jobs) Register(s *queue.Server) {
	handlers := []struct {
		name  string
		fn    queue.HandlerFunc
		limit time.Duration
	}{
		{orchestrator.JobCodeDeploy, j.CodeDeploy, 0},
		{orchestrator.JobCodeUpdate, j.CodeUpdate, 0},
		{orchestrator.JobCodeRemove, j.CodeRemove, 0},
		{orchestrator.JobCodeHeal, j.CodeHeal, 0},
		{orchestrator.JobInstanceProvision, j.InstanceProvision, 0},
		{orchestrator.JobInstanceUpdate, j.InstanceUpdate, 0},
		{orchestrator.JobInstanceRemove, j.InstanceRemove, 0},
		{orchestrator.JobInstanceHeal, j.InstanceHeal, 0},
		{orchestrator.JobCron, j.Cron, 0},
		{orchestrator.JobCronRun, j.CronRun, 0},
		{orchestrator.JobCommandPrepare, j.CommandPrepare, 0},
		{orchestrator.JobCommandRun, j.CommandRun, 0},
		{orchestrator.JobBackupCreate, j.BackupCreate, 0},
		{orchestrator.JobBackupRestore, j.BackupRestore, 0},
		{orchestrator.JobImportBackup, j.ImportBackup, orchestrator.ImportBackupTimeLimit},
		{orchestrator.JobImportCode, j.ImportCode, 0},
		{orchestrator.JobClearPHPCache, j.ClearPHPCache, 0},
		{orchestrator.JobUpdateHomepageFiles, j.UpdateHomepageFiles, 0},
		{orchestrator.JobUpdateSettingsFile, j.UpdateSettingsFile, 0},
	}
	for _, h := range handlers {
		s.Handle(h.name, h.fn, h.limit)
	}
	for name, fn := range j.Sweepers() {
		s.Handle(name, sweeperHandler(name, fn), 0)
	}
	s.OnComplete(j.Complete)
}

// run 执行一个原语，主机结果合并进 report
func (j *Jobs) run(ctx context.Context, report *queue.Report, scope fleet.Scope, pool string, p fleet.Primitive) error {
	res, err := j.executor.Run(ctx, scope, pool, p)
	if report.Hosts == nil {
		report.Hosts = map[string]model.HostOutcome{}
	}
	for host, o := range res.Hosts {
		// 同一主机多步执行时保留失败的结果
		if prev, ok := report.Hosts[host]; ok && !prev.Success {
			continue
		}
		report.Hosts[host] = o
	}
	var remoteErr *fleet.RemoteError
	if err != nil && !errors.As(err, &remoteErr) {
		return fmt.Errorf("%s: %w", p.Name, err)
	}
	return err
}

func (j *Jobs) loadInstance(ctx context.Context, id int64) (*model.Instance, error) {
	inst, err := j.instances.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, fmt.Errorf("instance %d: %w", id, orchestrator.ErrNotFound)
	}
	return inst, nil
}

func (j *Jobs) loadCode(ctx context.Context, id int64) (*model.Code, error) {
	c, err := j.codes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("code %d: %w", id, orchestrator.ErrNotFound)
	}
	return c, nil
}

// instanceCodes 实例引用的全部 code，缺失的记录返回 DependencyError，不触碰主机
func (j *Jobs) instanceCodes(ctx context.Context, inst *model.Instance) (map[int64]*model.Code, error) {
	ids := inst.CodeIDs()
	codes, err := j.codes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	var missing []int64
	for _, id := range ids {
		if codes[id] == nil {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &orchestrator.DependencyError{Missing: missing}
	}
	return codes, nil
}

func (j *Jobs) jobLogger(ctx context.Context, job *queue.Job, fields ...zap.Field) *log.Logger {
	base := []zap.Field{zap.String("job", job.Name), zap.String("job_id", job.ID)}
	return &log.Logger{Logger: j.logger.WithContext(ctx).With(append(base, fields...)...)}
}

func instanceReport(title string, inst *model.Instance) *queue.Report {
	return &queue.Report{
		Title:    title,
		Entity:   string(orchestrator.EntityInstance),
		EntityID: inst.Sid,
		Fields:   map[string]string{"sid": inst.Sid},
	}
}

func codeReport(title string, c *model.Code) *queue.Report {
	return &queue.Report{
		Title:    title,
		Entity:   string(orchestrator.EntityCode),
		EntityID: fmt.Sprint(c.Id),
		Fields:   map[string]string{"code": c.DisplayName(), "commit_hash": c.CommitHash},
	}
}
