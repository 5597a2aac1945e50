package server

import (
	"context"
	"strings"
	"time"

	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/queue"
	"atlas/pkg/log"

	"github.com/go-co-op/gocron"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// 含空格的按 cron 表达式解析，否则按间隔解析
var defaultSweeperSchedule = map[string]string{
	orchestrator.JobAvailableInstancesCheck: "5m",
	orchestrator.JobDeleteStuckPending:      "5m",
	orchestrator.JobDeleteAllAvailable:      "0 3 * * *",
	orchestrator.JobTakeDownOldInstances:    "0 2 * * *",
	orchestrator.JobRemoveOldBackups:        "0 4 * * *",
	orchestrator.JobRemoveExtraBackups:      "30 4 * * *",
	orchestrator.JobRemoveOrphanStatistics:  "0 5 * * *",
	orchestrator.JobVerifyStatistics:        "0 6 * * *",
	orchestrator.JobRemoveUnusedCode:        "0 1 * * 0",
	orchestrator.JobRebalanceUpdateGroups:   "0 0 * * 0",
}

// CronBatch 定时 cron 批次
type CronBatch struct {
	Name            string  `mapstructure:"name"`
	Every           string  `mapstructure:"every"`
	Status          string  `mapstructure:"status"`
	Type            string  `mapstructure:"type"`
	IncludePackages []int64 `mapstructure:"include_packages"`
	ExcludePackages []int64 `mapstructure:"exclude_packages"`
}

var defaultCronBatches = []CronBatch{
	{Name: "launched_cron", Every: "60m", Status: string(model.InstanceStatusLaunched), Type: string(model.InstanceTypeExpress)},
	{Name: "installed_cron", Every: "3h", Status: string(model.InstanceStatusInstalled), Type: string(model.InstanceTypeExpress)},
}

// Scheduler 按计划提交 sweeper 和 cron 任务，本身不执行任务
type Scheduler struct {
	logger    *log.Logger
	queue     queue.Client
	scheduler *gocron.Scheduler
	sweepers  map[string]string
	batches   []CronBatch
	disabled  bool
}

func NewScheduler(conf *viper.Viper, logger *log.Logger, q queue.Client) (*Scheduler, error) {
	sweepers := make(map[string]string, len(defaultSweeperSchedule))
	for name, spec := range defaultSweeperSchedule {
		sweepers[name] = spec
	}
	for name, spec := range conf.GetStringMapString("schedule.sweepers") {
		sweepers[name] = spec
	}
	batches := defaultCronBatches
	if conf.IsSet("schedule.crons") {
		batches = nil
		if err := conf.UnmarshalKey("schedule.crons", &batches); err != nil {
			return nil, err
		}
	}
	loc, err := time.LoadLocation(conf.GetString("schedule.timezone"))
	if err != nil {
		return nil, err
	}
	s := gocron.NewScheduler(loc)
	s.WaitForScheduleAll()
	s.SingletonModeAll()
	return &Scheduler{
		logger:    logger,
		queue:     q,
		scheduler: s,
		sweepers:  sweepers,
		batches:   batches,
		disabled:  conf.GetBool("schedule.disabled"),
	}, nil
}

func (s *Scheduler) every(spec string) *gocron.Scheduler {
	if strings.Contains(strings.TrimSpace(spec), " ") {
		return s.scheduler.Cron(spec)
	}
	return s.scheduler.Every(spec)
}

func (s *Scheduler) register(ctx context.Context) error {
	ctx = queue.ContextWithActor(ctx, "scheduler")
	for name, spec := range s.sweepers {
		if spec == "" || spec == "off" {
			continue
		}
		if !orchestrator.IsSweeper(name) {
			s.logger.Warn("unknown sweeper in schedule", zap.String("sweeper", name))
			continue
		}
		name := name
		if _, err := s.every(spec).Tag(name).Do(func() {
			s.submit(ctx, name, struct{}{})
		}); err != nil {
			return err
		}
	}
	for _, b := range s.batches {
		args := orchestrator.CronArgs{
			Status:          model.InstanceStatus(b.Status),
			Type:            model.InstanceType(b.Type),
			IncludePackages: b.IncludePackages,
			ExcludePackages: b.ExcludePackages,
		}
		if _, err := s.every(b.Every).Tag(b.Name).Do(func() {
			s.submit(ctx, orchestrator.JobCron, args)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) submit(ctx context.Context, name string, args interface{}) {
	id, err := s.queue.Submit(ctx, name, args)
	if err != nil {
		s.logger.Error("scheduled submit failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.logger.Info("scheduled job submitted", zap.String("job", name), zap.String("job_id", id))
}

func (s *Scheduler) Start(ctx context.Context) error {
	// 多个 worker 时只保留一个调度
	if s.disabled {
		s.logger.Info("scheduler disabled")
		<-ctx.Done()
		return nil
	}
	if err := s.register(ctx); err != nil {
		s.logger.Error("scheduler register error", zap.Error(err))
		return err
	}
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.scheduler.Jobs())))
	s.scheduler.StartAsync()
	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop(ctx context.Context) error {
	s.scheduler.Stop()
	return nil
}
