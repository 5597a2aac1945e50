package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"atlas/internal/fleet"
	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/queue"
	"atlas/pkg/remote"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCron_StaggersByUpdateGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	early := f.instance(t, "p1inst0001", model.InstanceStatusLaunched)
	late := f.instance(t, "p1inst0002", model.InstanceStatusLaunched, func(inst *model.Instance) {
		inst.UpdateGroup = 3
	})
	f.instance(t, "p1inst0003", model.InstanceStatusPending)
	f.instance(t, "p1inst0004", model.InstanceStatusDown)
	f.instance(t, "p1inst0005", model.InstanceStatusInstalled, func(inst *model.Instance) {
		inst.Code.Package = []int64{77}
	})

	delays := map[int64]time.Duration{}
	f.q.EXPECT().Submit(gomock.Any(), orchestrator.JobCronRun, gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args interface{}, opts ...queue.Option) (string, error) {
			job, err := queue.NewJob(name, args, testNow, opts...)
			require.NoError(t, err)
			delays[args.(orchestrator.CronRunArgs).InstanceID] = job.ETA.Sub(job.EnqueuedAt)
			return job.ID, nil
		}).Times(2)

	report, err := f.j.Cron(ctx, newJob(t, orchestrator.JobCron, orchestrator.CronArgs{ExcludePackages: []int64{77}}))
	require.NoError(t, err)
	assert.Equal(t, "2", report.Fields["total"])
	assert.Equal(t, map[int64]time.Duration{early.Id: 0, late.Id: 15 * time.Minute}, delays)
}

func TestCron_IncludePackages(t *testing.T) {
	f := newFixture(t)
	with := f.instance(t, "p1inst0001", model.InstanceStatusLaunched, func(inst *model.Instance) {
		inst.Code.Package = []int64{5, 77}
	})
	f.instance(t, "p1inst0002", model.InstanceStatusLaunched)

	f.q.EXPECT().Submit(gomock.Any(), orchestrator.JobCronRun, gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args interface{}, opts ...queue.Option) (string, error) {
			assert.Equal(t, with.Id, args.(orchestrator.CronRunArgs).InstanceID)
			return "id", nil
		}).Times(1)
	_, err := f.j.Cron(context.Background(), newJob(t, orchestrator.JobCron, orchestrator.CronArgs{
		Status:          model.InstanceStatusLaunched,
		IncludePackages: []int64{77},
	}))
	require.NoError(t, err)
}

func TestCommandPrepareAndRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	target := f.instance(t, "p1inst0001", model.InstanceStatusLaunched)
	f.instance(t, "p1inst0002", model.InstanceStatusInstalled)
	cmd := &model.Command{
		Name:     "enable module",
		Commands: []string{"drush en -y stanford_news"},
		Query:    []model.Filter{{Field: "status", Op: model.OpEq, Value: "launched"}},
	}
	require.NoError(t, f.commands.Create(ctx, cmd))

	var submitted orchestrator.CommandRunArgs
	f.q.EXPECT().Submit(gomock.Any(), orchestrator.JobCommandRun, gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args interface{}, opts ...queue.Option) (string, error) {
			submitted = args.(orchestrator.CommandRunArgs)
			return "id", nil
		}).Times(1)
	_, err := f.j.CommandPrepare(ctx, newJob(t, orchestrator.JobCommandPrepare, orchestrator.CommandPrepareArgs{CommandID: cmd.Id}))
	require.NoError(t, err)
	assert.Equal(t, target.Id, submitted.InstanceID)
	assert.True(t, submitted.SingleServer)

	var (
		mu    sync.Mutex
		calls []string
	)
	f.runner = func(host, command string) (*remote.Result, error) {
		mu.Lock()
		calls = append(calls, host+": "+command)
		mu.Unlock()
		return &remote.Result{Host: host}, nil
	}
	submitted.SingleServer = false
	_, err = f.j.CommandRun(ctx, newJob(t, orchestrator.JobCommandRun, submitted))
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.True(t, hasCommand(calls, "drush en -y stanford_news --uri='https://sites.example.edu/p1inst0001'"))
}

func TestUpdateSettingsFile_FansOut(t *testing.T) {
	f := newFixture(t)
	f.instance(t, "p1inst0001", model.InstanceStatusLaunched)
	f.instance(t, "p1inst0002", model.InstanceStatusLocked)
	f.instance(t, "p1inst0003", model.InstanceStatusAvailable)

	f.q.EXPECT().Submit(gomock.Any(), orchestrator.JobUpdateSettingsFile, gomock.Any()).Return("id", nil).Times(2)
	_, err := f.j.UpdateSettingsFile(context.Background(), newJob(t, orchestrator.JobUpdateSettingsFile, orchestrator.UpdateSettingsArgs{}))
	require.NoError(t, err)
}

func TestComplete_RecordsFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := newJob(t, orchestrator.JobInstanceUpdate, orchestrator.InstanceArgs{InstanceID: 1})
	hosts := map[string]model.HostOutcome{
		"web1": {Success: true},
		"web2": {Success: false, ExitStatus: 1, Error: "denied"},
	}
	f.j.Complete(ctx, &queue.Completion{
		Job:        job,
		Status:     model.JobStatusFailed,
		Report:     &queue.Report{Title: "Instance updated: p1inst0001", Fields: map[string]string{"sid": "p1inst0001"}},
		Err:        &fleet.RemoteError{Primitive: "instance_launch", Hosts: hosts},
		StartedAt:  testNow,
		FinishedAt: testNow.Add(time.Minute),
	})

	result, err := f.results.GetByJobID(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.JobStatusFailed, result.Status)
	assert.Equal(t, "alice", result.Actor)
	assert.Equal(t, hosts, result.Hosts)
	assert.Contains(t, result.Error, "web2")

	require.Len(t, f.sink.got, 1)
	o := f.sink.got[0]
	assert.Equal(t, "Failed: Instance updated: p1inst0001", o.Title)
	assert.False(t, o.Success)
	assert.Equal(t, "test", o.Environment)
	assert.Equal(t, hosts, o.Hosts)
}

func TestComplete_Success(t *testing.T) {
	f := newFixture(t)
	job := newJob(t, orchestrator.JobClearPHPCache, nil)
	f.j.Complete(context.Background(), &queue.Completion{Job: job, Status: model.JobStatusSuccess})
	require.Len(t, f.sink.got, 1)
	assert.Equal(t, orchestrator.JobClearPHPCache, f.sink.got[0].Title)
	assert.True(t, f.sink.got[0].Success)
}

func TestRun_WrapsLocalErrors(t *testing.T) {
	f := newFixture(t)
	report := &queue.Report{Fields: map[string]string{}}
	err := f.j.run(context.Background(), report, fleet.ScopePool, "unknown-pool", fleet.Exec("noop", "true"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fleet.ErrUnknownPool))
	var remoteErr *fleet.RemoteError
	assert.False(t, errors.As(err, &remoteErr))
}
