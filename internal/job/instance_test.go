package job

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"atlas/internal/fleet"
	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/queue"
	"atlas/pkg/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJob(t *testing.T, name string, args interface{}) *queue.Job {
	t.Helper()
	job, err := queue.NewJob(name, args, testNow, queue.WithActor("alice"))
	require.NoError(t, err)
	return job
}

func launchingInstance(t *testing.T, f *fixture) *model.Instance {
	path, route := "physics", int64(1)
	return f.instance(t, "p1physics01", model.InstanceStatusLaunching, func(inst *model.Instance) {
		inst.Path = &path
		inst.Routes.PrimaryRoute = &route
	})
}

func launchArgs(inst *model.Instance) orchestrator.InstanceUpdateArgs {
	return orchestrator.InstanceUpdateArgs{
		InstanceID: inst.Id,
		Changes:    orchestrator.InstanceChanges{From: model.InstanceStatusInstalled, To: model.InstanceStatusLaunching},
	}
}

func TestInstanceUpdate_Launch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inst := launchingInstance(t, f)

	var (
		mu       sync.Mutex
		commands []string
	)
	f.runner = func(host, command string) (*remote.Result, error) {
		mu.Lock()
		commands = append(commands, host+": "+command)
		mu.Unlock()
		return &remote.Result{Host: host}, nil
	}

	report, err := f.j.InstanceUpdate(ctx, newJob(t, orchestrator.JobInstanceUpdate, launchArgs(inst)))
	require.NoError(t, err)
	assert.Equal(t, "launched", report.Fields["status"])
	for _, host := range []string{"web1", "web2"} {
		assert.True(t, hasCommand(commands, host+": (mkdir -p '/srv/web' && ln -sfn '/srv/instances/code/p1physics01' '/srv/web/physics')"))
	}
	assert.True(t, hasCommand(commands, "web3: sudo service php-fpm reload"))
	assert.True(t, hasCommand(commands, "cc all --uri='https://sites.example.edu/physics'"))

	stored, err := f.instances.GetByID(ctx, inst.Id)
	require.NoError(t, err)
	assert.Equal(t, model.InstanceStatusLaunched, stored.Status)
	assert.Equal(t, 4, stored.UpdateGroup)
	assert.NotNil(t, stored.Dates.Launched)
}

func TestInstanceUpdate_LaunchHomepageRunsOnHomepagePool(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path, route := model.HomepagePath, int64(1)
	inst := f.instance(t, "p1homepage1", model.InstanceStatusLaunching, func(inst *model.Instance) {
		inst.Path = &path
		inst.Routes.PrimaryRoute = &route
	})

	var (
		mu       sync.Mutex
		commands []string
	)
	f.runner = func(host, command string) (*remote.Result, error) {
		mu.Lock()
		commands = append(commands, host+": "+command)
		mu.Unlock()
		return &remote.Result{Host: host}, nil
	}

	_, err := f.j.InstanceUpdate(ctx, newJob(t, orchestrator.JobInstanceUpdate, launchArgs(inst)))
	require.NoError(t, err)
	assert.True(t, hasCommand(commands, "web3: /usr/local/bin/atlas-homepage-files"))
	for _, host := range []string{"web1", "web2"} {
		assert.False(t, hasCommand(commands, host+": /usr/local/bin/atlas-homepage-files"))
	}

	_, err = f.j.UpdateHomepageFiles(ctx, newJob(t, orchestrator.JobUpdateHomepageFiles, nil))
	require.NoError(t, err)
	n := 0
	for _, c := range commands {
		if strings.HasPrefix(c, "web3: /usr/local/bin/atlas-homepage-files") {
			n++
		}
	}
	assert.Equal(t, 2, n)
}

func TestInstanceUpdate_LaunchFailureLeavesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inst := launchingInstance(t, f)
	f.runner = func(host, command string) (*remote.Result, error) {
		if host == "web2" && strings.Contains(command, "/srv/web/physics") {
			return &remote.Result{Host: host, ExitStatus: 1}, &remote.ExitError{Host: host, ExitStatus: 1, Stderr: "permission denied"}
		}
		return &remote.Result{Host: host}, nil
	}

	report, err := f.j.InstanceUpdate(ctx, newJob(t, orchestrator.JobInstanceUpdate, launchArgs(inst)))
	var remoteErr *fleet.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.False(t, remoteErr.Hosts["web2"].Success)
	assert.True(t, remoteErr.Hosts["web1"].Success)
	assert.Equal(t, string(orchestrator.StepLaunch), report.Fields["failed_step"])

	stored, err := f.instances.GetByID(ctx, inst.Id)
	require.NoError(t, err)
	assert.Equal(t, model.InstanceStatusLaunching, stored.Status)
	assert.Nil(t, stored.Dates.Launched)
}

func TestInstanceUpdate_MissingCodeTouchesNoHost(t *testing.T) {
	f := newFixture(t)
	inst := f.instance(t, "p1inst0001", model.InstanceStatusLaunched, func(inst *model.Instance) {
		inst.Code.Package = []int64{404}
	})
	f.runner = func(host, command string) (*remote.Result, error) {
		t.Fatalf("unexpected call on %s", host)
		return nil, nil
	}
	_, err := f.j.InstanceUpdate(context.Background(), newJob(t, orchestrator.JobInstanceUpdate, orchestrator.InstanceUpdateArgs{
		InstanceID: inst.Id,
		Changes:    orchestrator.InstanceChanges{Package: true, CodeIDs: []int64{404}},
	}))
	var depErr *orchestrator.DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, []int64{404}, depErr.Missing)
}

func TestInstanceUpdate_TakeDownRemovesStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inst := f.instance(t, "p1inst0001", model.InstanceStatusTakeDown)
	require.NoError(t, f.statistics.Create(ctx, &model.Statistics{InstanceID: inst.Id}))

	_, err := f.j.InstanceUpdate(ctx, newJob(t, orchestrator.JobInstanceUpdate, orchestrator.InstanceUpdateArgs{
		InstanceID: inst.Id,
		Changes:    orchestrator.InstanceChanges{From: model.InstanceStatusLaunched, To: model.InstanceStatusTakeDown},
	}))
	require.NoError(t, err)

	stored, err := f.instances.GetByID(ctx, inst.Id)
	require.NoError(t, err)
	assert.Equal(t, model.InstanceStatusDown, stored.Status)
	stats, err := f.statistics.GetByInstance(ctx, inst.Id)
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestInstanceUpdate_StaleStatus(t *testing.T) {
	f := newFixture(t)
	inst := f.instance(t, "p1inst0001", model.InstanceStatusInstalled)
	_, err := f.j.InstanceUpdate(context.Background(), newJob(t, orchestrator.JobInstanceUpdate, launchArgs(inst)))
	assert.ErrorContains(t, err, "expected launching")
}

func TestInstanceProvision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	core := f.code(t, "drupal", model.CodeTypeCore, true)
	profile := f.code(t, "stanford", model.CodeTypeProfile, true)
	inst := f.instance(t, "p1inst0001", model.InstanceStatusPending, func(inst *model.Instance) {
		inst.DBKey = ""
		inst.Code.Core = core.Id
		inst.Code.Profile = profile.Id
	})

	_, err := f.j.InstanceProvision(ctx, newJob(t, orchestrator.JobInstanceProvision, orchestrator.InstanceArgs{InstanceID: inst.Id}))
	require.NoError(t, err)
	assert.Equal(t, []string{"p1inst0001"}, f.db.created)

	stored, err := f.instances.GetByID(ctx, inst.Id)
	require.NoError(t, err)
	assert.Equal(t, model.InstanceStatusAvailable, stored.Status)
	require.NotEmpty(t, stored.DBKey)
	_, err = f.crypter.Decrypt(stored.DBKey)
	assert.NoError(t, err)

	// 重复执行不会再次创建
	report, err := f.j.InstanceProvision(ctx, newJob(t, orchestrator.JobInstanceProvision, orchestrator.InstanceArgs{InstanceID: inst.Id}))
	require.NoError(t, err)
	assert.Equal(t, "available", report.Fields["skipped"])
	assert.Len(t, f.db.created, 1)
}

func TestInstanceRemove_ContinuesWhenDropFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.db.dropErr = errors.New("access denied")
	inst := f.instance(t, "p1inst0001", model.InstanceStatusAvailable)
	require.NoError(t, f.statistics.Create(ctx, &model.Statistics{InstanceID: inst.Id}))

	var (
		mu    sync.Mutex
		hosts []string
	)
	f.runner = func(host, command string) (*remote.Result, error) {
		mu.Lock()
		hosts = append(hosts, host)
		mu.Unlock()
		return &remote.Result{Host: host}, nil
	}
	report, err := f.j.InstanceRemove(ctx, newJob(t, orchestrator.JobInstanceRemove, orchestrator.InstanceRemoveArgs{Instance: *inst}))
	require.NoError(t, err)
	assert.Contains(t, report.Fields["database"], "access denied")
	assert.ElementsMatch(t, []string{"web1", "web2"}, hosts)

	stats, err := f.statistics.GetByInstance(ctx, inst.Id)
	require.NoError(t, err)
	assert.Nil(t, stats)
}
