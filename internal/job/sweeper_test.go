package job

import (
	"context"
	"testing"
	"time"

	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/pkg/remote"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) backup(t *testing.T, instanceID int64, created time.Time) *model.Backup {
	t.Helper()
	b := &model.Backup{
		InstanceID: instanceID,
		State:      model.BackupStateComplete,
		Database:   "/srv/backups/x.sql.gz",
		Files:      "/srv/backups/x-files.tar.gz",
		CreateTime: created,
	}
	require.NoError(t, f.backups.Create(context.Background(), b))
	return b
}

func TestRemoveOldBackups_Boundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	kept := f.backup(t, 1, testNow.Add(-BackupRetention))
	removed := f.backup(t, 1, testNow.Add(-BackupRetention-time.Second))

	n, err := f.j.RemoveOldBackups(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.backups.GetByID(ctx, kept.Id)
	require.NoError(t, err)
	assert.NotNil(t, got)
	got, err = f.backups.GetByID(ctx, removed.Id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRemoveExtraBackups_KeepsNewest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var all []*model.Backup
	for i := 0; i < 7; i++ {
		all = append(all, f.backup(t, 9, testNow.Add(-time.Duration(i)*time.Hour)))
	}
	f.backup(t, 10, testNow)

	n, err := f.j.RemoveExtraBackups(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := f.backups.ListByInstance(ctx, 9)
	require.NoError(t, err)
	require.Len(t, left, MaxBackupsPerSite)
	for i, b := range left {
		assert.Equal(t, all[i].Id, b.Id)
	}

	// 再次执行没有可删除的备份
	n, err = f.j.RemoveExtraBackups(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRemoveBackup_FileFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.backup(t, 1, testNow.Add(-BackupRetention-time.Hour))
	f.runner = func(host, command string) (*remote.Result, error) {
		return nil, &remote.ExitError{Host: host, ExitStatus: 1, Stderr: "read-only file system"}
	}
	n, err := f.j.RemoveOldBackups(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err := f.backups.GetByID(ctx, b.Id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAvailableInstancesCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.code(t, "drupal", model.CodeTypeCore, true)
	f.instance(t, "p1inst0001", model.InstanceStatusAvailable)
	f.instance(t, "p1inst0002", model.InstanceStatusLaunched)

	f.q.EXPECT().Submit(gomock.Any(), orchestrator.JobInstanceProvision, gomock.Any()).Return("id", nil).Times(2)
	n, err := f.j.AvailableInstancesCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := f.instances.CountByStatus(ctx, model.InstanceStatusAvailable, model.InstanceStatusPending)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	n, err = f.j.AvailableInstancesCheck(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteStuckPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stuck := f.instance(t, "p1inst0001", model.InstanceStatusPending, createdAt(testNow.Add(-21*time.Minute)))
	fresh := f.instance(t, "p1inst0002", model.InstanceStatusPending, createdAt(testNow.Add(-19*time.Minute)))
	f.instance(t, "p1inst0003", model.InstanceStatusAvailable, createdAt(testNow.Add(-time.Hour)))

	f.q.EXPECT().Submit(gomock.Any(), orchestrator.JobInstanceRemove, gomock.Any()).Return("id", nil).Times(1)
	n, err := f.j.DeleteStuckPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.instances.GetByID(ctx, stuck.Id)
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = f.instances.GetByID(ctx, fresh.Id)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestTakeDownOldInstances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path, route := "history", int64(3)
	old := f.instance(t, "p1inst0001", model.InstanceStatusLaunched, createdAt(testNow.Add(-36*24*time.Hour)), func(inst *model.Instance) {
		inst.Path = &path
		inst.Routes.PrimaryRoute = &route
	})
	f.instance(t, "p1inst0002", model.InstanceStatusLaunched, createdAt(testNow.Add(-34*24*time.Hour)))

	f.q.EXPECT().Submit(gomock.Any(), orchestrator.JobInstanceRemove, gomock.Any()).Return("id", nil).Times(1)
	n, err := f.j.TakeDownOldInstances(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err := f.instances.GetByID(ctx, old.Id)
	require.NoError(t, err)
	assert.Nil(t, got)

	// 生产环境不执行
	f.j.env = "prod"
	f.instance(t, "p1inst0003", model.InstanceStatusAvailable, createdAt(testNow.Add(-40*24*time.Hour)))
	n, err = f.j.TakeDownOldInstances(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRemoveOrphanStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inst := f.instance(t, "p1inst0001", model.InstanceStatusInstalled)
	require.NoError(t, f.statistics.Create(ctx, &model.Statistics{InstanceID: inst.Id}))
	require.NoError(t, f.statistics.Create(ctx, &model.Statistics{InstanceID: 404}))

	n, err := f.j.RemoveOrphanStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	stats, err := f.statistics.GetByInstance(ctx, inst.Id)
	require.NoError(t, err)
	assert.NotNil(t, stats)
}

func TestVerifyStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.instance(t, "p1instbbbb", model.InstanceStatusLaunched)
	b := f.instance(t, "p1instaaaa", model.InstanceStatusLaunched)
	for _, id := range []int64{a.Id, b.Id} {
		require.NoError(t, f.statistics.Create(ctx, &model.Statistics{InstanceID: id}))
	}
	// autoUpdateTime 使用真实时间，把当前时间推后超过阈值
	f.j.now = func() time.Time { return time.Now().Add(StatisticsStaleness + time.Hour) }

	n, err := f.j.VerifyStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, f.sink.got, 1)
	assert.False(t, f.sink.got[0].Success)
	assert.Equal(t, "p1instaaaa, p1instbbbb", f.sink.got[0].Fields["sids"])
}

func TestRebalanceUpdateGroups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	home := model.HomepagePath
	var insts []*model.Instance
	for i, sid := range []string{"p1inst0001", "p1inst0002", "p1inst0003"} {
		group := 7
		insts = append(insts, f.instance(t, sid, model.InstanceStatusLaunched, func(inst *model.Instance) {
			inst.UpdateGroup = group + i
		}))
	}
	homepage := f.instance(t, "p1homepage", model.InstanceStatusLaunched, func(inst *model.Instance) {
		inst.Path = &home
	})
	f.instance(t, "p1inst0004", model.InstanceStatusDown)

	n, err := f.j.RebalanceUpdateGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	for i, inst := range insts {
		got, err := f.instances.GetByID(ctx, inst.Id)
		require.NoError(t, err)
		assert.Equal(t, i, got.UpdateGroup)
	}
	got, err := f.instances.GetByID(ctx, homepage.Id)
	require.NoError(t, err)
	assert.Equal(t, orchestrator.HomepageUpdateGroup, got.UpdateGroup)

	n, err = f.j.RebalanceUpdateGroups(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
