package server

import (
	"context"
	"testing"

	"atlas/internal/mocks"
	"atlas/internal/orchestrator"
	"atlas/internal/queue"
	"atlas/pkg/log"

	"github.com/golang/mock/gomock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_Overrides(t *testing.T) {
	conf := viper.New()
	conf.Set("schedule.sweepers", map[string]interface{}{
		orchestrator.JobAvailableInstancesCheck: "1m",
		orchestrator.JobRemoveUnusedCode:        "off",
	})
	conf.Set("schedule.crons", []map[string]interface{}{
		{"name": "classes_cron", "every": "2h", "include_packages": []int64{7}},
	})

	s, err := NewScheduler(conf, log.NewNop(), nil)
	require.NoError(t, err)
	assert.Equal(t, "1m", s.sweepers[orchestrator.JobAvailableInstancesCheck])
	assert.Equal(t, "0 3 * * *", s.sweepers[orchestrator.JobDeleteAllAvailable])
	require.Len(t, s.batches, 1)
	assert.Equal(t, []int64{7}, s.batches[0].IncludePackages)

	require.NoError(t, s.register(context.Background()))
	// 10 个 sweeper 关掉 1 个，加 1 个 cron 批次
	assert.Len(t, s.scheduler.Jobs(), 10)
}

func TestScheduler_SubmitCarriesActor(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := mocks.NewMockClient(ctrl)
	q.EXPECT().
		Submit(gomock.Any(), orchestrator.JobCron, orchestrator.CronArgs{Status: "launched"}).
		DoAndReturn(func(ctx context.Context, name string, args interface{}, _ ...queue.Option) (string, error) {
			assert.Equal(t, "scheduler", queue.ActorFromContext(ctx))
			return "job-1", nil
		})

	s, err := NewScheduler(viper.New(), log.NewNop(), q)
	require.NoError(t, err)
	s.submit(queue.ContextWithActor(context.Background(), "scheduler"), orchestrator.JobCron, orchestrator.CronArgs{Status: "launched"})
}

func TestDefaultCronBatches(t *testing.T) {
	s, err := NewScheduler(viper.New(), log.NewNop(), nil)
	require.NoError(t, err)
	require.Len(t, s.batches, 2)
	assert.Equal(t, "60m", s.batches[0].Every)
	assert.Equal(t, "3h", s.batches[1].Every)
}
