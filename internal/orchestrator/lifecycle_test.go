package orchestrator

import (
	"testing"

	"atlas/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		from, to model.InstanceStatus
		ok       bool
	}{
		{model.InstanceStatusAvailable, model.InstanceStatusInstalling, true},
		{model.InstanceStatusInstalled, model.InstanceStatusLaunching, true},
		{model.InstanceStatusLaunched, model.InstanceStatusLocked, true},
		{model.InstanceStatusLocked, model.InstanceStatusLaunched, true},
		{model.InstanceStatusLaunched, model.InstanceStatusTakeDown, true},
		{model.InstanceStatusDown, model.InstanceStatusRestore, true},
		{model.InstanceStatusInstalling, model.InstanceStatusTakeDown, true},
		{model.InstanceStatusAvailable, model.InstanceStatusLaunched, false},
		{model.InstanceStatusPending, model.InstanceStatusInstalling, false},
		{model.InstanceStatusInstalling, model.InstanceStatusInstalled, false},
		{model.InstanceStatusDown, model.InstanceStatusLaunched, false},
		{model.InstanceStatusLaunched, "bogus", false},
	}
	for _, c := range cases {
		err := ValidateTransition(c.from, c.to)
		if c.ok {
			assert.NoError(t, err, "%s -> %s", c.from, c.to)
		} else {
			assert.Error(t, err, "%s -> %s", c.from, c.to)
		}
	}
}

func TestPlanTransitionOrder(t *testing.T) {
	home := model.HomepagePath
	inst := &model.Instance{Status: model.InstanceStatusLaunching, Path: &home}
	changed := []*model.Code{{Deploy: model.CodeDeploy{RegistryRebuild: true}}}

	p := PlanTransition(inst, InstanceChanges{
		From: model.InstanceStatusInstalled, To: model.InstanceStatusLaunching, Core: true,
	}, changed)
	assert.Equal(t, []Step{
		StepCodeLinks, StepWriteSettings, StepLaunch, StepHomepageFiles,
		StepPHPCacheClear, StepRegistryRebuild, StepCacheClear,
	}, p.Steps)
	assert.Equal(t, model.InstanceStatusLaunched, p.SettingsStatus)
	assert.Equal(t, model.InstanceStatusLaunched, p.FinalStatus)
	assert.True(t, p.AssignUpdateGroup)
}

func TestPlanTransitionLockedOnlyWritesSettings(t *testing.T) {
	inst := &model.Instance{Status: model.InstanceStatusLocked}
	changed := []*model.Code{{Deploy: model.CodeDeploy{UpdateDatabase: true, CacheClear: true}}}
	p := PlanTransition(inst, InstanceChanges{
		From: model.InstanceStatusLaunched, To: model.InstanceStatusLocked, Settings: true,
	}, changed)
	assert.Equal(t, []Step{StepWriteSettings, StepPHPCacheClear}, p.Steps)
	assert.Equal(t, model.InstanceStatusLocked, p.SettingsStatus)
	assert.Empty(t, p.FinalStatus)
}

func TestPlanTransitionTakeDownAndRestore(t *testing.T) {
	inst := &model.Instance{Status: model.InstanceStatusTakeDown}
	p := PlanTransition(inst, InstanceChanges{From: model.InstanceStatusLaunched, To: model.InstanceStatusTakeDown}, nil)
	assert.Equal(t, []Step{StepWriteSettings, StepTakeDown, StepPHPCacheClear}, p.Steps)
	assert.Equal(t, model.InstanceStatusDown, p.FinalStatus)
	assert.True(t, p.DeleteStatistics)

	inst.Status = model.InstanceStatusRestore
	p = PlanTransition(inst, InstanceChanges{From: model.InstanceStatusDown, To: model.InstanceStatusRestore}, nil)
	assert.Equal(t, []Step{StepWriteSettings, StepRestore, StepPHPCacheClear, StepUpdateDatabase, StepCacheClear}, p.Steps)
	assert.Equal(t, model.InstanceStatusInstalled, p.FinalStatus)
}

func TestPlanTransitionPackageChange(t *testing.T) {
	inst := &model.Instance{Status: model.InstanceStatusLaunched}
	changed := []*model.Code{{Deploy: model.CodeDeploy{UpdateDatabase: true}}}
	p := PlanTransition(inst, InstanceChanges{Package: true}, changed)
	assert.Equal(t, []Step{StepCodeLinks, StepUpdateDatabase}, p.Steps)
	assert.True(t, p.NotifyPackages)
	assert.Empty(t, p.FinalStatus)
	assert.True(t, PlanTransition(inst, InstanceChanges{}, nil).Empty())
}

func TestUpdateGroup(t *testing.T) {
	home := model.HomepagePath
	assert.Equal(t, HomepageUpdateGroup, UpdateGroup(&model.Instance{Path: &home}, func(int) int { return 0 }))
	var bound int
	assert.Equal(t, 7, UpdateGroup(&model.Instance{}, func(n int) int { bound = n; return 7 }))
	assert.Equal(t, MaxUpdateGroup+1, bound)
}
