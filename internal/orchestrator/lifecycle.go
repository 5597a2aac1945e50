package orchestrator

import (
	"atlas/internal/model"
)

// 可以通过更新请求直接设置的状态；installed、launched、down 等完成态只由任务写入
var requestTransitions = map[model.InstanceStatus][]model.InstanceStatus{
	model.InstanceStatusAvailable: {model.InstanceStatusInstalling, model.InstanceStatusTakeDown},
	model.InstanceStatusInstalled: {model.InstanceStatusLaunching, model.InstanceStatusTakeDown},
	model.InstanceStatusLaunched:  {model.InstanceStatusLocked, model.InstanceStatusTakeDown},
	model.InstanceStatusLocked:    {model.InstanceStatusLaunched, model.InstanceStatusTakeDown},
	model.InstanceStatusDown:      {model.InstanceStatusRestore},
	// 执行失败停留在中间状态的实例可以下线
	model.InstanceStatusInstalling: {model.InstanceStatusTakeDown},
	model.InstanceStatusLaunching:  {model.InstanceStatusTakeDown},
}

// ValidateTransition 校验请求发起的状态变更
func ValidateTransition(from, to model.InstanceStatus) error {
	if !to.Valid() {
		return &TransitionError{From: from, To: to}
	}
	for _, s := range requestTransitions[from] {
		if s == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}

// Step 实例部署动作
type Step string

const (
	StepCodeLinks       Step = "code_links"
	StepWriteSettings   Step = "write_settings"
	StepLaunch          Step = "launch"
	StepTakeDown        Step = "take_down"
	StepRestore         Step = "restore"
	StepHomepageFiles   Step = "homepage_files"
	StepPHPCacheClear   Step = "php_cache_clear"
	StepRegistryRebuild Step = "registry_rebuild"
	StepUpdateDatabase  Step = "update_database"
	StepCacheClear      Step = "cache_clear"
)

// Plan 一次实例更新要执行的动作，Steps 顺序固定
type Plan struct {
	Steps []Step
	// SettingsStatus 写入 settings 文件的状态，即过渡完成后的状态
	SettingsStatus model.InstanceStatus
	// FinalStatus 全部动作成功后写回的状态，为空表示不修改
	FinalStatus model.InstanceStatus
	// AssignUpdateGroup launching 完成时分配 update_group
	AssignUpdateGroup bool
	DeleteStatistics  bool
	NotifyPackages    bool
}

func (p *Plan) Has(s Step) bool {
	for _, step := range p.Steps {
		if step == s {
			return true
		}
	}
	return false
}

func (p *Plan) Empty() bool {
	return len(p.Steps) == 0 && p.FinalStatus == ""
}

// PlanTransition 根据变化内容生成执行计划
// 顺序：code 链接，settings，状态相关主机动作，PHP 缓存，registry rebuild，updb，应用缓存
// changed 为本次新引用的 code 记录，其 deploy 标志决定后续动作
func PlanTransition(inst *model.Instance, ch InstanceChanges, changed []*model.Code) *Plan {
	p := &Plan{SettingsStatus: inst.Status}
	var (
		settings, launch, takeDown, restore, homepage bool
		php, rr, updb, cc                             bool
	)

	if ch.CodeChanged() {
		for _, c := range changed {
			rr = rr || c.Deploy.RegistryRebuild
			updb = updb || c.Deploy.UpdateDatabase
			cc = cc || c.Deploy.CacheClear
		}
		p.NotifyPackages = ch.Package
	}

	if ch.StatusChanged() {
		switch ch.To {
		case model.InstanceStatusInstalling:
			p.SettingsStatus = model.InstanceStatusInstalled
			p.FinalStatus = model.InstanceStatusInstalled
			settings, php = true, true
		case model.InstanceStatusLaunching:
			p.SettingsStatus = model.InstanceStatusLaunched
			p.FinalStatus = model.InstanceStatusLaunched
			p.AssignUpdateGroup = true
			settings, launch, php, cc = true, true, true, true
			homepage = inst.IsHomepage()
		case model.InstanceStatusLocked:
			p.SettingsStatus = model.InstanceStatusLocked
			settings, php = true, true
		case model.InstanceStatusLaunched:
			// 解锁
			p.SettingsStatus = model.InstanceStatusLaunched
			settings, php = true, true
		case model.InstanceStatusTakeDown:
			p.SettingsStatus = model.InstanceStatusDown
			p.FinalStatus = model.InstanceStatusDown
			p.DeleteStatistics = true
			settings, takeDown = true, true
		case model.InstanceStatusRestore:
			p.SettingsStatus = model.InstanceStatusInstalled
			p.FinalStatus = model.InstanceStatusInstalled
			settings, restore, updb, cc = true, true, true, true
		}
	}

	// 锁定时 settings 已经写过一次
	if ch.Settings && ch.To != model.InstanceStatusLocked {
		settings, php = true, true
	}
	// 锁定中的实例只写 settings
	if ch.StatusChanged() && ch.To == model.InstanceStatusLocked {
		rr, updb, cc = false, false, false
	}
	// settings 文件变化后必须清 PHP 缓存
	php = php || settings

	if ch.CodeChanged() {
		p.Steps = append(p.Steps, StepCodeLinks)
	}
	if settings {
		p.Steps = append(p.Steps, StepWriteSettings)
	}
	switch {
	case launch:
		p.Steps = append(p.Steps, StepLaunch)
	case takeDown:
		p.Steps = append(p.Steps, StepTakeDown)
	case restore:
		p.Steps = append(p.Steps, StepRestore)
	}
	if homepage {
		p.Steps = append(p.Steps, StepHomepageFiles)
	}
	for _, s := range []struct {
		on   bool
		step Step
	}{
		{php, StepPHPCacheClear},
		{rr, StepRegistryRebuild},
		{updb, StepUpdateDatabase},
		{cc, StepCacheClear},
	} {
		if s.on {
			p.Steps = append(p.Steps, s.step)
		}
	}
	return p
}

const (
	HomepageUpdateGroup = 12
	MaxUpdateGroup      = 10
)

// UpdateGroup 首页固定在保留组，其余随机分到 0..MaxUpdateGroup
func UpdateGroup(inst *model.Instance, intn func(n int) int) int {
	if inst.IsHomepage() {
		return HomepageUpdateGroup
	}
	return intn(MaxUpdateGroup + 1)
}
