package orchestrator

import (
	"time"

	"atlas/internal/model"
)

// 任务名
const (
	JobCodeDeploy = "code_deploy"
	JobCodeUpdate = "code_update"
	JobCodeRemove = "code_remove"
	JobCodeHeal   = "code_heal"

	JobInstanceProvision = "instance_provision"
	JobInstanceUpdate    = "instance_update"
	JobInstanceRemove    = "instance_remove"
	JobInstanceHeal      = "instance_heal"

	JobCron                = "cron"
	JobCronRun             = "cron_run"
	JobCommandPrepare      = "command_prepare"
	JobCommandRun          = "command_run"
	JobBackupCreate        = "backup_create"
	JobBackupRestore       = "backup_restore"
	JobImportBackup        = "import_backup"
	JobImportCode          = "import_code"
	JobClearPHPCache       = "clear_php_cache"
	JobUpdateHomepageFiles = "update_homepage_files"
	JobUpdateSettingsFile  = "update_settings_file"

	JobDeleteStuckPending      = "delete_stuck_pending"
	JobAvailableInstancesCheck = "available_instances_check"
	JobDeleteAllAvailable      = "delete_all_available"
	JobRemoveUnusedCode        = "remove_unused_code"
	JobRemoveOrphanStatistics  = "remove_orphan_statistics"
	JobTakeDownOldInstances    = "take_down_old_instances"
	JobVerifyStatistics        = "verify_statistics"
	JobRemoveOldBackups        = "remove_old_backups"
	JobRemoveExtraBackups      = "remove_extra_backups"
	JobRebalanceUpdateGroups   = "rebalance_update_groups"
)

// SweeperJobs 周期性维护任务，可由调度器或运维接口触发
var SweeperJobs = []string{
	JobDeleteStuckPending,
	JobAvailableInstancesCheck,
	JobDeleteAllAvailable,
	JobRemoveUnusedCode,
	JobRemoveOrphanStatistics,
	JobTakeDownOldInstances,
	JobVerifyStatistics,
	JobRemoveOldBackups,
	JobRemoveExtraBackups,
	JobRebalanceUpdateGroups,
}

func IsSweeper(name string) bool {
	for _, s := range SweeperJobs {
		if s == name {
			return true
		}
	}
	return false
}

// ImportBackupTimeLimit 跨环境导入备份的时间限制
const ImportBackupTimeLimit = 2000 * time.Second

type CodeArgs struct {
	CodeID int64 `json:"code_id"`
}

type CodeUpdateArgs struct {
	CodeID   int64      `json:"code_id"`
	Original model.Code `json:"original"`
}

// CodeRemoveArgs 记录已软删除，携带快照
type CodeRemoveArgs struct {
	Code model.Code `json:"code"`
}

type InstanceArgs struct {
	InstanceID int64 `json:"instance_id"`
}

type InstanceUpdateArgs struct {
	InstanceID int64           `json:"instance_id"`
	Changes    InstanceChanges `json:"changes"`
}

type InstanceRemoveArgs struct {
	Instance model.Instance `json:"instance"`
}

type CronArgs struct {
	Status          model.InstanceStatus `json:"status,omitempty"`
	Type            model.InstanceType   `json:"type,omitempty"`
	IncludePackages []int64              `json:"include_packages,omitempty"`
	ExcludePackages []int64              `json:"exclude_packages,omitempty"`
}

type CronRunArgs struct {
	InstanceID int64 `json:"instance_id"`
	BatchArgs
}

type CommandPrepareArgs struct {
	CommandID int64 `json:"command_id"`
}

// BatchArgs 批量任务中的序号，用于日志定位
type BatchArgs struct {
	BatchID string `json:"batch_id,omitempty"`
	Count   int    `json:"count,omitempty"`
	Total   int    `json:"total,omitempty"`
}

type CommandRunArgs struct {
	InstanceID   int64    `json:"instance_id"`
	Commands     []string `json:"commands"`
	SingleServer bool     `json:"single_server"`
	BatchArgs
}

type BackupCreateArgs struct {
	InstanceID int64  `json:"instance_id"`
	BackupType string `json:"backup_type"`
}

type BackupRestoreArgs struct {
	BackupID         int64 `json:"backup_id"`
	TargetInstanceID int64 `json:"target_instance_id"`
}

type ImportBackupArgs struct {
	Env              string `json:"env"`
	BackupID         int64  `json:"backup_id"`
	TargetInstanceID int64  `json:"target_instance_id"`
}

type ImportCodeArgs struct {
	Env string `json:"env"`
}

type UpdateSettingsArgs struct {
	InstanceID int64 `json:"instance_id"`
	BatchArgs
}
