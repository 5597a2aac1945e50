package v1

type CreateBackupRequest struct {
	InstanceID int64  `json:"instance_id" binding:"required"`
	BackupType string `json:"backup_type" binding:"omitempty,oneof=on_demand update" example:"on_demand"`
}

// RestoreBackupRequest target_instance_id 为空时恢复到备份所属实例
type RestoreBackupRequest struct {
	TargetInstanceID int64 `json:"target_instance_id"`
}
