package v1

type ImportCodeRequest struct {
	Env string `json:"env" binding:"required" example:"prod"`
}

type ImportBackupRequest struct {
	Env              string `json:"env" binding:"required" example:"prod"`
	BackupID         int64  `json:"backup_id" binding:"required"`
	TargetInstanceID int64  `json:"target_instance_id" binding:"required"`
}

type CronRequest struct {
	Status          string  `json:"status" example:"launched"`
	Type            string  `json:"type" example:"express"`
	IncludePackages []int64 `json:"include_packages"`
	ExcludePackages []int64 `json:"exclude_packages"`
}

type SettingsFileRequest struct {
	InstanceID int64 `json:"instance_id"`
}

type VersionData struct {
	Version string `json:"version"`
	Env     string `json:"env"`
}
