package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	BackupTypeOnDemand = "on_demand"
	BackupTypeUpdate   = "update"

	BackupStatePending  = "pending"
	BackupStateComplete = "complete"
	BackupStateFailed   = "failed"
)

type Backup struct {
	Id         int64          `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	InstanceID int64          `json:"instance_id" gorm:"column:instance_id;not null;index"`
	BackupType string         `json:"backup_type" gorm:"column:backup_type;size:16;default:'on_demand'"`
	State      string         `json:"state" gorm:"column:state;size:16;default:'pending'"`
	Database   string         `json:"database" gorm:"column:database_file;size:512"` // 数据库导出文件路径
	Files      string         `json:"files" gorm:"column:files_archive;size:512"`    // 文件归档路径
	Creator    string         `json:"creator" gorm:"column:creator;size:100"`
	CreateTime time.Time      `json:"create_time" gorm:"column:gmt_create;autoCreateTime;index"`
	UpdateTime time.Time      `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

func (Backup) TableName() string {
	return "backup"
}
