package model

import (
	"time"

	"gorm.io/gorm"
)

// Statistics 实例运行指标，与实例一一对应，不参与编排
type Statistics struct {
	Id                int64                  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	InstanceID        int64                  `json:"instance_id" gorm:"column:instance_id;not null;index"`
	Name              string                 `json:"name" gorm:"column:name;size:255"`
	Status            string                 `json:"status" gorm:"column:status;size:32"`
	NodesTotal        int                    `json:"nodes_total" gorm:"column:nodes_total"`
	DaysSinceLastEdit int                    `json:"days_since_last_edit" gorm:"column:days_since_last_edit"`
	BeansTotal        int                    `json:"beans_total" gorm:"column:beans_total"`
	UsersCount        int                    `json:"users_count" gorm:"column:users_count"`
	Data              map[string]interface{} `json:"data" gorm:"column:data;type:text;serializer:json"`
	Creator           string                 `json:"creator" gorm:"column:creator;size:100"`
	Modifier          string                 `json:"modifier" gorm:"column:modifier;size:100"`
	CreateTime        time.Time              `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime        time.Time              `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime;index"`
	DeletedAt         gorm.DeletedAt         `json:"-" gorm:"column:deleted_at;index"`
}

func (Statistics) TableName() string {
	return "statistics"
}
