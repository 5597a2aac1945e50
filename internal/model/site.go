package model

import (
	"time"

	"gorm.io/gorm"
)

var SiteTypes = []string{
	"magazine", "committee", "lab", "faculty", "event", "sports_club", "student_group",
	"internal", "initiative", "academic_department", "administrative_department",
	"center", "museum", "college", "other",
}

type Site struct {
	Id         int64          `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name       string         `json:"name" gorm:"column:name;size:255"`
	SiteType   string         `json:"site_type" gorm:"column:site_type;size:32"`
	Routes     []int64        `json:"routes" gorm:"column:routes;type:text;serializer:json"`
	Instances  []int64        `json:"instances" gorm:"column:instances;type:text;serializer:json"`
	Creator    string         `json:"creator" gorm:"column:creator;size:100"`
	Modifier   string         `json:"modifier" gorm:"column:modifier;size:100"`
	CreateTime time.Time      `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime time.Time      `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

func (Site) TableName() string {
	return "site"
}
