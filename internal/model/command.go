package model

import (
	"time"

	"gorm.io/gorm"
)

// Command 批量命令：按 Query 选出实例，逐个执行 Commands
type Command struct {
	Id           int64          `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name         string         `json:"name" gorm:"column:name;size:128;not null"`
	Commands     []string       `json:"commands" gorm:"column:commands;type:text;serializer:json"`
	Query        []Filter       `json:"query" gorm:"column:query;type:text;serializer:json"`
	SingleServer bool           `json:"single_server" gorm:"column:single_server;default:true"`
	Creator      string         `json:"creator" gorm:"column:creator;size:100"`
	Modifier     string         `json:"modifier" gorm:"column:modifier;size:100"`
	CreateTime   time.Time      `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime   time.Time      `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

func (Command) TableName() string {
	return "command"
}
