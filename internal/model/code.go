package model

import (
	"time"

	"gorm.io/gorm"
)

type CodeType string

const (
	CodeTypeLibrary CodeType = "library"
	CodeTypeTheme   CodeType = "theme"
	CodeTypeModule  CodeType = "module"
	CodeTypeCore    CodeType = "core"
	CodeTypeProfile CodeType = "profile"
)

func (t CodeType) Valid() bool {
	switch t {
	case CodeTypeLibrary, CodeTypeTheme, CodeTypeModule, CodeTypeCore, CodeTypeProfile:
		return true
	}
	return false
}

// Dir 部署目录名，library 为 libraries，其余为类型加 s
func (t CodeType) Dir() string {
	if t == CodeTypeLibrary {
		return "libraries"
	}
	return string(t) + "s"
}

// IsPackage module/theme/library 挂在实例的 package 列表中
func (t CodeType) IsPackage() bool {
	return t == CodeTypeModule || t == CodeTypeTheme || t == CodeTypeLibrary
}

// CodeDeploy 实例切换到该 code 时需要追加的部署动作
type CodeDeploy struct {
	RegistryRebuild bool `json:"registry_rebuild" gorm:"column:registry_rebuild;default:false"`
	UpdateDatabase  bool `json:"update_database" gorm:"column:update_database;default:false"`
	CacheClear      bool `json:"cache_clear" gorm:"column:cache_clear"`
}

type Code struct {
	Id           int64          `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name         string         `json:"name" gorm:"column:name;size:128;not null;uniqueIndex:uk_code_identity,priority:1"`
	Version      string         `json:"version" gorm:"column:version;size:64;not null;uniqueIndex:uk_code_identity,priority:2"`
	CodeType     CodeType       `json:"code_type" gorm:"column:code_type;size:16;not null;uniqueIndex:uk_code_identity,priority:3"`
	Label        string         `json:"label" gorm:"column:label;size:255"`
	IsCurrent    bool           `json:"is_current" gorm:"column:is_current;not null;default:false;index"`
	Tag          []string       `json:"tag" gorm:"column:tag;type:text;serializer:json"`
	GitURL       string         `json:"git_url" gorm:"column:git_url;size:512;not null"`
	CommitHash   string         `json:"commit_hash" gorm:"column:commit_hash;size:64;not null;uniqueIndex"`
	Dependencies []int64        `json:"dependencies" gorm:"column:dependencies;type:text;serializer:json"` // 依赖的 code id 列表
	Deploy       CodeDeploy     `json:"deploy" gorm:"embedded;embeddedPrefix:deploy_"`
	Creator      string         `json:"creator" gorm:"column:creator;size:100"`
	Modifier     string         `json:"modifier" gorm:"column:modifier;size:100"`
	CreateTime   time.Time      `json:"create_time" gorm:"column:gmt_create;autoCreateTime;index"`
	UpdateTime   time.Time      `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

func (Code) TableName() string {
	return "code"
}

// Label 缺省时使用 name-version
func (c *Code) DisplayName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name + "-" + c.Version
}
