package model

import (
	"time"

	"gorm.io/gorm"
)

type InstanceStatus string

const (
	InstanceStatusPending    InstanceStatus = "pending"
	InstanceStatusAvailable  InstanceStatus = "available"
	InstanceStatusInstalling InstanceStatus = "installing"
	InstanceStatusInstalled  InstanceStatus = "installed"
	InstanceStatusLaunching  InstanceStatus = "launching"
	InstanceStatusLaunched   InstanceStatus = "launched"
	InstanceStatusLocked     InstanceStatus = "locked"
	InstanceStatusTakeDown   InstanceStatus = "take_down"
	InstanceStatusDown       InstanceStatus = "down"
	InstanceStatusRestore    InstanceStatus = "restore"
)

func (s InstanceStatus) Valid() bool {
	switch s {
	case InstanceStatusPending, InstanceStatusAvailable, InstanceStatusInstalling, InstanceStatusInstalled,
		InstanceStatusLaunching, InstanceStatusLaunched, InstanceStatusLocked, InstanceStatusTakeDown,
		InstanceStatusDown, InstanceStatusRestore:
		return true
	}
	return false
}

type InstanceType string

const (
	InstanceTypeExpress  InstanceType = "express"
	InstanceTypeLegacy   InstanceType = "legacy"
	InstanceTypeHomepage InstanceType = "homepage"
)

func (t InstanceType) Valid() bool {
	return t == InstanceTypeExpress || t == InstanceTypeLegacy || t == InstanceTypeHomepage
}

const (
	PoolExpress  = "poolb-express"
	PoolHomepage = "poolb-homepage"
	PoolLegacy   = "WWWLegacy"
)

func ValidPool(pool string) bool {
	return pool == PoolExpress || pool == PoolHomepage || pool == PoolLegacy
}

// HomepagePath 平台首页实例的固定 path
const HomepagePath = "homepage"

type InstanceCode struct {
	Core    int64   `json:"core" gorm:"column:core;index"`
	Profile int64   `json:"profile" gorm:"column:profile;index"`
	Package []int64 `json:"package" gorm:"column:package;type:text;serializer:json"`
}

type InstanceRoutes struct {
	PrimaryRoute *int64  `json:"primary_route" gorm:"column:primary_route;uniqueIndex"`
	Redirect     []int64 `json:"redirect" gorm:"column:redirect;type:text;serializer:json"`
}

type InstanceSettings struct {
	PageCacheMaximumAge int   `json:"page_cache_maximum_age" gorm:"column:page_cache_maximum_age;default:3600"`
	SiteimproveSite     int64 `json:"siteimprove_site" gorm:"column:siteimprove_site"`
	SiteimproveGroup    int64 `json:"siteimprove_group" gorm:"column:siteimprove_group"`
}

type InstanceDates struct {
	Created   *time.Time `json:"created" gorm:"column:created"`
	Assigned  *time.Time `json:"assigned" gorm:"column:assigned"`
	Launched  *time.Time `json:"launched" gorm:"column:launched"`
	Locked    *time.Time `json:"locked" gorm:"column:locked"`
	TakenDown *time.Time `json:"taken_down" gorm:"column:taken_down"`
}

type Instance struct {
	Id           int64            `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Sid          string           `json:"sid" gorm:"column:sid;size:14;not null;uniqueIndex"`
	Path         *string          `json:"path" gorm:"column:path;size:255;uniqueIndex"`
	Type         InstanceType     `json:"type" gorm:"column:type;size:16;not null;default:'express';index"`
	Status       InstanceStatus   `json:"status" gorm:"column:status;size:16;not null;default:'pending';index"`
	Pool         string           `json:"pool" gorm:"column:pool;size:32;not null;default:'poolb-express'"`
	UpdateGroup  int              `json:"update_group" gorm:"column:update_group;default:0;index"`
	DBKey        string           `json:"-" gorm:"column:db_key;size:255"`
	Code         InstanceCode     `json:"code" gorm:"embedded;embeddedPrefix:code_"`
	Routes       InstanceRoutes   `json:"routes" gorm:"embedded;embeddedPrefix:routes_"`
	Settings     InstanceSettings `json:"settings" gorm:"embedded;embeddedPrefix:settings_"`
	Dates        InstanceDates    `json:"dates" gorm:"embedded;embeddedPrefix:dates_"`
	SiteID       *int64           `json:"site_id" gorm:"column:site_id;index"`
	StatisticsID *int64           `json:"statistics_id" gorm:"column:statistics_id"`
	Tag          []string         `json:"tag" gorm:"column:tag;type:text;serializer:json"`
	Creator      string           `json:"creator" gorm:"column:creator;size:100"`
	Modifier     string           `json:"modifier" gorm:"column:modifier;size:100"`
	CreateTime   time.Time        `json:"create_time" gorm:"column:gmt_create;autoCreateTime;index"`
	UpdateTime   time.Time        `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
	DeletedAt    gorm.DeletedAt   `json:"-" gorm:"column:deleted_at;index"`
}

func (Instance) TableName() string {
	return "instance"
}

// PathString path 未分配时返回空串
func (i *Instance) PathString() string {
	if i.Path == nil {
		return ""
	}
	return *i.Path
}

func (i *Instance) IsHomepage() bool {
	return i.PathString() == HomepagePath
}

// CodeIDs 实例引用的全部 code id（core、profile、package）
func (i *Instance) CodeIDs() []int64 {
	ids := make([]int64, 0, len(i.Code.Package)+2)
	if i.Code.Core != 0 {
		ids = append(ids, i.Code.Core)
	}
	if i.Code.Profile != 0 {
		ids = append(ids, i.Code.Profile)
	}
	return append(ids, i.Code.Package...)
}
