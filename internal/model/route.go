package model

import (
	"time"

	"gorm.io/gorm"
)

type RouteType string

const (
	RouteTypePoolExpress  RouteType = "poolb-express"
	RouteTypePoolHomepage RouteType = "poolb-homepage"
	RouteTypeLegacy       RouteType = "legacy"
	RouteTypeRedirect     RouteType = "redirect"
)

func (t RouteType) Valid() bool {
	switch t {
	case RouteTypePoolExpress, RouteTypePoolHomepage, RouteTypeLegacy, RouteTypeRedirect:
		return true
	}
	return false
}

type RouteStatus string

const (
	RouteStatusActive   RouteStatus = "active"
	RouteStatusInactive RouteStatus = "inactive"
)

type Route struct {
	Id             int64          `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	RouteType      RouteType      `json:"route_type" gorm:"column:route_type;size:16;not null"`
	RouteStatus    RouteStatus    `json:"route_status" gorm:"column:route_status;size:16;not null;default:'inactive'"`
	ActiveOnLaunch bool           `json:"active_on_launch" gorm:"column:active_on_launch;default:false"`
	Source         string         `json:"source" gorm:"column:source;size:255;not null;uniqueIndex"` // 创建后不可修改
	Destination    string         `json:"destination" gorm:"column:destination;size:512"`
	Regex          bool           `json:"regex" gorm:"column:regex;default:false"`
	PathPreserving bool           `json:"path_preserving" gorm:"column:path_preserving;default:false"`
	ResponseCode   int            `json:"response_code" gorm:"column:response_code;default:301"`
	InstanceID     *int64         `json:"instance_id" gorm:"column:instance_id;index"`
	SiteID         *int64         `json:"site_id" gorm:"column:site_id;index"`
	Tag            []string       `json:"tag" gorm:"column:tag;type:text;serializer:json"`
	Creator        string         `json:"creator" gorm:"column:creator;size:100"`
	Modifier       string         `json:"modifier" gorm:"column:modifier;size:100"`
	CreateTime     time.Time      `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime     time.Time      `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

func (Route) TableName() string {
	return "route"
}

// Binds 该路由是否会把实例绑定为主路由
func (r *Route) Binds() bool {
	return r.RouteType == RouteTypePoolExpress && r.RouteStatus == RouteStatusActive && r.InstanceID != nil
}

func ValidResponseCode(code int) bool {
	return code == 301 || code == 302 || code == 307
}
