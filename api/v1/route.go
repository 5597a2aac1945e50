package v1

type CreateRouteRequest struct {
	RouteType      string   `json:"route_type" binding:"required,oneof=poolb-express poolb-homepage legacy redirect" example:"poolb-express"`
	RouteStatus    string   `json:"route_status" binding:"omitempty,oneof=active inactive" example:"active"`
	ActiveOnLaunch bool     `json:"active_on_launch"`
	Source         string   `json:"source" binding:"required" example:"physics"`
	Destination    string   `json:"destination"`
	Regex          bool     `json:"regex"`
	PathPreserving bool     `json:"path_preserving"`
	ResponseCode   int      `json:"response_code" example:"301"`
	InstanceID     *int64   `json:"instance_id,omitempty"`
	SiteID         *int64   `json:"site_id,omitempty"`
	Tag            []string `json:"tag"`
}

// UpdateRouteRequest source 创建后不可修改
type UpdateRouteRequest struct {
	RouteType      *string   `json:"route_type,omitempty"`
	RouteStatus    *string   `json:"route_status,omitempty"`
	ActiveOnLaunch *bool     `json:"active_on_launch,omitempty"`
	Source         *string   `json:"source,omitempty"`
	Destination    *string   `json:"destination,omitempty"`
	Regex          *bool     `json:"regex,omitempty"`
	PathPreserving *bool     `json:"path_preserving,omitempty"`
	ResponseCode   *int      `json:"response_code,omitempty"`
	InstanceID     *int64    `json:"instance_id,omitempty"`
	SiteID         *int64    `json:"site_id,omitempty"`
	Tag            *[]string `json:"tag,omitempty"`
}
