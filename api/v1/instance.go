package v1

type InstanceSettingsRequest struct {
	PageCacheMaximumAge int   `json:"page_cache_maximum_age" example:"3600"`
	SiteimproveSite     int64 `json:"siteimprove_site"`
	SiteimproveGroup    int64 `json:"siteimprove_group"`
}

type CreateInstanceRequest struct {
	Type     string                   `json:"type" binding:"omitempty,oneof=express legacy homepage" example:"express"`
	Pool     string                   `json:"pool" example:"poolb-express"`
	Core     int64                    `json:"core"`
	Profile  int64                    `json:"profile"`
	Package  []int64                  `json:"package"`
	Settings *InstanceSettingsRequest `json:"settings,omitempty"`
	SiteID   *int64                   `json:"site_id,omitempty"`
	Tag      []string                 `json:"tag"`
}

// UpdateInstanceRequest status 只接受请求可发起的过渡状态
type UpdateInstanceRequest struct {
	Status      *string                  `json:"status,omitempty" example:"launching"`
	Core        *int64                   `json:"core,omitempty"`
	Profile     *int64                   `json:"profile,omitempty"`
	Package     *[]int64                 `json:"package,omitempty"`
	Settings    *InstanceSettingsRequest `json:"settings,omitempty"`
	SiteID      *int64                   `json:"site_id,omitempty"`
	UpdateGroup *int                     `json:"update_group,omitempty"`
	Tag         *[]string                `json:"tag,omitempty"`
}
