package v1

type CreateSiteRequest struct {
	Name      string  `json:"name" binding:"required" example:"Physics Department"`
	SiteType  string  `json:"site_type" binding:"required" example:"academic_department"`
	Instances []int64 `json:"instances"`
}

type UpdateSiteRequest struct {
	Name      *string  `json:"name,omitempty"`
	SiteType  *string  `json:"site_type,omitempty"`
	Instances *[]int64 `json:"instances,omitempty"`
}

// StatisticsRequest 实例上报的运行指标，按 instance_id 创建或覆盖
type StatisticsRequest struct {
	InstanceID        int64                  `json:"instance_id" binding:"required"`
	Name              string                 `json:"name"`
	Status            string                 `json:"status"`
	NodesTotal        int                    `json:"nodes_total"`
	DaysSinceLastEdit int                    `json:"days_since_last_edit"`
	BeansTotal        int                    `json:"beans_total"`
	UsersCount        int                    `json:"users_count"`
	Data              map[string]interface{} `json:"data"`
}
