package v1

// ListRequest 通用列表查询，where 为 JSON 编码的条件列表
type ListRequest struct {
	Where    string `form:"where" example:"[{\"field\":\"status\",\"op\":\"eq\",\"value\":\"launched\"}]"`
	Sort     string `form:"sort" example:"-id"`
	Page     int    `form:"page" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,max=2000" example:"500"`
}

type ListResponseData struct {
	Total int64       `json:"total"`
	List  interface{} `json:"list"`
}

type ListResponse struct {
	Response
	Data ListResponseData
}

// JobSubmittedData 异步任务已入队
type JobSubmittedData struct {
	JobID string `json:"job_id"`
}

type JobSubmittedResponse struct {
	Response
	Data JobSubmittedData
}
