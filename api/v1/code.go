package v1

type CodeDeployRequest struct {
	RegistryRebuild bool `json:"registry_rebuild"`
	UpdateDatabase  bool `json:"update_database"`
	CacheClear      bool `json:"cache_clear"`
}

type CreateCodeRequest struct {
	Name         string             `json:"name" binding:"required,min=3" example:"stanford_news"`
	Version      string             `json:"version" binding:"required" example:"7.x-2.3"`
	CodeType     string             `json:"code_type" binding:"required,oneof=library theme module core profile" example:"module"`
	Label        string             `json:"label" example:"Stanford News 2.3"`
	IsCurrent    bool               `json:"is_current" example:"true"`
	Tag          []string           `json:"tag"`
	GitURL       string             `json:"git_url" binding:"required" example:"git@github.com:SU-SWS/stanford_news.git"`
	CommitHash   string             `json:"commit_hash" binding:"required" example:"3f2a9c1"`
	Dependencies []int64            `json:"dependencies"`
	Deploy       *CodeDeployRequest `json:"deploy,omitempty"`
}

// UpdateCodeRequest 只修改提供的字段
type UpdateCodeRequest struct {
	Name         *string            `json:"name,omitempty"`
	Version      *string            `json:"version,omitempty"`
	CodeType     *string            `json:"code_type,omitempty"`
	Label        *string            `json:"label,omitempty"`
	IsCurrent    *bool              `json:"is_current,omitempty"`
	Tag          *[]string          `json:"tag,omitempty"`
	GitURL       *string            `json:"git_url,omitempty"`
	CommitHash   *string            `json:"commit_hash,omitempty"`
	Dependencies *[]int64           `json:"dependencies,omitempty"`
	Deploy       *CodeDeployRequest `json:"deploy,omitempty"`
}
