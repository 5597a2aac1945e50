package v1

import "atlas/internal/model"

type CreateCommandRequest struct {
	Name         string         `json:"name" binding:"required" example:"enable news"`
	Commands     []string       `json:"commands" binding:"required,min=1"`
	Query        []model.Filter `json:"query"`
	SingleServer *bool          `json:"single_server,omitempty"`
}

type UpdateCommandRequest struct {
	Name         *string         `json:"name,omitempty"`
	Commands     *[]string       `json:"commands,omitempty"`
	Query        *[]model.Filter `json:"query,omitempty"`
	SingleServer *bool           `json:"single_server,omitempty"`
}
