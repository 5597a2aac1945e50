package handler

import (
	"net/http"

	v1 "atlas/api/v1"
	"atlas/internal/service"

	"github.com/gin-gonic/gin"
)

type SiteHandler struct {
	*Handler
	siteService service.SiteService
}

func NewSiteHandler(handler *Handler, siteService service.SiteService) *SiteHandler {
	return &SiteHandler{
		Handler:     handler,
		siteService: siteService,
	}
}

// CreateSite godoc
// @Summary 创建站点
// @Tags 站点模块
// @Accept json
// @Produce json
// @Param request body v1.CreateSiteRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/sites [post]
func (h *SiteHandler) CreateSite(ctx *gin.Context) {
	req := new(v1.CreateSiteRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	site, err := h.siteService.CreateSite(ctx, req)
	if err != nil {
		h.fail(ctx, "siteService.CreateSite", err)
		return
	}
	v1.HandleSuccess(ctx, site)
}

// UpdateSite godoc
// @Summary 更新站点
// @Tags 站点模块
// @Accept json
// @Produce json
// @Param id path int true "site ID"
// @Param request body v1.UpdateSiteRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/sites/{id} [put]
func (h *SiteHandler) UpdateSite(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	req := new(v1.UpdateSiteRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	site, err := h.siteService.UpdateSite(ctx, id, req)
	if err != nil {
		h.fail(ctx, "siteService.UpdateSite", err)
		return
	}
	v1.HandleSuccess(ctx, site)
}

// DeleteSite godoc
// @Summary 删除站点
// @Description 同时删除站点下的实例和统计数据
// @Tags 站点模块
// @Produce json
// @Param id path int true "site ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/sites/{id} [delete]
func (h *SiteHandler) DeleteSite(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.siteService.DeleteSite(ctx, id); err != nil {
		h.fail(ctx, "siteService.DeleteSite", err)
		return
	}
	v1.HandleSuccess(ctx, nil)
}

// GetSite godoc
// @Summary 站点详情
// @Tags 站点模块
// @Produce json
// @Param id path int true "site ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/sites/{id} [get]
func (h *SiteHandler) GetSite(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	site, err := h.siteService.GetSite(ctx, id)
	if err != nil {
		h.fail(ctx, "siteService.GetSite", err)
		return
	}
	v1.HandleSuccess(ctx, site)
}

// ListSites godoc
// @Summary 站点列表
// @Tags 站点模块
// @Produce json
// @Param where query string false "JSON 条件列表"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} v1.ListResponse
// @Router /api/v1/sites [get]
func (h *SiteHandler) ListSites(ctx *gin.Context) {
	req, ok := bindList(ctx)
	if !ok {
		return
	}
	data, err := h.siteService.ListSites(ctx, req)
	if err != nil {
		h.fail(ctx, "siteService.ListSites", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}
