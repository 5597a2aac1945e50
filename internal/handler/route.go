package handler

import (
	"net/http"

	v1 "atlas/api/v1"
	"atlas/internal/service"

	"github.com/gin-gonic/gin"
)

type RouteHandler struct {
	*Handler
	routeService service.RouteService
}

func NewRouteHandler(handler *Handler, routeService service.RouteService) *RouteHandler {
	return &RouteHandler{
		Handler:      handler,
		routeService: routeService,
	}
}

// CreateRoute godoc
// @Summary 创建路由
// @Tags 路由模块
// @Accept json
// @Produce json
// @Param request body v1.CreateRouteRequest true "params"
// @Success 200 {object} v1.Response
// @Failure 409 {object} v1.Response
// @Router /api/v1/routes [post]
func (h *RouteHandler) CreateRoute(ctx *gin.Context) {
	req := new(v1.CreateRouteRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	route, err := h.routeService.CreateRoute(ctx, req)
	if err != nil {
		h.fail(ctx, "routeService.CreateRoute", err)
		return
	}
	v1.HandleSuccess(ctx, route)
}

// UpdateRoute godoc
// @Summary 更新路由
// @Tags 路由模块
// @Accept json
// @Produce json
// @Param id path int true "route ID"
// @Param request body v1.UpdateRouteRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/routes/{id} [put]
func (h *RouteHandler) UpdateRoute(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	req := new(v1.UpdateRouteRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	route, err := h.routeService.UpdateRoute(ctx, id, req)
	if err != nil {
		h.fail(ctx, "routeService.UpdateRoute", err)
		return
	}
	v1.HandleSuccess(ctx, route)
}

// DeleteRoute godoc
// @Summary 删除路由
// @Tags 路由模块
// @Produce json
// @Param id path int true "route ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/routes/{id} [delete]
func (h *RouteHandler) DeleteRoute(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.routeService.DeleteRoute(ctx, id); err != nil {
		h.fail(ctx, "routeService.DeleteRoute", err)
		return
	}
	v1.HandleSuccess(ctx, nil)
}

// GetRoute godoc
// @Summary 路由详情
// @Tags 路由模块
// @Produce json
// @Param id path int true "route ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/routes/{id} [get]
func (h *RouteHandler) GetRoute(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	route, err := h.routeService.GetRoute(ctx, id)
	if err != nil {
		h.fail(ctx, "routeService.GetRoute", err)
		return
	}
	v1.HandleSuccess(ctx, route)
}

// ListRoutes godoc
// @Summary 路由列表
// @Tags 路由模块
// @Produce json
// @Param where query string false "JSON 条件列表"
// @Param sort query string false "排序字段"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} v1.ListResponse
// @Router /api/v1/routes [get]
func (h *RouteHandler) ListRoutes(ctx *gin.Context) {
	req, ok := bindList(ctx)
	if !ok {
		return
	}
	data, err := h.routeService.ListRoutes(ctx, req)
	if err != nil {
		h.fail(ctx, "routeService.ListRoutes", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}
