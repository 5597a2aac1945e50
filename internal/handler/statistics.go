package handler

import (
	"net/http"

	v1 "atlas/api/v1"
	"atlas/internal/service"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	*Handler
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(handler *Handler, statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{
		Handler:           handler,
		statisticsService: statisticsService,
	}
}

// SaveStatistics godoc
// @Summary 上报实例统计
// @Description 按实例 upsert，实例上报脚本调用
// @Tags 统计模块
// @Accept json
// @Produce json
// @Param request body v1.StatisticsRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/statistics [post]
func (h *StatisticsHandler) SaveStatistics(ctx *gin.Context) {
	req := new(v1.StatisticsRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	stats, err := h.statisticsService.SaveStatistics(ctx, req)
	if err != nil {
		h.fail(ctx, "statisticsService.SaveStatistics", err)
		return
	}
	v1.HandleSuccess(ctx, stats)
}

// DeleteStatistics godoc
// @Summary 删除统计
// @Tags 统计模块
// @Produce json
// @Param id path int true "statistics ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/statistics/{id} [delete]
func (h *StatisticsHandler) DeleteStatistics(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.statisticsService.DeleteStatistics(ctx, id); err != nil {
		h.fail(ctx, "statisticsService.DeleteStatistics", err)
		return
	}
	v1.HandleSuccess(ctx, nil)
}

// GetStatistics godoc
// @Summary 统计详情
// @Tags 统计模块
// @Produce json
// @Param id path int true "statistics ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/statistics/{id} [get]
func (h *StatisticsHandler) GetStatistics(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	stats, err := h.statisticsService.GetStatistics(ctx, id)
	if err != nil {
		h.fail(ctx, "statisticsService.GetStatistics", err)
		return
	}
	v1.HandleSuccess(ctx, stats)
}

// ListStatistics godoc
// @Summary 统计列表
// @Tags 统计模块
// @Produce json
// @Param where query string false "JSON 条件列表"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} v1.ListResponse
// @Router /api/v1/statistics [get]
func (h *StatisticsHandler) ListStatistics(ctx *gin.Context) {
	req, ok := bindList(ctx)
	if !ok {
		return
	}
	data, err := h.statisticsService.ListStatistics(ctx, req)
	if err != nil {
		h.fail(ctx, "statisticsService.ListStatistics", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}
