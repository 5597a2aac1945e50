package handler

import (
	"net/http"

	v1 "atlas/api/v1"
	"atlas/internal/service"

	"github.com/gin-gonic/gin"
)

type InstanceHandler struct {
	*Handler
	instanceService service.InstanceService
}

func NewInstanceHandler(handler *Handler, instanceService service.InstanceService) *InstanceHandler {
	return &InstanceHandler{
		Handler:         handler,
		instanceService: instanceService,
	}
}

// CreateInstance godoc
// @Summary 创建实例
// @Description 写入 requested 状态的实例记录并提交 instance_provision 任务
// @Tags 实例模块
// @Accept json
// @Produce json
// @Param request body v1.CreateInstanceRequest true "params"
// @Success 200 {object} v1.Response
// @Failure 422 {object} v1.Response
// @Router /api/v1/instances [post]
func (h *InstanceHandler) CreateInstance(ctx *gin.Context) {
	req := new(v1.CreateInstanceRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	instance, err := h.instanceService.CreateInstance(ctx, req)
	if err != nil {
		h.fail(ctx, "instanceService.CreateInstance", err)
		return
	}
	v1.HandleSuccess(ctx, instance)
}

// UpdateInstance godoc
// @Summary 更新实例
// @Description status 变化会校验状态机并提交 instance_update 任务
// @Tags 实例模块
// @Accept json
// @Produce json
// @Param key path string true "实例 ID 或 sid"
// @Param request body v1.UpdateInstanceRequest true "params"
// @Success 200 {object} v1.Response
// @Failure 409 {object} v1.Response
// @Router /api/v1/instances/{key} [put]
func (h *InstanceHandler) UpdateInstance(ctx *gin.Context) {
	req := new(v1.UpdateInstanceRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	instance, err := h.instanceService.UpdateInstance(ctx, ctx.Param("key"), req)
	if err != nil {
		h.fail(ctx, "instanceService.UpdateInstance", err)
		return
	}
	v1.HandleSuccess(ctx, instance)
}

// DeleteInstance godoc
// @Summary 删除实例
// @Tags 实例模块
// @Produce json
// @Param key path string true "实例 ID 或 sid"
// @Success 200 {object} v1.Response
// @Router /api/v1/instances/{key} [delete]
func (h *InstanceHandler) DeleteInstance(ctx *gin.Context) {
	if err := h.instanceService.DeleteInstance(ctx, ctx.Param("key")); err != nil {
		h.fail(ctx, "instanceService.DeleteInstance", err)
		return
	}
	v1.HandleSuccess(ctx, nil)
}

// GetInstance godoc
// @Summary 实例详情
// @Tags 实例模块
// @Produce json
// @Param key path string true "实例 ID 或 sid"
// @Success 200 {object} v1.Response
// @Router /api/v1/instances/{key} [get]
func (h *InstanceHandler) GetInstance(ctx *gin.Context) {
	instance, err := h.instanceService.GetInstance(ctx, ctx.Param("key"))
	if err != nil {
		h.fail(ctx, "instanceService.GetInstance", err)
		return
	}
	v1.HandleSuccess(ctx, instance)
}

// ListInstances godoc
// @Summary 实例列表
// @Tags 实例模块
// @Produce json
// @Param where query string false "JSON 条件列表"
// @Param sort query string false "排序字段"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} v1.ListResponse
// @Router /api/v1/instances [get]
func (h *InstanceHandler) ListInstances(ctx *gin.Context) {
	req, ok := bindList(ctx)
	if !ok {
		return
	}
	data, err := h.instanceService.ListInstances(ctx, req)
	if err != nil {
		h.fail(ctx, "instanceService.ListInstances", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}
