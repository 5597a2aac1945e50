package handler

import (
	"net/http"

	v1 "atlas/api/v1"
	"atlas/internal/service"

	"github.com/gin-gonic/gin"
)

type CommandHandler struct {
	*Handler
	commandService service.CommandService
}

func NewCommandHandler(handler *Handler, commandService service.CommandService) *CommandHandler {
	return &CommandHandler{
		Handler:        handler,
		commandService: commandService,
	}
}

// CreateCommand godoc
// @Summary 创建批量命令
// @Tags 命令模块
// @Accept json
// @Produce json
// @Param request body v1.CreateCommandRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/commands [post]
func (h *CommandHandler) CreateCommand(ctx *gin.Context) {
	req := new(v1.CreateCommandRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	command, err := h.commandService.CreateCommand(ctx, req)
	if err != nil {
		h.fail(ctx, "commandService.CreateCommand", err)
		return
	}
	v1.HandleSuccess(ctx, command)
}

// UpdateCommand godoc
// @Summary 更新批量命令
// @Tags 命令模块
// @Accept json
// @Produce json
// @Param id path int true "command ID"
// @Param request body v1.UpdateCommandRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/commands/{id} [put]
func (h *CommandHandler) UpdateCommand(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	req := new(v1.UpdateCommandRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	command, err := h.commandService.UpdateCommand(ctx, id, req)
	if err != nil {
		h.fail(ctx, "commandService.UpdateCommand", err)
		return
	}
	v1.HandleSuccess(ctx, command)
}

// DeleteCommand godoc
// @Summary 删除批量命令
// @Tags 命令模块
// @Produce json
// @Param id path int true "command ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/commands/{id} [delete]
func (h *CommandHandler) DeleteCommand(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.commandService.DeleteCommand(ctx, id); err != nil {
		h.fail(ctx, "commandService.DeleteCommand", err)
		return
	}
	v1.HandleSuccess(ctx, nil)
}

// GetCommand godoc
// @Summary 批量命令详情
// @Tags 命令模块
// @Produce json
// @Param id path int true "command ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/commands/{id} [get]
func (h *CommandHandler) GetCommand(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	command, err := h.commandService.GetCommand(ctx, id)
	if err != nil {
		h.fail(ctx, "commandService.GetCommand", err)
		return
	}
	v1.HandleSuccess(ctx, command)
}

// ListCommands godoc
// @Summary 批量命令列表
// @Tags 命令模块
// @Produce json
// @Param where query string false "JSON 条件列表"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} v1.ListResponse
// @Router /api/v1/commands [get]
func (h *CommandHandler) ListCommands(ctx *gin.Context) {
	req, ok := bindList(ctx)
	if !ok {
		return
	}
	data, err := h.commandService.ListCommands(ctx, req)
	if err != nil {
		h.fail(ctx, "commandService.ListCommands", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// RunCommand godoc
// @Summary 执行批量命令
// @Description 按 query 选出实例后逐个执行，返回任务 ID
// @Tags 命令模块
// @Produce json
// @Param id path int true "command ID"
// @Success 200 {object} v1.JobSubmittedResponse
// @Router /api/v1/commands/{id}/run [post]
func (h *CommandHandler) RunCommand(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	data, err := h.commandService.RunCommand(ctx, id)
	if err != nil {
		h.fail(ctx, "commandService.RunCommand", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}
