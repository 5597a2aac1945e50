package handler

import (
	"net/http"

	v1 "atlas/api/v1"
	"atlas/internal/service"

	"github.com/gin-gonic/gin"
)

type CodeHandler struct {
	*Handler
	codeService service.CodeService
}

func NewCodeHandler(handler *Handler, codeService service.CodeService) *CodeHandler {
	return &CodeHandler{
		Handler:     handler,
		codeService: codeService,
	}
}

// CreateCode godoc
// @Summary 登记代码版本
// @Tags 代码模块
// @Accept json
// @Produce json
// @Param request body v1.CreateCodeRequest true "params"
// @Success 200 {object} v1.Response
// @Failure 409 {object} v1.Response
// @Router /api/v1/code [post]
func (h *CodeHandler) CreateCode(ctx *gin.Context) {
	req := new(v1.CreateCodeRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	code, err := h.codeService.CreateCode(ctx, req)
	if err != nil {
		h.fail(ctx, "codeService.CreateCode", err)
		return
	}
	v1.HandleSuccess(ctx, code)
}

// UpdateCode godoc
// @Summary 更新代码版本
// @Tags 代码模块
// @Accept json
// @Produce json
// @Param id path int true "code ID"
// @Param request body v1.UpdateCodeRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/code/{id} [put]
func (h *CodeHandler) UpdateCode(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	req := new(v1.UpdateCodeRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	code, err := h.codeService.UpdateCode(ctx, id, req)
	if err != nil {
		h.fail(ctx, "codeService.UpdateCode", err)
		return
	}
	v1.HandleSuccess(ctx, code)
}

// DeleteCode godoc
// @Summary 删除代码版本
// @Tags 代码模块
// @Produce json
// @Param id path int true "code ID"
// @Success 200 {object} v1.Response
// @Failure 409 {object} v1.Response
// @Router /api/v1/code/{id} [delete]
func (h *CodeHandler) DeleteCode(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := h.codeService.DeleteCode(ctx, id); err != nil {
		h.fail(ctx, "codeService.DeleteCode", err)
		return
	}
	v1.HandleSuccess(ctx, nil)
}

// GetCode godoc
// @Summary 代码版本详情
// @Tags 代码模块
// @Produce json
// @Param id path int true "code ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/code/{id} [get]
func (h *CodeHandler) GetCode(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	code, err := h.codeService.GetCode(ctx, id)
	if err != nil {
		h.fail(ctx, "codeService.GetCode", err)
		return
	}
	v1.HandleSuccess(ctx, code)
}

// ListCode godoc
// @Summary 代码版本列表
// @Tags 代码模块
// @Produce json
// @Param where query string false "JSON 条件列表"
// @Param sort query string false "排序字段，- 前缀为降序"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} v1.ListResponse
// @Router /api/v1/code [get]
func (h *CodeHandler) ListCode(ctx *gin.Context) {
	req, ok := bindList(ctx)
	if !ok {
		return
	}
	data, err := h.codeService.ListCode(ctx, req)
	if err != nil {
		h.fail(ctx, "codeService.ListCode", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}
