package handler

import (
	"net/http"

	v1 "atlas/api/v1"
	"atlas/internal/service"

	"github.com/gin-gonic/gin"
)

type BackupHandler struct {
	*Handler
	backupService service.BackupService
}

func NewBackupHandler(handler *Handler, backupService service.BackupService) *BackupHandler {
	return &BackupHandler{
		Handler:       handler,
		backupService: backupService,
	}
}

// CreateBackup godoc
// @Summary 创建备份
// @Description 异步执行，返回任务 ID
// @Tags 备份模块
// @Accept json
// @Produce json
// @Param request body v1.CreateBackupRequest true "params"
// @Success 200 {object} v1.JobSubmittedResponse
// @Failure 409 {object} v1.Response
// @Router /api/v1/backups [post]
func (h *BackupHandler) CreateBackup(ctx *gin.Context) {
	req := new(v1.CreateBackupRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	data, err := h.backupService.CreateBackup(ctx, req)
	if err != nil {
		h.fail(ctx, "backupService.CreateBackup", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// RestoreBackup godoc
// @Summary 恢复备份
// @Tags 备份模块
// @Accept json
// @Produce json
// @Param id path int true "backup ID"
// @Param request body v1.RestoreBackupRequest true "params"
// @Success 200 {object} v1.JobSubmittedResponse
// @Failure 409 {object} v1.Response
// @Router /api/v1/backups/{id}/restore [post]
func (h *BackupHandler) RestoreBackup(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	req := new(v1.RestoreBackupRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	data, err := h.backupService.RestoreBackup(ctx, id, req)
	if err != nil {
		h.fail(ctx, "backupService.RestoreBackup", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// GetBackup godoc
// @Summary 备份详情
// @Tags 备份模块
// @Produce json
// @Param id path int true "backup ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/backups/{id} [get]
func (h *BackupHandler) GetBackup(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	backup, err := h.backupService.GetBackup(ctx, id)
	if err != nil {
		h.fail(ctx, "backupService.GetBackup", err)
		return
	}
	v1.HandleSuccess(ctx, backup)
}

// ListBackups godoc
// @Summary 备份列表
// @Tags 备份模块
// @Produce json
// @Param where query string false "JSON 条件列表"
// @Param sort query string false "排序字段"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} v1.ListResponse
// @Router /api/v1/backups [get]
func (h *BackupHandler) ListBackups(ctx *gin.Context) {
	req, ok := bindList(ctx)
	if !ok {
		return
	}
	data, err := h.backupService.ListBackups(ctx, req)
	if err != nil {
		h.fail(ctx, "backupService.ListBackups", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}
