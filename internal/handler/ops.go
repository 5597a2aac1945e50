package handler

import (
	"net/http"

	v1 "atlas/api/v1"
	"atlas/internal/notify"
	"atlas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// Version 构建时通过 -ldflags "-X atlas/internal/handler.Version=..." 注入
var Version = "dev"

type OpsHandler struct {
	*Handler
	conf       *viper.Viper
	opsService service.OpsService
	hub        *notify.Hub
}

func NewOpsHandler(handler *Handler, conf *viper.Viper, opsService service.OpsService, hub *notify.Hub) *OpsHandler {
	return &OpsHandler{
		Handler:    handler,
		conf:       conf,
		opsService: opsService,
		hub:        hub,
	}
}

// GetJob godoc
// @Summary 任务结果
// @Description 任务未结束时返回 404
// @Tags 运维模块
// @Produce json
// @Param id path string true "job ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/jobs/{id} [get]
func (h *OpsHandler) GetJob(ctx *gin.Context) {
	result, err := h.opsService.GetJob(ctx, ctx.Param("id"))
	if err != nil {
		h.fail(ctx, "opsService.GetJob", err)
		return
	}
	v1.HandleSuccess(ctx, result)
}

// ImportCode godoc
// @Summary 从其他环境导入代码定义
// @Tags 运维模块
// @Accept json
// @Produce json
// @Param request body v1.ImportCodeRequest true "params"
// @Success 200 {object} v1.JobSubmittedResponse
// @Router /api/v1/ops/import-code [post]
func (h *OpsHandler) ImportCode(ctx *gin.Context) {
	req := new(v1.ImportCodeRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	data, err := h.opsService.ImportCode(ctx, req)
	if err != nil {
		h.fail(ctx, "opsService.ImportCode", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// ImportBackup godoc
// @Summary 从其他环境导入备份
// @Tags 运维模块
// @Accept json
// @Produce json
// @Param request body v1.ImportBackupRequest true "params"
// @Success 200 {object} v1.JobSubmittedResponse
// @Router /api/v1/ops/import-backup [post]
func (h *OpsHandler) ImportBackup(ctx *gin.Context) {
	req := new(v1.ImportBackupRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	data, err := h.opsService.ImportBackup(ctx, req)
	if err != nil {
		h.fail(ctx, "opsService.ImportBackup", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// ClearPHPCache godoc
// @Summary 清理全部 web 节点的 PHP 缓存
// @Tags 运维模块
// @Produce json
// @Success 200 {object} v1.JobSubmittedResponse
// @Router /api/v1/ops/clear-php-cache [post]
func (h *OpsHandler) ClearPHPCache(ctx *gin.Context) {
	data, err := h.opsService.ClearPHPCache(ctx)
	if err != nil {
		h.fail(ctx, "opsService.ClearPHPCache", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// UpdateHomepageFiles godoc
// @Summary 同步首页文件
// @Tags 运维模块
// @Produce json
// @Success 200 {object} v1.JobSubmittedResponse
// @Router /api/v1/ops/homepage-files [post]
func (h *OpsHandler) UpdateHomepageFiles(ctx *gin.Context) {
	data, err := h.opsService.UpdateHomepageFiles(ctx)
	if err != nil {
		h.fail(ctx, "opsService.UpdateHomepageFiles", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// UpdateSettingsFile godoc
// @Summary 重写 settings 文件
// @Description instance_id 为空时处理全部已安装实例
// @Tags 运维模块
// @Accept json
// @Produce json
// @Param request body v1.SettingsFileRequest true "params"
// @Success 200 {object} v1.JobSubmittedResponse
// @Router /api/v1/ops/settings-file [post]
func (h *OpsHandler) UpdateSettingsFile(ctx *gin.Context) {
	req := new(v1.SettingsFileRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	data, err := h.opsService.UpdateSettingsFile(ctx, req)
	if err != nil {
		h.fail(ctx, "opsService.UpdateSettingsFile", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// Cron godoc
// @Summary 触发实例 cron 批次
// @Tags 运维模块
// @Accept json
// @Produce json
// @Param request body v1.CronRequest true "params"
// @Success 200 {object} v1.JobSubmittedResponse
// @Router /api/v1/ops/cron [post]
func (h *OpsHandler) Cron(ctx *gin.Context) {
	req := new(v1.CronRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}
	data, err := h.opsService.Cron(ctx, req)
	if err != nil {
		h.fail(ctx, "opsService.Cron", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// Sweep godoc
// @Summary 手动触发清理任务
// @Tags 运维模块
// @Produce json
// @Param name path string true "sweeper 名称" example(remove_old_backups)
// @Success 200 {object} v1.JobSubmittedResponse
// @Failure 400 {object} v1.Response
// @Router /api/v1/ops/sweep/{name} [post]
func (h *OpsHandler) Sweep(ctx *gin.Context) {
	data, err := h.opsService.Sweep(ctx, ctx.Param("name"))
	if err != nil {
		h.fail(ctx, "opsService.Sweep", err)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// Outcomes godoc
// @Summary 订阅任务结果
// @Description WebSocket，每个任务完成时推送一条 Outcome
// @Tags 运维模块
// @Router /api/v1/outcomes/ws [get]
func (h *OpsHandler) Outcomes(ctx *gin.Context) {
	h.hub.ServeWS(ctx.Writer, ctx.Request)
}

// GetVersion godoc
// @Summary 版本信息
// @Tags 运维模块
// @Produce json
// @Success 200 {object} v1.Response
// @Router /version [get]
func (h *OpsHandler) GetVersion(ctx *gin.Context) {
	v1.HandleSuccess(ctx, v1.VersionData{
		Version: Version,
		Env:     h.conf.GetString("env"),
	})
}
