package router

import (
	"github.com/gin-gonic/gin"
)

func InitOpsRouter(deps RouterDeps, r *gin.RouterGroup) {
	r.GET("/jobs/:id", deps.OpsHandler.GetJob)
	r.GET("/outcomes/ws", deps.OpsHandler.Outcomes)

	g := r.Group("/ops")
	{
		g.POST("/import-code", deps.OpsHandler.ImportCode)
		g.POST("/import-backup", deps.OpsHandler.ImportBackup)
		g.POST("/clear-php-cache", deps.OpsHandler.ClearPHPCache)
		g.POST("/homepage-files", deps.OpsHandler.UpdateHomepageFiles)
		g.POST("/settings-file", deps.OpsHandler.UpdateSettingsFile)
		g.POST("/cron", deps.OpsHandler.Cron)
		g.POST("/sweep/:name", deps.OpsHandler.Sweep)
	}
}
