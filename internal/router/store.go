package router

import (
	"github.com/gin-gonic/gin"
)

func InitCodeRouter(deps RouterDeps, r *gin.RouterGroup) {
	g := r.Group("/code")
	{
		g.GET("", deps.CodeHandler.ListCode)
		g.GET("/:id", deps.CodeHandler.GetCode)
		g.POST("", deps.CodeHandler.CreateCode)
		g.PUT("/:id", deps.CodeHandler.UpdateCode)
		g.DELETE("/:id", deps.CodeHandler.DeleteCode)
	}
}

func InitInstanceRouter(deps RouterDeps, r *gin.RouterGroup) {
	// :key 可以是数字 ID 或 sid
	g := r.Group("/instances")
	{
		g.GET("", deps.InstanceHandler.ListInstances)
		g.GET("/:key", deps.InstanceHandler.GetInstance)
		g.POST("", deps.InstanceHandler.CreateInstance)
		g.PUT("/:key", deps.InstanceHandler.UpdateInstance)
		g.PATCH("/:key", deps.InstanceHandler.UpdateInstance)
		g.DELETE("/:key", deps.InstanceHandler.DeleteInstance)
	}
}

func InitRouteRouter(deps RouterDeps, r *gin.RouterGroup) {
	g := r.Group("/routes")
	{
		g.GET("", deps.RouteHandler.ListRoutes)
		g.GET("/:id", deps.RouteHandler.GetRoute)
		g.POST("", deps.RouteHandler.CreateRoute)
		g.PUT("/:id", deps.RouteHandler.UpdateRoute)
		g.DELETE("/:id", deps.RouteHandler.DeleteRoute)
	}
}

func InitSiteRouter(deps RouterDeps, r *gin.RouterGroup) {
	g := r.Group("/sites")
	{
		g.GET("", deps.SiteHandler.ListSites)
		g.GET("/:id", deps.SiteHandler.GetSite)
		g.POST("", deps.SiteHandler.CreateSite)
		g.PUT("/:id", deps.SiteHandler.UpdateSite)
		g.DELETE("/:id", deps.SiteHandler.DeleteSite)
	}
}

func InitStatisticsRouter(deps RouterDeps, r *gin.RouterGroup) {
	g := r.Group("/statistics")
	{
		g.GET("", deps.StatisticsHandler.ListStatistics)
		g.GET("/:id", deps.StatisticsHandler.GetStatistics)
		g.POST("", deps.StatisticsHandler.SaveStatistics)
		g.DELETE("/:id", deps.StatisticsHandler.DeleteStatistics)
	}
}

func InitBackupRouter(deps RouterDeps, r *gin.RouterGroup) {
	g := r.Group("/backups")
	{
		g.GET("", deps.BackupHandler.ListBackups)
		g.GET("/:id", deps.BackupHandler.GetBackup)
		g.POST("", deps.BackupHandler.CreateBackup)
		g.POST("/:id/restore", deps.BackupHandler.RestoreBackup)
	}
}

func InitCommandRouter(deps RouterDeps, r *gin.RouterGroup) {
	g := r.Group("/commands")
	{
		g.GET("", deps.CommandHandler.ListCommands)
		g.GET("/:id", deps.CommandHandler.GetCommand)
		g.POST("", deps.CommandHandler.CreateCommand)
		g.PUT("/:id", deps.CommandHandler.UpdateCommand)
		g.DELETE("/:id", deps.CommandHandler.DeleteCommand)
		g.POST("/:id/run", deps.CommandHandler.RunCommand)
	}
}
