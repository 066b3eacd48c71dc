package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/renoa-ops/renoa-api/internal/middleware"
	"github.com/renoa-ops/renoa-api/internal/models"
	"github.com/renoa-ops/renoa-api/pkg/config"
	"github.com/renoa-ops/renoa-api/pkg/logger"
	corsmiddleware "github.com/renoa-ops/renoa-api/pkg/middleware/cors"
	reqidmiddleware "github.com/renoa-ops/renoa-api/pkg/middleware/requestid"
)

func newRouter(cfg *config.Config, logr *zap.Logger, a *app) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.WithResponseMeta())
	r.MaxMultipartMemory = cfg.Evidence.MaxFileSizeBytes

	r.GET("/health", a.metricsHandler.Health)
	r.GET("/ready", a.metricsHandler.Ready)
	r.GET("/metrics", a.metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", a.authHandler.Login)
	authRoutes.POST("/refresh", a.authHandler.Refresh)

	// Evidence links carry their own signed token.
	api.GET("/novedades/:id/evidence",
		middleware.OptionalJWT(a.auth, cfg.JWT.CookieName),
		middleware.Audit(a.audit, models.AuditActionEvidenceRead, "novedad"),
		a.novedadHandler.DownloadEvidence,
	)

	secured := api.Group("")
	secured.Use(middleware.JWT(a.auth, cfg.JWT.CookieName))

	admin := middleware.RequireRoles(models.RoleAdmin)
	editors := middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor)
	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor, models.RoleOperator)

	secured.POST("/auth/logout", a.authHandler.Logout)
	secured.POST("/auth/change-password", a.authHandler.ChangePassword)
	secured.GET("/auth/me", a.authHandler.Me)

	secured.GET("/business-units", anyRole, a.businessUnitHandler.List)

	users := secured.Group("/users")
	users.GET("", editors, a.userHandler.List)
	users.GET("/:id", editors, a.userHandler.Get)
	users.POST("", admin, a.userHandler.Create)
	users.PUT("/:id", admin, a.userHandler.Update)
	users.DELETE("/:id", admin, a.userHandler.Delete)

	posts := secured.Group("/posts")
	posts.GET("", anyRole, a.postHandler.List)
	posts.POST("", admin, a.postHandler.Create)
	posts.PUT("/:id", admin, a.postHandler.Update)
	posts.DELETE("/:id", admin, a.postHandler.Delete)

	configurations := secured.Group("/configurations")
	configurations.GET("", anyRole, a.configurationHandler.List)
	configurations.GET("/applicable", anyRole, a.configurationHandler.Applicable)
	configurations.POST("", admin, a.configurationHandler.Create)
	configurations.DELETE("/:id", admin, a.configurationHandler.Delete)

	records := secured.Group("/records")
	records.GET("", anyRole, a.gridHandler.Records)
	records.POST("", anyRole, a.gridHandler.CreateRecord)
	records.POST("/:id/ratings", anyRole, a.gridHandler.UpdateRatings)

	secured.GET("/grid", anyRole, a.gridHandler.Grid)
	secured.POST("/grid/save", anyRole, a.gridHandler.Save)
	secured.POST("/notes", anyRole, a.noteHandler.Set)
	secured.POST("/export", anyRole, a.exportHandler.Export)

	novedades := secured.Group("/novedades")
	novedades.GET("", anyRole, a.novedadHandler.List)
	novedades.POST("", anyRole, a.novedadHandler.Create)
	novedades.GET("/:id", anyRole, a.novedadHandler.Get)
	novedades.DELETE("/:id", editors, a.novedadHandler.Delete)
	novedades.POST("/:id/evidence", anyRole, a.novedadHandler.UploadEvidence)
	novedades.POST("/:id/notify", editors, a.novedadHandler.Notify)

	statistics := secured.Group("/statistics")
	statistics.GET("/compliance", anyRole, a.statisticsHandler.Compliance)
	statistics.GET("/novedades", anyRole, a.statisticsHandler.Novedades)
	statistics.GET("/system", admin, a.statisticsHandler.System)

	return r
}
