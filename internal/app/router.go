package app

import (
	"english_edu_backend/docs"
	"english_edu_backend/internal/config"
	"english_edu_backend/internal/middleware"
	"english_edu_backend/internal/model"
	"english_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)
	a.registerAuthedRoutes(router, c, repos, cfg)
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.POST("/auth/tg", c.auth.TelegramLogin)

		public.GET("/catalog/tree", c.catalog.Tree)

		// Webhook auth is the shared-secret header, not a JWT.
		public.POST("/billing/webhook", c.billing.Webhook)
	}

	// Guest-friendly: a valid token personalizes the response, its absence
	// does not reject the request.
	optional := router.Group("/api")
	optional.Use(middleware.TryAuthMiddleware(cfg))
	{
		optional.POST("/attempts", c.attempt.Submit)
		optional.GET("/lessons/overview", c.progress.LessonsOverview)
		optional.GET("/lessons/:id/next-task", c.task.NextTask)
	}
}

func (a *App) registerAuthedRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	authed := router.Group("/api")
	authed.Use(middleware.AuthMiddleware(cfg))
	{
		authed.GET("/profile", c.auth.Profile)
		authed.GET("/progress/summary", c.progress.Summary)

		pro := authed.Group("/")
		pro.Use(middleware.RequirePro(repos.user))
		{
			pro.GET("/lessons/:id/theory", c.content.Theory)
		}
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/users/:id/plan", c.billing.GrantPlan)
		admin.POST("/users/:id/entitlements", c.billing.SetEntitlement)
		admin.PUT("/lessons/:id/theory", c.content.SetTheory)
		admin.POST("/lessons/:id/media", c.content.UploadMedia)
	}
}
