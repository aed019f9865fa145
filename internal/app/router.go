package app

import (
	"clever_backend/docs"
	"clever_backend/internal/config"
	"clever_backend/internal/middleware"
	"clever_backend/internal/model"
	"clever_backend/pkg/monitoring"
	"clever_backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret, s.auth))
	{
		authGroup.POST("/logout", c.auth.Logout)
		authGroup.GET("/me", c.auth.Me)

		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	authLimit := security.NewLimiter(cfg.RateLimit.AuthMaxRequests, cfg.RateLimit.Window()).Middleware("auth")

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", authLimit, c.auth.Register)
		public.POST("/login", authLimit, c.auth.Login)
		public.GET("/groups", c.group.ListAll)
	}
}

func (a *App) registerStudentRoutes(api *gin.RouterGroup, c *controllers) {
	student := api.Group("/student")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.GET("/tests", c.test.ListForStudent)
		student.GET("/tests/:id", c.attempt.Start)
		student.POST("/tests/:id/submit", c.attempt.Submit)
		student.GET("/tests/:id/result", c.attempt.MyResult)
		student.GET("/results", c.attempt.MyResults)
	}
}

func (a *App) registerTeacherRoutes(api *gin.RouterGroup, c *controllers) {
	teacher := api.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/groups", c.group.ListOwned)
		teacher.POST("/groups", c.group.Create)

		teacher.GET("/tests", c.test.ListOwned)
		teacher.POST("/tests", c.test.Create)
		teacher.GET("/tests/:id", c.test.Get)
		teacher.PATCH("/tests/:id/active", c.test.SetActive)
		teacher.GET("/tests/:id/catalog", c.test.Preview)
		teacher.GET("/tests/:id/levels", c.level.List)
		teacher.PUT("/tests/:id/levels", c.level.Replace)
		teacher.GET("/tests/:id/results", c.attempt.TestResults)
	}
}
