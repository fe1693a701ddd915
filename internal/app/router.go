package app

import (
	"doe_backend/docs"
	"doe_backend/internal/config"
	"doe_backend/internal/middleware"
	"doe_backend/internal/model"
	"doe_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerChallengeRoutes(authGroup, c)
		a.registerContentRoutes(authGroup, c)
		a.registerUserRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerChallengeRoutes(rg *gin.RouterGroup, c *controllers) {
	challenge := rg.Group("/challenge/:id")
	{
		challenge.GET("", c.challenge.Welcome)
		challenge.GET("/add-content", c.challenge.AddContent)
		challenge.GET("/view", c.challenge.View)
		challenge.POST("/submit-in-add", c.challenge.SubmitInAdd)
		challenge.POST("/submit", c.challenge.Submit)
	}

	// 提交记录的生命周期操作
	rg.GET("/attempt/:id/edit", c.attempt.Edit)
	rg.POST("/attempt/:id/update", c.attempt.Update)
	rg.POST("/mark_done/:attemptId", c.attempt.MarkDone)
	rg.POST("/mark_undone/:attemptId", c.attempt.MarkUndone)
	rg.POST("/delete_attempt/:attemptId", c.attempt.Delete)
	rg.POST("/save_attempts_status", c.attempt.SaveStatuses)
}

func (a *App) registerContentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/pages/:page", c.content.GetPage)
	rg.POST("/videos/:id/complete", c.content.CompleteVideo)
	rg.POST("/fun-facts/:id/complete", c.content.CompleteFunFact)

	rg.GET("/chitchats/:id", c.chitChat.Detail)
	rg.POST("/chitchats/:id/submit", c.chitChat.Submit)

	quizzes := rg.Group("/quizzes")
	{
		quizzes.GET("/:id/questions/:num", c.quiz.Question)
		quizzes.POST("/submit", c.quiz.Submit)
		quizzes.GET("/:id/results", c.quiz.Results)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.user.Profile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.POST("/user/avatar", c.user.UploadAvatar)
	rg.GET("/user/points", c.user.Points)

	rg.GET("/rewards", c.reward.List)
	rg.POST("/rewards/redeem", c.reward.Redeem)
	rg.POST("/invites", c.reward.Invite)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/videos", c.content.UploadVideo)
	}
}
