package app

import (
	"wanderlust_backend/docs"
	"wanderlust_backend/internal/config"
	"wanderlust_backend/internal/middleware"
	"wanderlust_backend/internal/model"

	"wanderlust_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerPlayerRoutes(authGroup, c)
		a.registerEditorRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/questions/stats", c.question.Stats)
		public.GET("/questions/categories", c.question.Categories)
		public.GET("/gamification/leaderboard", c.gamification.Leaderboard)
	}
}

func (a *App) registerPlayerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)

	rg.GET("/users/profile", c.user.GetProfile)
	rg.PUT("/users/profile", c.user.UpdatePreferences)
	rg.GET("/users/progress", c.user.GetProgress)
	rg.GET("/users/attempts", c.user.RecentAttempts)

	rg.GET("/questions/feed", c.question.Feed)
	rg.GET("/questions/daily", c.question.Daily)
	rg.POST("/questions/practice", c.question.Practice)
	rg.GET("/questions/challenge", c.question.Challenge)
	rg.GET("/questions/search", c.question.Search)

	rg.POST("/quiz/start", c.quiz.Start)
	rg.GET("/quiz/:id", c.quiz.Get)
	rg.POST("/quiz/:id/answer", c.quiz.Answer)
	rg.POST("/quiz/:id/skip", c.quiz.Skip)

	rg.GET("/gamification/overview", c.gamification.Overview)
	rg.GET("/gamification/achievements", c.gamification.Achievements)
	rg.POST("/gamification/share", c.gamification.Share)
}

func (a *App) registerEditorRoutes(rg *gin.RouterGroup, c *controllers) {
	editor := rg.Group("/")
	editor.Use(middleware.RoleMiddleware(model.Editor, model.Admin))
	{
		editor.POST("/questions", c.question.Create)
		editor.POST("/questions/:id/image", c.question.UploadImage)
	}
}
