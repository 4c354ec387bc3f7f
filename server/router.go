package server

import (
	"time"

	"skallars-social/domain/repository"
	"skallars-social/infrastructure/realtime"
	httpHandler "skallars-social/interfaces/http"
	"skallars-social/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	linkedInAuthHandler httpHandler.ILinkedInAuthHandler,
	shareHandler httpHandler.IShareHandler,
	userRepository repository.IUser,
	shareHub *realtime.Hub,
	schedulerSecret string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://www.skallars.sk", "https://admin.skallars.sk", "http://localhost:3000", "https://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return origin == "https://www.skallars.sk" || origin == "https://admin.skallars.sk" || origin == "http://localhost:3000" || origin == "https://localhost:3000"
		},
		MaxAge: 12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)

	// The OAuth redirect arrives without a session token.
	router.GET("/auth/linkedin/callback", linkedInAuthHandler.Callback)

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository))

	api.GET("/linkedin/connect", linkedInAuthHandler.Connect)
	api.GET("/linkedin/status", linkedInAuthHandler.Status)
	api.GET("/linkedin/organizations", linkedInAuthHandler.Organizations)
	api.DELETE("/linkedin/disconnect", linkedInAuthHandler.Disconnect)

	api.POST("/share/schedule", shareHandler.Schedule)
	api.POST("/share/now", shareHandler.ShareNow)
	api.GET("/share/queue", shareHandler.Queue)
	api.GET("/share/logs", shareHandler.Logs)
	api.POST("/share/run", shareHandler.Run)
	if shareHub != nil {
		api.GET("/share/stream", shareHub.Serve)
	}

	// Cron-style trigger, shared secret instead of a user session.
	internal := router.Group("internal")
	internal.Use(middleware.SchedulerSecret(schedulerSecret))
	internal.POST("/share/run", shareHandler.RunInternal)

	return router
}
