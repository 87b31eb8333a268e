package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "devconnect/internal/app"
	"devconnect/internal/bootstrap"
	"devconnect/internal/platform/rabbitmq"
	"devconnect/internal/repository"
	"devconnect/internal/transport/http/handler"
	"devconnect/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.Mongo)
	profileRepo := repository.NewProfileRepository(app.Mongo)
	postRepo := repository.NewPostRepository(app.Mongo)
	publisher := rabbitmq.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.AccountEventQueue)

	jwtExpiration := time.Duration(app.Config.Auth.JWTExpireSeconds) * time.Second
	authService := appsvc.NewAuthService(userRepo, publisher, app.Logger, app.Config.Auth.JWTSecret, jwtExpiration)
	profileService := appsvc.NewProfileService(profileRepo, userRepo, postRepo, publisher, app.Logger)
	postService := appsvc.NewPostService(postRepo, userRepo, publisher, app.Logger)

	userHandler := handler.NewUserHandler(authService, app.Logger)
	authHandler := handler.NewAuthHandler(authService, app.Logger)
	profileHandler := handler.NewProfileHandler(profileService, app.Logger)
	postHandler := handler.NewPostHandler(postService, app.Logger)

	guard := middleware.AuthToken(app.Config.Auth.JWTSecret)

	api := router.Group("/api")

	users := api.Group("/users")
	users.GET("", userHandler.Index)
	users.POST("", userHandler.Register)

	auth := api.Group("/auth")
	auth.GET("", guard, authHandler.CurrentUser)
	auth.POST("", authHandler.Login)

	profile := api.Group("/profile")
	profile.GET("", profileHandler.All)
	profile.GET("/me", guard, profileHandler.Me)
	profile.GET("/user/:userID", profileHandler.ByUserID)
	profile.POST("", guard, profileHandler.Upsert)
	profile.PUT("/experience", guard, profileHandler.AddExperience)
	profile.DELETE("/experience/:expID", guard, profileHandler.RemoveExperience)
	profile.PUT("/education", guard, profileHandler.AddEducation)
	profile.DELETE("/education/:eduID", guard, profileHandler.RemoveEducation)
	profile.DELETE("", guard, profileHandler.Delete)

	posts := api.Group("/posts")
	posts.Use(guard)
	posts.POST("", postHandler.Create)
	posts.GET("", postHandler.All)
	posts.GET("/:id", postHandler.ByID)
	posts.DELETE("/:id", postHandler.Delete)
	posts.PUT("/like/:id", postHandler.Like)
	posts.PUT("/unlike/:id", postHandler.Unlike)
	posts.POST("/comment/:id", postHandler.AddComment)
	posts.DELETE("/comment/:id/:commentID", postHandler.RemoveComment)

	return router
}
