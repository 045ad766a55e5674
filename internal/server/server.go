// Package server wires repositories, services and handlers into the HTTP
// router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/task-manager/internal/handlers"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/middleware"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/services"
)

// Dependencies are the collaborators the router is built from.
type Dependencies struct {
	DB       *gorm.DB
	Tokens   services.TokenIssuer
	Notifier services.AccountNotifier
	Log      *zap.Logger
}

// New builds the gin engine with every route of the API.
func New(deps Dependencies) *gin.Engine {
	userRepo := repository.NewUserRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)

	authService := services.NewAuthService(userRepo, deps.Tokens, deps.Notifier, deps.Log)
	userService := services.NewUserService(userRepo, deps.Notifier, deps.Log)
	taskService := services.NewTaskService(taskRepo)

	authHandler := handlers.NewAuthHandler(authService, deps.Log)
	userHandler := handlers.NewUserHandler(userService, deps.Log)
	taskHandler := handlers.NewTaskHandler(taskService, deps.Log)

	requireAuth := middleware.RequireAuth(authService)
	requireTask := middleware.RequireTaskOwnership(taskService, deps.Log)

	r := gin.New()
	r.Use(logger.RequestLogger(deps.Log), gin.Recovery())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Manager API is running",
		})
	})

	// User routes
	users := r.Group("/users")
	{
		users.POST("", authHandler.Signup)
		users.POST("/login", authHandler.Login)
		users.GET("/:id/avatar", userHandler.GetAvatar)

		users.POST("/logout", requireAuth, authHandler.Logout)
		users.POST("/logout/all", requireAuth, authHandler.LogoutAll)

		me := users.Group("/me", requireAuth)
		{
			me.GET("", userHandler.GetCurrentUser)
			me.PATCH("", userHandler.UpdateCurrentUser)
			me.DELETE("", userHandler.DeleteCurrentUser)
			me.POST("/avatar", userHandler.UploadAvatar)
			me.DELETE("/avatar", userHandler.DeleteAvatar)
		}
	}

	// Task routes (protected)
	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/:id", requireTask, taskHandler.GetTask)
		tasks.PATCH("/:id", requireTask, taskHandler.UpdateTask)
		tasks.DELETE("/:id", requireTask, taskHandler.DeleteTask)
	}

	return r
}
