package routes

import (
	"net/http"

	"sawaal/handlers"
	"sawaal/middleware"
	"sawaal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the feed is read-only and public
	},
}

func SetupRoutes(
	router *gin.Engine,
	quizHandler *handlers.QuizHandler,
	pageHandler *handlers.PageHandler,
	adminHandler *handlers.AdminHandler,
	authService *services.AuthService,
	hub *services.Hub,
	logger *zap.Logger,
) {
	// Pages
	router.GET("/", pageHandler.Home)
	router.GET("/categories", pageHandler.Categories)
	router.GET("/quiz/:category", pageHandler.Quiz)
	router.GET("/result", pageHandler.Result)
	router.GET("/replay_or_quit", pageHandler.ReplayOrQuit)

	router.POST("/submit_quiz", quizHandler.SubmitQuiz)

	// API routes
	api := router.Group("/api")
	{
		api.GET("/categories", quizHandler.GetCategories)
		api.GET("/quiz", quizHandler.GetQuiz)

		admin := api.Group("/admin")
		{
			admin.POST("/login", adminHandler.Login)

			protected := admin.Group("/")
			protected.Use(middleware.AuthMiddleware(authService))
			{
				protected.GET("/results", adminHandler.ListResults)
				protected.DELETE("/categories/:name/questions", adminHandler.FlushCategory)
			}
		}
	}

	// Live feed of graded submissions
	router.GET("/ws/results", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade has already written the HTTP error.
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		if client := hub.RegisterClient(conn); client == nil {
			logger.Debug("websocket rejected, hub stopped")
		}
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "result_subscribers": hub.ClientCount()})
	})
}
