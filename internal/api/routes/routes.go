package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kindredlabs/matchmaker/internal/api/handlers"
	"github.com/kindredlabs/matchmaker/internal/api/middleware"
)

type Deps struct {
	Auth        *handlers.AuthHandler
	Matchmaking *handlers.MatchmakingHandler
	Candidates  *handlers.CandidateHandler
	WS          *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/auth/register", d.Auth.Register)
	r.POST("/auth/login", d.Auth.Login)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/matchmaking/message", d.Matchmaking.Message)
	auth.POST("/matchmaking/voice", d.Matchmaking.Voice)
	auth.GET("/matchmaking/session", d.Matchmaking.GetSession)
	auth.DELETE("/matchmaking/session", d.Matchmaking.Reset)

	auth.GET("/catalog/categories", d.Candidates.Categories)

	auth.GET("/candidates", d.Candidates.Browse)
	auth.POST("/candidates/import", middleware.RequireAdmin(), d.Candidates.Import)
	auth.POST("/candidates/:id/speak", d.Candidates.Speak)
	auth.POST("/candidates/speak/stop", d.Candidates.StopSpeak)
	auth.POST("/candidates/warmup", d.Candidates.Warmup)

	// WebSocket
	auth.GET("/ws/matchmaking", d.WS.MatchmakingWS)
}
