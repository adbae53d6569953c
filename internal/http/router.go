package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/arju-vk/Bug-Tracker/internal/auth"
	"github.com/arju-vk/Bug-Tracker/internal/config"
)

func NewRouter(cfg config.Config, log zerolog.Logger, svc service, tokens *auth.Manager) *gin.Engine {
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		c.Next()
		log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
	})

	h := NewHandlers(cfg, log, svc, tokens)
	authed := requireAuth(tokens)

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/auth/me", authed, h.Me)
		api.GET("/auth/users", authed, h.ListUsers)

		pr := api.Group("/projects", authed)
		{
			pr.POST("", h.CreateProject)
			pr.GET("", h.ListProjects)
			pr.GET("/:id", h.GetProject)
			pr.PUT("/:id", h.UpdateProject)
			pr.DELETE("/:id", h.DeleteProject)
			pr.POST("/:id/members", h.AddMember)
			pr.DELETE("/:id/members/:userId", h.RemoveMember)
		}

		tk := api.Group("/tickets", authed)
		{
			tk.POST("", h.CreateTicket)
			tk.GET("/project/:projectId", h.ListTickets)
			tk.GET("/:id", h.GetTicket)
			tk.PUT("/:id", h.UpdateTicket)
			tk.DELETE("/:id", h.DeleteTicket)
			tk.PATCH("/:id/status", h.UpdateTicketStatus)
		}

		cm := api.Group("/comments", authed)
		{
			cm.POST("", h.CreateComment)
			cm.GET("/ticket/:ticketId", h.ListComments)
			cm.PUT("/:id", h.UpdateComment)
			cm.DELETE("/:id", h.DeleteComment)
		}
	}

	return r
}
