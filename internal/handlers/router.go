package handlers

import (
	"fmt"
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/justsurfingit/nextstep-web/internal/services"
	"github.com/justsurfingit/nextstep-web/internal/session"
	"github.com/justsurfingit/nextstep-web/internal/views"
)

// Deps is everything the router wires into handlers. Assistant is optional.
type Deps struct {
	Sessions           *session.Manager
	Auth               *services.AuthService
	Jobs               *services.JobService
	Accounts           *services.AccountService
	Applications       *services.ApplicationService
	Assistant          PostingExtractor
	MaxUploadBytes     int64
	CORSAllowedOrigins []string
	Logger             *slog.Logger
}

func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger), d.Sessions.Middleware())
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = d.MaxUploadBytes

	authHandler := NewAuthHandler(d.Auth)
	jobHandler := NewJobHandler(d.Jobs, d.Assistant)
	accountHandler := NewAccountHandler(d.Accounts, d.MaxUploadBytes)
	applicationHandler := NewApplicationHandler(d.Applications, d.Jobs, d.MaxUploadBytes)

	r.GET("/", Home)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", authHandler.Register)
	r.POST("/logout", authHandler.Logout)
	r.GET("/browse", jobHandler.Browse)
	r.GET("/jobs", jobHandler.Browse)

	private := r.Group("/", RequireSession())
	{
		private.GET("/manage", jobHandler.Manage)
		private.GET("/manage-jobs", jobHandler.Manage)
		private.POST("/manage", jobHandler.CreateJob)
		private.POST("/manage/:id/delete", jobHandler.DeleteJob)
		if d.Assistant != nil {
			private.POST("/manage/assist", jobHandler.Assist)
		}

		private.GET("/account", accountHandler.Show)
		private.POST("/account", accountHandler.Update)

		private.GET("/applications", applicationHandler.List)
		private.POST("/applications/:id/:action", applicationHandler.Decide)

		private.GET("/jobs/:id/apply", applicationHandler.ApplyPage)
		private.POST("/jobs/:id/apply", applicationHandler.Apply)
	}

	api := r.Group("/api/v1", cors.New(corsConfig(d.CORSAllowedOrigins)))
	{
		api.GET("/health", HealthCheck)
		api.GET("/session", SessionInfo)
		api.OPTIONS("/*path", func(c *gin.Context) {})
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r, nil
}

// corsConfig allows any origin unless a list is configured. Credentials
// are only allowed for an explicit list.
func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}
