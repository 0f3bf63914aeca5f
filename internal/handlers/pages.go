package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/nextstep-web/internal/session"
	"github.com/justsurfingit/nextstep-web/internal/views"
)

func Home(c *gin.Context) {
	c.HTML(http.StatusOK, views.HomeTemplate, views.NewPage("", session.FromGin(c).Current()))
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SessionInfo is GET /api/v1/session. The access token itself stays on the
// server; callers only learn whether one is held.
func SessionInfo(c *gin.Context) {
	s := session.FromGin(c).Current()
	c.JSON(http.StatusOK, gin.H{
		"authenticated":     s.Authenticated(),
		session.KeyUsername: s.Username,
		session.KeyUserRole: s.Role,
	})
}
