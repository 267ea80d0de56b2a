package main

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lg/sweat-go-api/internal/appctx"
	"lg/sweat-go-api/internal/dailylog"
	"lg/sweat-go-api/internal/dashboard"
	"lg/sweat-go-api/internal/sessions"
	"lg/sweat-go-api/internal/store"
)

// Handler holds shared dependencies for all route handlers.
type Handler struct {
	app      *appctx.Context
	calories *dailylog.Log
	counters *dashboard.Counters
	backend  *sessions.Client
	poller   *sessions.Poller // nil when polling is disabled
	now      func() time.Time // overridable for tests
}

func newHandler(app *appctx.Context, s store.Store, backend *sessions.Client, counters *dashboard.Counters) *Handler {
	return &Handler{
		app:      app,
		calories: dailylog.New(s),
		counters: counters,
		backend:  backend,
		now:      time.Now,
	}
}

/* ─── Response helpers ───────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// backendError maps a failed backend call to a response. A 401 from the
// backend is passed through so the client can send the user to login;
// anything else is a 502. Both carry the backend's status and body.
func backendError(c *gin.Context, where string, err error) {
	log.Printf("[%s] backend error: %v", where, err)

	var apiErr *sessions.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":          "not authenticated with the workout backend: " + apiErr.Error(),
				"backend_status": apiErr.StatusCode,
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":          apiErr.Error(),
			"backend_status": apiErr.StatusCode,
		})
		return
	}
	apiError(c, http.StatusBadGateway, "workout backend unavailable: "+err.Error())
}

/* ─── Middleware ─────────────────────────────────────────────────────── */

// tokenMiddleware resolves the backend token for the request. An explicit
// Bearer header wins; otherwise the token saved at login is used. No token
// means the request goes to the backend anonymously.
func (h *Handler) tokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		if token == "" {
			token = h.app.Token()
		}
		c.Set("token", token)
		c.Next()
	}
}

/* ─── Routes ─────────────────────────────────────────────────────────── */

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	api := router.Group("/api", h.tokenMiddleware())
	api.GET("/health", h.health)

	api.POST("/auth/signup", h.signup)
	api.POST("/auth/login", h.login)
	api.POST("/auth/local-account", h.createLocalAccount)
	api.POST("/auth/local-login", h.localLogin)
	api.POST("/auth/logout", h.logout)

	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.putProfile)

	api.GET("/metrics", h.getMetrics)
	api.POST("/metrics/bmi", h.calculateBMI)
	api.POST("/metrics/tdee", h.calculateTDEE)
	api.GET("/recommendations", h.getRecommendations)

	api.GET("/calorie-log/daily", h.getDailyLog)
	api.DELETE("/calorie-log/daily", h.clearDailyLog)
	api.POST("/calorie-log/entries", h.createCalorieEntry)
	api.DELETE("/calorie-log/entries/:id", h.deleteCalorieEntry)
	api.GET("/calorie-log/goal", h.getCalorieGoal)
	api.PUT("/calorie-log/goal", h.putCalorieGoal)

	api.GET("/dashboard", h.getDashboard)
	api.POST("/dashboard/steps", h.postSteps)

	api.GET("/sessions", h.listSessions)
	api.GET("/sessions/cached", h.cachedSessions)
	api.POST("/sessions", h.createSession)
	api.PUT("/sessions/:id", h.updateSession)
	api.DELETE("/sessions/:id", h.deleteSession)
	api.POST("/sessions/:id/sets", h.addSet)
	api.DELETE("/sets/:id", h.deleteSet)
}

// health reports local liveness plus the backend's status. The local API
// answering is what matters for 200; backend failure is reported inline.
// GET /api/health.
func (h *Handler) health(c *gin.Context) {
	resp := healthResponse{Status: "ok", Mode: string(h.app.Mode())}
	status, err := h.backend.Health(c)
	if err != nil {
		log.Printf("[health] backend unreachable: %v", err)
		resp.Backend = "unreachable"
	} else {
		resp.Backend = status
	}
	c.JSON(http.StatusOK, resp)
}
