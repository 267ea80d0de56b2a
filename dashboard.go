package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/sweat-go-api/internal/appctx"
	"lg/sweat-go-api/internal/dashboard"
	"lg/sweat-go-api/internal/metrics"
	"lg/sweat-go-api/internal/profile"
)

// getDashboard returns today's live counters, the step goal and the
// countdown to the midnight reset. GET /api/dashboard.
func (h *Handler) getDashboard(c *gin.Context) {
	now := h.now()
	mode := h.app.Mode()
	untilReset := dashboard.UntilMidnight(now)

	var activity profile.ActivityLevel
	if p := h.app.Profile(); p != nil {
		activity = p.ActivityLevel
	}

	greeting := "Welcome"
	if mode == appctx.ModeAdmin {
		greeting = "Welcome, Admin"
	} else if acct := h.app.Account(); acct != nil && acct.DisplayName() != "" {
		greeting = "Welcome, " + acct.DisplayName()
	}

	c.JSON(http.StatusOK, dashboardResponse{
		Greeting:       greeting,
		Mode:           string(mode),
		StepsEnabled:   mode != appctx.ModeAdmin,
		DailyStepGoal:  metrics.DailyStepGoal(activity),
		Snapshot:       h.counters.Snapshot(),
		SecondsToReset: int64(untilReset.Seconds()),
		NextReset:      now.Add(untilReset),
	})
}

// postSteps records pedometer readings. POST /api/dashboard/steps.
// Body: { "delta": 120 } to add, or { "total": 5400 } to replace.
// Rejected in admin mode.
func (h *Handler) postSteps(c *gin.Context) {
	if h.app.Mode() == appctx.ModeAdmin {
		apiError(c, http.StatusForbidden, "step tracking is disabled in admin mode")
		return
	}
	var body stepsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if (body.Delta == nil) == (body.Total == nil) {
		apiError(c, http.StatusBadRequest, "exactly one of delta or total is required")
		return
	}

	var (
		snap dashboard.Snapshot
		err  error
	)
	if body.Delta != nil {
		snap, err = h.counters.AddSteps(*body.Delta)
	} else {
		snap, err = h.counters.SetSteps(*body.Total)
	}
	if errors.Is(err, dashboard.ErrNegativeSteps) {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, snap)
}
