package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/sweat-go-api/internal/metrics"
	"lg/sweat-go-api/internal/profile"
)

// savedCalorieGoal returns the pace from the saved calorie goal, defaulting
// to maintain. Read errors are logged and treated as no saved goal.
func (h *Handler) savedCalorieGoal(c *gin.Context, where string) metrics.CalorieGoal {
	g, err := h.calories.LoadGoal(c)
	if err != nil {
		log.Printf("[%s] failed to load calorie goal: %v", where, err)
		return metrics.Maintain
	}
	if g == nil || !metrics.ValidCalorieGoal(g.Goal) {
		return metrics.Maintain
	}
	return g.Goal
}

// getProfile returns the onboarding profile with derived metrics.
// GET /api/profile. Profile is null before onboarding.
func (h *Handler) getProfile(c *gin.Context) {
	p := h.app.Profile()
	c.JSON(http.StatusOK, profileResponse{
		Profile: p,
		Metrics: metrics.Derive(p, h.savedCalorieGoal(c, "getProfile")),
	})
}

// putProfile replaces the profile. PUT /api/profile.
// Body: { "weightLbs": 180, "heightFeet": 5, "heightExtraInches": 10,
// "activity": "3-5", "goal": "weight_loss", "sex": "male", "age": 30 }.
// Goal also accepts the short forms loss, muscle and health.
func (h *Handler) putProfile(c *gin.Context) {
	var p profile.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.app.SaveProfile(c, &p); err != nil {
		if errors.Is(err, profile.ErrInvalid) {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[putProfile] %v", err)
		apiError(c, http.StatusInternalServerError, "could not save profile")
		return
	}
	saved := h.app.Profile()
	c.JSON(http.StatusOK, profileResponse{
		Profile: saved,
		Metrics: metrics.Derive(saved, h.savedCalorieGoal(c, "putProfile")),
	})
}
