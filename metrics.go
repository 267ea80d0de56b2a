package main

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/sweat-go-api/internal/metrics"
	"lg/sweat-go-api/internal/recommend"
)

// getMetrics returns BMI, TDEE, target calories and the step goal for the
// stored profile. GET /api/metrics. Fields are null where inputs are missing.
func (h *Handler) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.Derive(h.app.Profile(), h.savedCalorieGoal(c, "getMetrics")))
}

// calculateBMI is the standalone BMI form. POST /api/metrics/bmi.
// Missing or non-positive inputs give a null BMI rather than an error.
func (h *Handler) calculateBMI(c *gin.Context) {
	var body bmiRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.HeightExtraInches < 0 || body.HeightExtraInches > 11 {
		apiError(c, http.StatusBadRequest, "heightExtraInches must be between 0 and 11")
		return
	}

	inches := float64(body.HeightFeet*12 + body.HeightExtraInches)
	resp := bmiResponse{BMI: metrics.BMI(body.WeightLbs, inches)}
	if resp.BMI != nil {
		cat := metrics.BMICategory(*resp.BMI)
		resp.Category = &cat
	}
	c.JSON(http.StatusOK, resp)
}

// calculateTDEE is the calorie calculator form. POST /api/metrics/tdee.
// Body: TDEE inputs plus an optional "goal" pace (default maintain).
func (h *Handler) calculateTDEE(c *gin.Context) {
	var body tdeeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Goal == "" {
		body.Goal = metrics.Maintain
	}
	if !metrics.ValidCalorieGoal(body.Goal) {
		apiError(c, http.StatusBadRequest, "goal must be one of: maintain, lose-0.5, lose-1, lose-2, gain-0.5, gain-1")
		return
	}
	if body.HeightExtraInches < 0 || body.HeightExtraInches > 11 {
		apiError(c, http.StatusBadRequest, "heightExtraInches must be between 0 and 11")
		return
	}
	if body.ActivityLevel != "" && !body.ActivityLevel.Valid() {
		apiError(c, http.StatusBadRequest, "activity must be one of: 1-3, 3-5, 5-7")
		return
	}

	resp := tdeeResponse{Goal: body.Goal}
	if bmr, ok := metrics.BMR(body.TDEEInput); ok {
		rounded := int(math.Round(bmr))
		resp.BMR = &rounded
	}
	resp.TDEE = metrics.TDEE(body.TDEEInput)
	if resp.TDEE != nil {
		target := metrics.TargetCalories(*resp.TDEE, body.Goal)
		resp.TargetCalories = &target
	}
	c.JSON(http.StatusOK, resp)
}

// getRecommendations returns activity suggestions for the stored profile,
// or the generic pair before onboarding. GET /api/recommendations.
func (h *Handler) getRecommendations(c *gin.Context) {
	c.JSON(http.StatusOK, recommendationsResponse{Suggestions: recommend.Recommend(h.app.Profile())})
}
