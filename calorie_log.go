package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/sweat-go-api/internal/dailylog"
	"lg/sweat-go-api/internal/metrics"
)

// dateParam reads ?date=YYYY-MM-DD, defaulting to today. Writes a 400 and
// returns false if the value is malformed.
func (h *Handler) dateParam(c *gin.Context, raw string) (string, bool) {
	if raw == "" {
		return dailylog.DateKey(h.now()), true
	}
	key, err := dailylog.ParseDateKey(raw)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return "", false
	}
	return key, true
}

// targetCalories picks the day's budget: the saved calculator goal if there
// is one, else the target derived from the profile. nil if neither exists.
func (h *Handler) targetCalories(c *gin.Context) *int {
	g, err := h.calories.LoadGoal(c)
	if err != nil {
		log.Printf("[targetCalories] failed to load calorie goal: %v", err)
	}
	if g != nil && g.TargetCalories > 0 {
		t := g.TargetCalories
		return &t
	}
	return metrics.Derive(h.app.Profile(), metrics.Maintain).TargetCalories
}

// getDailyLog returns a day's entries with intake totals.
// GET /api/calorie-log/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailyLog(c *gin.Context) {
	date, ok := h.dateParam(c, c.Query("date"))
	if !ok {
		return
	}
	entries, err := h.calories.Entries(c, date)
	if err != nil {
		log.Printf("[getDailyLog] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to load calorie log")
		return
	}
	c.JSON(http.StatusOK, dailyLogResponse{
		Date:    date,
		Entries: entries,
		Summary: dailylog.Summarize(entries, h.targetCalories(c)),
	})
}

// createCalorieEntry appends a food entry. POST /api/calorie-log/entries.
// Body: { "date": "YYYY-MM-DD", "name": "Oatmeal", "calories": 300 }.
// date defaults to today; a blank name becomes "Food".
func (h *Handler) createCalorieEntry(c *gin.Context) {
	var body createEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date, ok := h.dateParam(c, body.Date)
	if !ok {
		return
	}

	entry, err := h.calories.Add(c, date, dailylog.Entry{Name: body.Name, Calories: body.Calories})
	if err != nil {
		if errors.Is(err, dailylog.ErrInvalidEntry) {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[createCalorieEntry] %v", err)
		apiError(c, http.StatusInternalServerError, "could not save entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// deleteCalorieEntry removes one entry from a day.
// DELETE /api/calorie-log/entries/:id?date=YYYY-MM-DD (defaults to today).
func (h *Handler) deleteCalorieEntry(c *gin.Context) {
	date, ok := h.dateParam(c, c.Query("date"))
	if !ok {
		return
	}
	removed, err := h.calories.Remove(c, date, c.Param("id"))
	if err != nil {
		log.Printf("[deleteCalorieEntry] %v", err)
		apiError(c, http.StatusInternalServerError, "could not delete entry")
		return
	}
	if !removed {
		apiError(c, http.StatusNotFound, "entry not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// clearDailyLog deletes every entry for one day. The log is never cleared
// automatically. DELETE /api/calorie-log/daily?date=YYYY-MM-DD.
func (h *Handler) clearDailyLog(c *gin.Context) {
	raw := c.Query("date")
	if raw == "" {
		apiError(c, http.StatusBadRequest, "date query param is required")
		return
	}
	date, ok := h.dateParam(c, raw)
	if !ok {
		return
	}
	if err := h.calories.Clear(c, date); err != nil {
		log.Printf("[clearDailyLog] %v", err)
		apiError(c, http.StatusInternalServerError, "could not clear calorie log")
		return
	}
	c.Status(http.StatusNoContent)
}

// getCalorieGoal returns the saved calculator goal, or 404 if none.
// GET /api/calorie-log/goal.
func (h *Handler) getCalorieGoal(c *gin.Context) {
	g, err := h.calories.LoadGoal(c)
	if err != nil {
		log.Printf("[getCalorieGoal] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to load calorie goal")
		return
	}
	if g == nil {
		apiError(c, http.StatusNotFound, "no calorie goal saved")
		return
	}
	c.JSON(http.StatusOK, g)
}

// putCalorieGoal saves the calculator result as the daily target.
// PUT /api/calorie-log/goal. Body: { "tdee": 2500, "targetCalories": 2000, "goal": "lose-1" }.
func (h *Handler) putCalorieGoal(c *gin.Context) {
	var body calorieGoalRequest
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

	// The target is always derived here so the 1200 kcal floor holds.
	g, err := h.calories.SaveGoal(c, dailylog.Goal{
		TDEE:           body.TDEE,
		TargetCalories: metrics.TargetCalories(body.TDEE, body.Goal),
		Goal:           body.Goal,
	})
	if err != nil {
		if errors.Is(err, dailylog.ErrInvalidEntry) {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[putCalorieGoal] %v", err)
		apiError(c, http.StatusInternalServerError, "could not save calorie goal")
		return
	}
	c.JSON(http.StatusOK, g)
}
