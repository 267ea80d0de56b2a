package main

import (
	"time"

	"lg/sweat-go-api/internal/dailylog"
	"lg/sweat-go-api/internal/dashboard"
	"lg/sweat-go-api/internal/metrics"
	"lg/sweat-go-api/internal/profile"
	"lg/sweat-go-api/internal/recommend"
	"lg/sweat-go-api/internal/sessions"
)

type healthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Mode    string `json:"mode"`
}

/* ─── Auth ───────────────────────────────────────────────────────────── */

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type localLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type localAccountRequest struct {
	FullName        string `json:"fullName"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type accountResponse struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

type loginResponse struct {
	Token string `json:"token"`
	Mode  string `json:"mode"`
}

/* ─── Profile & metrics ──────────────────────────────────────────────── */

// profileResponse pairs the stored profile with its derived metrics.
// Profile is null until onboarding is complete.
type profileResponse struct {
	Profile *profile.Profile `json:"profile"`
	Metrics metrics.Derived  `json:"metrics"`
}

type bmiRequest struct {
	WeightLbs         float64 `json:"weightLbs"`
	HeightFeet        int     `json:"heightFeet"`
	HeightExtraInches int     `json:"heightExtraInches"`
}

type bmiResponse struct {
	BMI      *float64 `json:"bmi"`
	Category *string  `json:"category"`
}

type tdeeRequest struct {
	metrics.TDEEInput
	Goal metrics.CalorieGoal `json:"goal"`
}

type tdeeResponse struct {
	BMR            *int                `json:"bmr"`
	TDEE           *int                `json:"tdee"`
	TargetCalories *int                `json:"target_calories"`
	Goal           metrics.CalorieGoal `json:"goal"`
}

type recommendationsResponse struct {
	Suggestions []recommend.Suggestion `json:"suggestions"`
}

/* ─── Calorie log ────────────────────────────────────────────────────── */

type dailyLogResponse struct {
	Date    string           `json:"date"`
	Entries []dailylog.Entry `json:"entries"`
	dailylog.Summary
}

type createEntryRequest struct {
	Date     string `json:"date"` // defaults to today
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// calorieGoalRequest carries no target; the server derives it from TDEE
// and goal. A targetCalories field sent by older clients is ignored.
type calorieGoalRequest struct {
	TDEE int                 `json:"tdee"`
	Goal metrics.CalorieGoal `json:"goal"`
}

/* ─── Dashboard ──────────────────────────────────────────────────────── */

type dashboardResponse struct {
	Greeting      string `json:"greeting"`
	Mode          string `json:"mode"`
	StepsEnabled  bool   `json:"steps_enabled"`
	DailyStepGoal int    `json:"daily_step_goal"`
	dashboard.Snapshot
	SecondsToReset int64     `json:"seconds_to_reset"`
	NextReset      time.Time `json:"next_reset"`
}

// stepsRequest carries either a delta or an absolute count, not both.
type stepsRequest struct {
	Delta *int `json:"delta"`
	Total *int `json:"total"`
}

/* ─── Sessions ───────────────────────────────────────────────────────── */

type createSessionRequest struct {
	Note string `json:"note"`
}

type cachedSessionsResponse struct {
	Sessions    []sessions.Session `json:"sessions"`
	RefreshedAt *time.Time         `json:"refreshed_at"`
	Error       string             `json:"error,omitempty"`
}
