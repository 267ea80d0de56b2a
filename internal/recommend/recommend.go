// Package recommend maps a profile's goal and activity to suggested workouts.
package recommend

import "lg/sweat-go-api/internal/profile"

// Suggestion is one recommended activity with its estimated burn.
type Suggestion struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Calories int    `json:"calories"`
	Note     string `json:"note"`
}

var defaults = []Suggestion{
	{ID: "walk-20", Title: "20 min Walk", Calories: 80, Note: "Gentle movement to get started."},
	{ID: "stretch-10", Title: "10 min Stretch", Calories: 30, Note: "Loosen up your body."},
}

var byGoal = map[profile.Goal][]Suggestion{
	profile.GoalWeightLoss: {
		{ID: "cardio-30", Title: "30 min Cardio", Calories: 250, Note: "Great for burning fat and improving stamina."},
		{ID: "walk-45", Title: "45 min Brisk Walk", Calories: 220, Note: "Low-impact fat-burning session."},
	},
	profile.GoalBuildMuscle: {
		{ID: "strength-upper", Title: "Upper Body Strength", Calories: 180, Note: "Push-ups, rows, presses for muscle growth."},
		{ID: "strength-lower", Title: "Lower Body Strength", Calories: 200, Note: "Squats, lunges, and deadlifts."},
	},
	profile.GoalBeHealthier: {
		{ID: "mixed-20", Title: "20 min Mixed Movement", Calories: 150, Note: "Light cardio + mobility work."},
		{ID: "yoga-15", Title: "15 min Yoga / Mobility", Calories: 70, Note: "Good for stress and joints."},
	},
}

var hiit = Suggestion{ID: "hiit-15", Title: "15 min HIIT", Calories: 200, Note: "Short, intense, big calorie burn."}

// Recommend returns the goal's pair of suggestions, plus HIIT for users
// active 5-7 days a week. Without a profile it returns the two defaults.
// The result is a fresh slice; callers may modify it.
func Recommend(p *profile.Profile) []Suggestion {
	if p == nil {
		return append([]Suggestion(nil), defaults...)
	}
	recs := []Suggestion{}
	recs = append(recs, byGoal[p.Goal]...)
	if p.ActivityLevel == profile.Activity5to7 {
		recs = append(recs, hiit)
	}
	return recs
}
