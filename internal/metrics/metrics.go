// Package metrics derives BMI, TDEE and calorie targets from profile fields.
// Every function is pure: inputs that can't produce a number yield nil
// instead of an error, and callers treat nil as "cannot display".
package metrics

import (
	"math"

	"lg/sweat-go-api/internal/profile"
)

const (
	kgPerLb       = 0.453592
	cmPerInch     = 2.54
	bmiFactor     = 703 // converts lb/in² to kg/m²
	kcalPerStep   = 0.04
	minDailyKcal  = 1200
	defaultFactor = 1.2 // sedentary
	defaultSteps  = 10000
)

// activityMultipliers maps activity levels to their TDEE multiplier. Levels
// missing from the map fall back to the sedentary factor.
var activityMultipliers = map[profile.ActivityLevel]float64{
	profile.Activity1to3: 1.375,
	profile.Activity3to5: 1.55,
	profile.Activity5to7: 1.725,
}

// CalorieGoal is a weekly weight-change pace picked on the calorie screen.
type CalorieGoal string

const (
	Maintain CalorieGoal = "maintain"
	LoseHalf CalorieGoal = "lose-0.5"
	LoseOne  CalorieGoal = "lose-1"
	LoseTwo  CalorieGoal = "lose-2"
	GainHalf CalorieGoal = "gain-0.5"
	GainOne  CalorieGoal = "gain-1"
)

// goalOffsets is the daily kcal adjustment for each pace (3500 kcal ≈ 1 lb).
var goalOffsets = map[CalorieGoal]int{
	Maintain: 0,
	LoseHalf: -250,
	LoseOne:  -500,
	LoseTwo:  -1000,
	GainHalf: 250,
	GainOne:  500,
}

// ValidCalorieGoal reports whether g is one of the known paces.
func ValidCalorieGoal(g CalorieGoal) bool {
	_, ok := goalOffsets[g]
	return ok
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// BMI returns weight/height² × 703 rounded to one decimal, or nil when
// either input is not positive.
func BMI(weightLbs, totalHeightInches float64) *float64 {
	if weightLbs <= 0 || totalHeightInches <= 0 {
		return nil
	}
	bmi := round1(weightLbs / (totalHeightInches * totalHeightInches) * bmiFactor)
	return &bmi
}

// BMICategory buckets a BMI value using the WHO adult ranges.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal"
	case bmi < 30:
		return "overweight"
	}
	return "obese"
}

// TDEEInput is the calculator form. Sex other than "female" uses the male
// constant, matching the form's default selection.
type TDEEInput struct {
	Sex               string                `json:"sex"`
	AgeYears          int                   `json:"age"`
	WeightLbs         float64               `json:"weightLbs"`
	HeightFeet        int                   `json:"heightFeet"`
	HeightExtraInches int                   `json:"heightExtraInches"`
	ActivityLevel     profile.ActivityLevel `json:"activity"`
}

// BMR computes basal metabolic rate via Mifflin-St Jeor. ok is false when
// age, weight or height resolve to zero.
func BMR(in TDEEInput) (bmr float64, ok bool) {
	totalInches := in.HeightFeet*12 + in.HeightExtraInches
	if in.AgeYears <= 0 || in.WeightLbs <= 0 || totalInches <= 0 {
		return 0, false
	}
	weightKG := in.WeightLbs * kgPerLb
	heightCM := float64(totalInches) * cmPerInch
	bmr = 10*weightKG + 6.25*heightCM - 5*float64(in.AgeYears)
	if in.Sex == "female" {
		bmr -= 161
	} else {
		bmr += 5
	}
	return bmr, true
}

// TDEE multiplies BMR by the activity factor and rounds to the nearest kcal.
func TDEE(in TDEEInput) *int {
	bmr, ok := BMR(in)
	if !ok {
		return nil
	}
	mult, found := activityMultipliers[in.ActivityLevel]
	if !found {
		mult = defaultFactor
	}
	tdee := int(math.Round(bmr * mult))
	return &tdee
}

// TargetCalories applies the goal's daily offset to tdee, never going below
// 1200 kcal. Unknown goals are treated as maintain.
func TargetCalories(tdee int, goal CalorieGoal) int {
	target := tdee + goalOffsets[goal]
	if target < minDailyKcal {
		target = minDailyKcal
	}
	return target
}

// StepsToCalories estimates calories burned by walking.
func StepsToCalories(steps int) int {
	if steps <= 0 {
		return 0
	}
	return int(math.Round(float64(steps) * kcalPerStep))
}

// DailyStepGoal scales the step goal with how active the user says they are.
func DailyStepGoal(a profile.ActivityLevel) int {
	switch a {
	case profile.Activity1to3:
		return 6000
	case profile.Activity3to5:
		return 8000
	case profile.Activity5to7:
		return 10000
	}
	return defaultSteps
}

// Derived is recomputed on every read and never persisted.
type Derived struct {
	BMI            *float64 `json:"bmi"`
	BMICategory    *string  `json:"bmi_category,omitempty"`
	TDEE           *int     `json:"tdee"`
	TargetCalories *int     `json:"target_calories"`
	DailyStepGoal  int      `json:"daily_step_goal"`
}

// Derive computes all metrics for p. A nil profile yields empty metrics
// with the default step goal.
func Derive(p *profile.Profile, goal CalorieGoal) Derived {
	if p == nil {
		return Derived{DailyStepGoal: defaultSteps}
	}
	d := Derived{
		BMI:           BMI(p.WeightLbs, float64(p.TotalHeightInches())),
		DailyStepGoal: DailyStepGoal(p.ActivityLevel),
	}
	if d.BMI != nil {
		cat := BMICategory(*d.BMI)
		d.BMICategory = &cat
	}
	d.TDEE = TDEE(TDEEInput{
		Sex:               p.Sex,
		AgeYears:          p.AgeYears,
		WeightLbs:         p.WeightLbs,
		HeightFeet:        p.HeightFeet,
		HeightExtraInches: p.HeightExtraInches,
		ActivityLevel:     p.ActivityLevel,
	})
	if d.TDEE != nil {
		target := TargetCalories(*d.TDEE, goal)
		d.TargetCalories = &target
	}
	return d
}
