// Package profile holds the single user profile record captured during
// onboarding and edited later from the account and BMI screens.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lg/sweat-go-api/internal/store"
)

// ActivityLevel is the number of active days per week.
type ActivityLevel string

const (
	Activity1to3 ActivityLevel = "1-3"
	Activity3to5 ActivityLevel = "3-5"
	Activity5to7 ActivityLevel = "5-7"
)

// Goal is the user's fitness goal.
type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalBuildMuscle Goal = "build_muscle"
	GoalBeHealthier Goal = "be_healthier"
)

// goalAliases maps the mobile client's short goal ids onto the canonical ones.
var goalAliases = map[string]Goal{
	"loss":         GoalWeightLoss,
	"muscle":       GoalBuildMuscle,
	"health":       GoalBeHealthier,
	"weight_loss":  GoalWeightLoss,
	"build_muscle": GoalBuildMuscle,
	"be_healthier": GoalBeHealthier,
}

// Label is the human-readable goal name shown on the dashboard.
func (g Goal) Label() string {
	switch g {
	case GoalWeightLoss:
		return "Weight Loss"
	case GoalBuildMuscle:
		return "Build Muscle"
	case GoalBeHealthier:
		return "Be Healthier"
	}
	return "Custom goal"
}

// UnmarshalJSON accepts both the short and the canonical goal ids.
func (g *Goal) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if canonical, ok := goalAliases[s]; ok {
		*g = canonical
		return nil
	}
	*g = Goal(s)
	return nil
}

func (a ActivityLevel) Valid() bool {
	switch a {
	case Activity1to3, Activity3to5, Activity5to7:
		return true
	}
	return false
}

func (g Goal) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalBuildMuscle, GoalBeHealthier:
		return true
	}
	return false
}

// ErrInvalid wraps every validation failure from Validate.
var ErrInvalid = errors.New("invalid profile")

// Profile is the onboarding record. Sex and AgeYears are optional and only
// feed the TDEE calculation.
type Profile struct {
	WeightLbs         float64       `json:"weightLbs"`
	HeightFeet        int           `json:"heightFeet"`
	HeightExtraInches int           `json:"heightExtraInches"`
	ActivityLevel     ActivityLevel `json:"activity"`
	Goal              Goal          `json:"goal"`
	Sex               string        `json:"sex,omitempty"`
	AgeYears          int           `json:"age,omitempty"`
	UpdatedAt         *time.Time    `json:"updatedAt,omitempty"`
}

// TotalHeightInches is feet*12 plus the extra inches.
func (p *Profile) TotalHeightInches() int {
	return p.HeightFeet*12 + p.HeightExtraInches
}

// Validate checks that the record is complete enough for BMI and TDEE.
func (p *Profile) Validate() error {
	switch {
	case p.WeightLbs <= 0:
		return fmt.Errorf("%w: weight must be positive", ErrInvalid)
	case p.HeightFeet < 0:
		return fmt.Errorf("%w: height feet must not be negative", ErrInvalid)
	case p.HeightExtraInches < 0 || p.HeightExtraInches > 11:
		return fmt.Errorf("%w: extra inches must be between 0 and 11", ErrInvalid)
	case p.TotalHeightInches() <= 0:
		return fmt.Errorf("%w: height must be greater than zero", ErrInvalid)
	case !p.ActivityLevel.Valid():
		return fmt.Errorf("%w: activity must be one of: 1-3, 3-5, 5-7", ErrInvalid)
	case !p.Goal.Valid():
		return fmt.Errorf("%w: goal must be one of: weight_loss, build_muscle, be_healthier", ErrInvalid)
	case p.Sex != "" && p.Sex != "male" && p.Sex != "female":
		return fmt.Errorf("%w: sex must be male or female", ErrInvalid)
	case p.AgeYears < 0 || p.AgeYears > 130:
		return fmt.Errorf("%w: age must be between 0 and 130", ErrInvalid)
	}
	return nil
}

// Repository reads and writes the profile through a Store.
type Repository struct {
	store store.Store
	now   func() time.Time
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s, now: time.Now}
}

// Load returns the saved profile, or nil if onboarding hasn't happened yet.
// Falls back to the web client's key when the mobile key is empty.
func (r *Repository) Load(ctx context.Context) (*Profile, error) {
	for _, key := range []string{store.KeyProfile, store.KeyLegacyProfile} {
		var p Profile
		found, err := store.GetJSON(ctx, r.store, key, &p)
		if err != nil {
			return nil, err
		}
		if found {
			return &p, nil
		}
	}
	return nil, nil
}

// Save validates p and overwrites the stored profile.
func (r *Repository) Save(ctx context.Context, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	now := r.now().UTC()
	p.UpdatedAt = &now
	return store.SetJSON(ctx, r.store, store.KeyProfile, p)
}
