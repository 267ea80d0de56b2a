package recommend

import (
	"encoding/json"
	"testing"

	"lg/sweat-go-api/internal/profile"
)

func ids(recs []Suggestion) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRecommend_NilProfileIsIdempotent(t *testing.T) {
	want := []string{"walk-20", "stretch-10"}
	for i := 0; i < 3; i++ {
		got := Recommend(nil)
		if !equal(ids(got), want) {
			t.Fatalf("call %d: got %v, want %v", i, ids(got), want)
		}
		// Mutating the result must not leak into later calls.
		got[0].Title = "changed"
	}
}

func TestRecommend_ByGoalAndActivity(t *testing.T) {
	cases := []struct {
		name     string
		goal     profile.Goal
		activity profile.ActivityLevel
		want     []string
	}{
		{"loss casual", profile.GoalWeightLoss, profile.Activity1to3, []string{"cardio-30", "walk-45"}},
		{"muscle moderate", profile.GoalBuildMuscle, profile.Activity3to5, []string{"strength-upper", "strength-lower"}},
		{"muscle very active", profile.GoalBuildMuscle, profile.Activity5to7, []string{"strength-upper", "strength-lower", "hiit-15"}},
		{"health very active", profile.GoalBeHealthier, profile.Activity5to7, []string{"mixed-20", "yoga-15", "hiit-15"}},
		{"unknown goal very active", "bulk", profile.Activity5to7, []string{"hiit-15"}},
		{"unknown goal", "bulk", profile.Activity1to3, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Recommend(&profile.Profile{Goal: tc.goal, ActivityLevel: tc.activity})
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if !equal(ids(got), tc.want) {
				t.Errorf("got %v, want %v", ids(got), tc.want)
			}
		})
	}
}

func TestRecommend_DoesNotShareTable(t *testing.T) {
	p := &profile.Profile{Goal: profile.GoalWeightLoss, ActivityLevel: profile.Activity5to7}
	first := Recommend(p)
	first[0].Calories = 0
	if Recommend(p)[0].Calories != 250 {
		t.Error("mutating a result changed the rule table")
	}
}

// TestRecommend_MobileProfileShape decodes the record the mobile onboarding
// screen writes, which uses short goal ids.
func TestRecommend_MobileProfileShape(t *testing.T) {
	var p profile.Profile
	if err := json.Unmarshal([]byte(`{"goal":"muscle","activity":"5-7"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := ids(Recommend(&p))
	want := []string{"strength-upper", "strength-lower", "hiit-15"}
	if !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
