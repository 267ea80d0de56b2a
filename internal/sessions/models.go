package sessions

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Session is the one internal shape for a workout session.
type Session struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Title     string     `json:"title"` // Name, or "Session #<id>" when unnamed
	Note      string     `json:"note"`
	StartedAt *time.Time `json:"started_at"`
	Sets      []Set      `json:"sets"`
}

// Set is one exercise performance (reps × weight) within a session.
type Set struct {
	ID        int64   `json:"id"`
	SessionID int64   `json:"session_id"`
	Exercise  string  `json:"exercise"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
}

// ErrInvalidSet is returned for set input the backend would reject.
var ErrInvalidSet = errors.New("invalid set")

// SetInput is the body of POST /workouts/sessions/:id/sets.
type SetInput struct {
	Exercise string  `json:"exercise"`
	Reps     int     `json:"reps"`
	Weight   float64 `json:"weight"`
}

func (in SetInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Exercise) == "":
		return fmt.Errorf("%w: exercise is required", ErrInvalidSet)
	case in.Reps <= 0:
		return fmt.Errorf("%w: reps must be a positive integer", ErrInvalidSet)
	case in.Weight < 0:
		return fmt.Errorf("%w: weight must not be negative", ErrInvalidSet)
	}
	return nil
}

/* ─── Wire shapes ────────────────────────────────────────────────────── */

// wireSession accepts every field name the backend has used across versions.
type wireSession struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TitleAlt  string    `json:"title"`
	Note      string    `json:"note"`
	Notes     string    `json:"notes"`
	Comment   string    `json:"comment"`
	StartedAt string    `json:"started_at"`
	StartTime string    `json:"start_time"`
	Date      string    `json:"date"`
	Sets      []wireSet `json:"sets"`
}

type wireSet struct {
	ID        int64   `json:"id"`
	SessionID int64   `json:"session_id"`
	Exercise  string  `json:"exercise"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// timeLayouts covers RFC 3339 plus the naive timestamps Python backends emit.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
}

func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func (w wireSession) normalize() Session {
	s := Session{
		ID:        w.ID,
		Name:      firstNonEmpty(w.Name, w.TitleAlt),
		Note:      firstNonEmpty(w.Note, w.Notes, w.Comment),
		StartedAt: parseTimestamp(firstNonEmpty(w.StartedAt, w.StartTime, w.Date)),
		Sets:      make([]Set, 0, len(w.Sets)),
	}
	s.Title = s.Name
	if s.Title == "" {
		s.Title = fmt.Sprintf("Session #%d", w.ID)
	}
	for _, ws := range w.Sets {
		set := ws.normalize()
		if set.SessionID == 0 {
			set.SessionID = w.ID
		}
		s.Sets = append(s.Sets, set)
	}
	return s
}

func (w wireSet) normalize() Set {
	exercise := strings.TrimSpace(w.Exercise)
	if exercise == "" {
		exercise = "Exercise"
	}
	return Set{
		ID:        w.ID,
		SessionID: w.SessionID,
		Exercise:  exercise,
		Reps:      w.Reps,
		Weight:    w.Weight,
	}
}
