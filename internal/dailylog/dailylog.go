// Package dailylog stores per-day calorie entries and the saved calorie goal.
//
// The whole log is one record, a map of local date (YYYY-MM-DD) to that day's
// entries. A day's list is created on first add and is never cleared
// automatically; the dashboard's midnight reset only touches live counters.
package dailylog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lg/sweat-go-api/internal/metrics"
	"lg/sweat-go-api/internal/store"
)

const dateLayout = "2006-01-02"

// ErrInvalidEntry is returned by Add for entries that fail validation.
var ErrInvalidEntry = errors.New("invalid entry")

// Entry is one food (or task) line. Entries are appended and removed, never edited.
type Entry struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Calories  int        `json:"calories"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type dayLog struct {
	Entries []Entry `json:"entries"`
}

// DateKey formats t as a local calendar date.
func DateKey(t time.Time) string {
	return t.Local().Format(dateLayout)
}

// ParseDateKey validates a YYYY-MM-DD key.
func ParseDateKey(s string) (string, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return s, nil
}

// NewEntryID joins the creation time in milliseconds with a short random
// discriminator. Good enough for a single writer on one device.
func NewEntryID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + uuid.NewString()[:8]
}

// Log reads and writes the calorie log through a Store.
type Log struct {
	store store.Store
	now   func() time.Time
	mu    sync.Mutex // serializes read-modify-write of the log record
}

func New(s store.Store) *Log {
	return &Log{store: s, now: time.Now}
}

func (l *Log) load(ctx context.Context) (map[string]dayLog, error) {
	days := map[string]dayLog{}
	if _, err := store.GetJSON(ctx, l.store, store.KeyCalorieLog, &days); err != nil {
		return nil, err
	}
	if days == nil {
		days = map[string]dayLog{}
	}
	return days, nil
}

// Entries returns the entries for dateKey, or an empty slice.
func (l *Log) Entries(ctx context.Context, dateKey string) ([]Entry, error) {
	days, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	entries := days[dateKey].Entries
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Add appends e to dateKey's list and persists the whole log. A missing ID
// is generated; a blank name becomes "Food".
func (l *Log) Add(ctx context.Context, dateKey string, e Entry) (Entry, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		e.Name = "Food"
	}
	if e.Calories <= 0 {
		return Entry{}, fmt.Errorf("%w: calories must be positive", ErrInvalidEntry)
	}
	now := l.now()
	if e.ID == "" {
		e.ID = NewEntryID(now)
	}
	if e.CreatedAt == nil {
		created := now.UTC()
		e.CreatedAt = &created
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	days, err := l.load(ctx)
	if err != nil {
		return Entry{}, err
	}
	day := days[dateKey]
	day.Entries = append(day.Entries, e)
	days[dateKey] = day
	if err := store.SetJSON(ctx, l.store, store.KeyCalorieLog, days); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Remove drops the entry with id from dateKey's list. removed is false if no
// such entry exists; other dates are never touched.
func (l *Log) Remove(ctx context.Context, dateKey, id string) (removed bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	days, err := l.load(ctx)
	if err != nil {
		return false, err
	}
	day, ok := days[dateKey]
	if !ok {
		return false, nil
	}
	kept := make([]Entry, 0, len(day.Entries))
	for _, e := range day.Entries {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return false, nil
	}
	days[dateKey] = dayLog{Entries: kept}
	return true, store.SetJSON(ctx, l.store, store.KeyCalorieLog, days)
}

// Clear empties one day's list.
func (l *Log) Clear(ctx context.Context, dateKey string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	days, err := l.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := days[dateKey]; !ok {
		return nil
	}
	delete(days, dateKey)
	return store.SetJSON(ctx, l.store, store.KeyCalorieLog, days)
}

// Summary totals a day's intake against an optional target.
type Summary struct {
	TotalIntake int  `json:"total_intake"`
	Target      *int `json:"target_calories"`
	Remaining   *int `json:"remaining"`
}

func Summarize(entries []Entry, target *int) Summary {
	var s Summary
	for _, e := range entries {
		s.TotalIntake += e.Calories
	}
	if target != nil {
		t := *target
		left := t - s.TotalIntake
		s.Target = &t
		s.Remaining = &left
	}
	return s
}

// Goal is the calorie target saved from the calculator screen.
type Goal struct {
	TDEE           int                 `json:"tdee"`
	TargetCalories int                 `json:"targetCalories"`
	Goal           metrics.CalorieGoal `json:"goal"`
	SavedAt        time.Time           `json:"savedAt"`
}

// SaveGoal persists g, stamping SavedAt.
func (l *Log) SaveGoal(ctx context.Context, g Goal) (Goal, error) {
	if g.TDEE <= 0 || g.TargetCalories <= 0 {
		return Goal{}, fmt.Errorf("%w: calculate your goal first", ErrInvalidEntry)
	}
	g.SavedAt = l.now().UTC()
	if err := store.SetJSON(ctx, l.store, store.KeyCalorieGoal, g); err != nil {
		return Goal{}, err
	}
	return g, nil
}

// LoadGoal returns the saved goal, or nil if none was saved.
func (l *Log) LoadGoal(ctx context.Context) (*Goal, error) {
	var g Goal
	found, err := store.GetJSON(ctx, l.store, store.KeyCalorieGoal, &g)
	if err != nil || !found {
		return nil, err
	}
	return &g, nil
}
