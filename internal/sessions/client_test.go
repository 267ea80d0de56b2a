package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

// mockBackend records requests and serves canned responses per route.
type mockBackend struct {
	mu       sync.Mutex
	auth     []string // Authorization header of each request, in order
	bodies   []string
	status   int // overrides every route's status when non-zero
	sessions string
}

func (m *mockBackend) record(r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth = append(m.auth, r.Header.Get("Authorization"))
	body, _ := io.ReadAll(r.Body)
	m.bodies = append(m.bodies, string(body))
}

// seen returns copies of the recorded headers and bodies.
func (m *mockBackend) seen() (auth, bodies []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.auth...), append([]string(nil), m.bodies...)
}

func authAll(m *mockBackend) []string { a, _ := m.seen(); return a }
func authAt(m *mockBackend, i int) string { return authAll(m)[i] }
func bodyAt(m *mockBackend, i int) string { _, b := m.seen(); return b[i] }

func (m *mockBackend) setStatus(code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = code
}

func (m *mockBackend) reply(w http.ResponseWriter, status int, body string) {
	m.mu.Lock()
	override := m.status
	m.mu.Unlock()
	if override != 0 {
		status = override
		body = `{"detail":"Not authenticated"}`
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func setupBackend(t *testing.T) (*Client, *mockBackend) {
	m := &mockBackend{
		sessions: `[
			{"id":1,"name":"Push day","note":"felt strong","started_at":"2024-01-01T10:00:00",
			 "sets":[{"id":10,"session_id":1,"exercise":" Bench ","reps":5,"weight":185}]},
			{"id":2,"title":"Legacy title","notes":"old field","start_time":"2024-01-02T09:30:00Z","sets":[]},
			{"id":3,"comment":"no name","date":"2024-01-03"}
		]`,
	}
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		m.record(req)
		m.reply(w, http.StatusOK, `{"status":"ok"}`)
	}).Methods("GET")
	r.HandleFunc("/auth/register", func(w http.ResponseWriter, req *http.Request) {
		m.record(req)
		m.reply(w, http.StatusCreated, `{"id":1,"email":"a@b.c"}`)
	}).Methods("POST")
	r.HandleFunc("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		m.record(req)
		m.reply(w, http.StatusOK, `{"access_token":"tok-123","token_type":"bearer"}`)
	}).Methods("POST")
	r.HandleFunc("/workouts/sessions", func(w http.ResponseWriter, req *http.Request) {
		m.record(req)
		m.reply(w, http.StatusOK, m.sessions)
	}).Methods("GET")
	r.HandleFunc("/workouts/sessions", func(w http.ResponseWriter, req *http.Request) {
		m.record(req)
		m.reply(w, http.StatusCreated, `{"id":7,"note":"new","started_at":"2024-02-01T08:00:00","sets":[]}`)
	}).Methods("POST")
	r.HandleFunc("/workouts/sessions/{id}", func(w http.ResponseWriter, req *http.Request) {
		m.record(req)
		m.reply(w, http.StatusOK, `{"id":`+mux.Vars(req)["id"]+`,"name":"Renamed","note":"edited","sets":[]}`)
	}).Methods("PUT")
	r.HandleFunc("/workouts/sessions/{id}", func(w http.ResponseWriter, req *http.Request) {
		m.record(req)
		m.reply(w, http.StatusNoContent, "")
	}).Methods("DELETE")
	r.HandleFunc("/workouts/sessions/{id}/sets", func(w http.ResponseWriter, req *http.Request) {
		m.record(req)
		m.reply(w, http.StatusCreated, `{"id":11,"exercise":"Squat","reps":3,"weight":225}`)
	}).Methods("POST")
	r.HandleFunc("/workouts/sets/{id}", func(w http.ResponseWriter, req *http.Request) {
		m.record(req)
		m.reply(w, http.StatusNoContent, "")
	}).Methods("DELETE")

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 5*time.Second), m
}

func TestListSessions_Normalizes(t *testing.T) {
	c, _ := setupBackend(t)
	list, err := c.ListSessions(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d sessions, want 3", len(list))
	}

	first := list[0]
	if first.Title != "Push day" || first.Note != "felt strong" || first.StartedAt == nil {
		t.Errorf("first = %+v", first)
	}
	if len(first.Sets) != 1 || first.Sets[0].Exercise != "Bench" || first.Sets[0].Weight != 185 {
		t.Errorf("first sets = %+v", first.Sets)
	}

	second := list[1]
	if second.Name != "Legacy title" || second.Note != "old field" || second.StartedAt == nil {
		t.Errorf("second = %+v", second)
	}

	third := list[2]
	if third.Title != "Session #3" || third.Note != "no name" || third.Sets == nil {
		t.Errorf("third = %+v", third)
	}
	if third.StartedAt == nil || third.StartedAt.Day() != 3 {
		t.Errorf("third StartedAt = %v", third.StartedAt)
	}
}

func TestBearerToken_OnlyWhenPresent(t *testing.T) {
	c, m := setupBackend(t)
	c.ListSessions(context.Background(), "tok-abc")
	c.ListSessions(context.Background(), "")

	if authAt(m, 0) != "Bearer tok-abc" {
		t.Errorf("with token: Authorization = %q", authAt(m, 0))
	}
	if authAt(m, 1) != "" {
		t.Errorf("without token: Authorization = %q, want empty", authAt(m, 1))
	}
}

// TestUnauthorized_SurfacesStatus checks a 401 from every session endpoint
// becomes an *APIError whose message includes the code.
func TestUnauthorized_SurfacesStatus(t *testing.T) {
	c, m := setupBackend(t)
	m.setStatus(http.StatusUnauthorized)
	ctx := context.Background()
	note := "x"

	calls := map[string]func() error{
		"list":       func() error { _, err := c.ListSessions(ctx, ""); return err },
		"create":     func() error { _, err := c.CreateSession(ctx, "n", ""); return err },
		"update":     func() error { _, _, err := c.UpdateSession(ctx, 1, SessionUpdate{Note: &note}, ""); return err },
		"delete":     func() error { return c.DeleteSession(ctx, 1, "") },
		"add set":    func() error { _, err := c.AddSet(ctx, 1, SetInput{Exercise: "Row", Reps: 8, Weight: 50}, ""); return err },
		"delete set": func() error { return c.DeleteSet(ctx, 10, "") },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), "401") {
				t.Errorf("error %q does not mention 401", err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.StatusCode != 401 {
				t.Fatalf("expected *APIError with 401, got %T %v", err, err)
			}
			if !strings.Contains(apiErr.Body, "Not authenticated") {
				t.Errorf("APIError body = %q, want response text", apiErr.Body)
			}
		})
	}
}

func TestCreateSession(t *testing.T) {
	c, m := setupBackend(t)
	s, err := c.CreateSession(context.Background(), "leg day", "tok")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if s.ID != 7 || s.Title != "Session #7" {
		t.Errorf("created = %+v", s)
	}
	var body map[string]string
	json.Unmarshal([]byte(bodyAt(m, 0)), &body)
	if body["note"] != "leg day" {
		t.Errorf("request body = %s", bodyAt(m, 0))
	}
}

func TestUpdateSession_SendsOnlyGivenFields(t *testing.T) {
	c, m := setupBackend(t)
	note := "edited"
	s, ok, err := c.UpdateSession(context.Background(), 4, SessionUpdate{Note: &note}, "tok")
	if err != nil || !ok {
		t.Fatalf("UpdateSession = %v, %v", ok, err)
	}
	if s.ID != 4 || s.Name != "Renamed" {
		t.Errorf("updated = %+v", s)
	}
	if strings.Contains(bodyAt(m, 0), "name") {
		t.Errorf("request body should omit name: %s", bodyAt(m, 0))
	}
}

func TestDeleteSessionAndSet_AcceptNoContent(t *testing.T) {
	c, _ := setupBackend(t)
	if err := c.DeleteSession(context.Background(), 1, "tok"); err != nil {
		t.Errorf("DeleteSession: %v", err)
	}
	if err := c.DeleteSet(context.Background(), 10, "tok"); err != nil {
		t.Errorf("DeleteSet: %v", err)
	}
}

func TestAddSet(t *testing.T) {
	c, m := setupBackend(t)
	set, err := c.AddSet(context.Background(), 5, SetInput{Exercise: "  Squat ", Reps: 3, Weight: 225}, "tok")
	if err != nil {
		t.Fatalf("AddSet: %v", err)
	}
	if set.ID != 11 || set.SessionID != 5 {
		t.Errorf("set = %+v", set)
	}
	if !strings.Contains(bodyAt(m, 0), `"exercise":"Squat"`) {
		t.Errorf("exercise not trimmed in body: %s", bodyAt(m, 0))
	}
}

func TestAddSet_ValidatesBeforeSending(t *testing.T) {
	c, m := setupBackend(t)
	cases := []SetInput{
		{Exercise: "", Reps: 5, Weight: 10},
		{Exercise: "Row", Reps: 0, Weight: 10},
		{Exercise: "Row", Reps: 5, Weight: -1},
	}
	for _, in := range cases {
		if _, err := c.AddSet(context.Background(), 1, in, ""); !errors.Is(err, ErrInvalidSet) {
			t.Errorf("AddSet(%+v): expected ErrInvalidSet, got %v", in, err)
		}
	}
	if len(authAll(m)) != 0 {
		t.Errorf("invalid sets reached the backend %d times", len(authAll(m)))
	}
}

func TestLoginRegisterHealth(t *testing.T) {
	c, m := setupBackend(t)
	ctx := context.Background()
	creds := Credentials{Email: "a@b.c", Password: "secret1"}

	if err := c.Register(ctx, creds); err != nil {
		t.Fatalf("Register: %v", err)
	}
	tok, err := c.Login(ctx, creds)
	if err != nil || tok != "tok-123" {
		t.Fatalf("Login = %q, %v", tok, err)
	}
	status, err := c.Health(ctx)
	if err != nil || status != "ok" {
		t.Fatalf("Health = %q, %v", status, err)
	}
	if !strings.Contains(bodyAt(m, 0), `"email":"a@b.c"`) {
		t.Errorf("register body = %s", bodyAt(m, 0))
	}
}

func TestNetworkError(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	if _, err := c.ListSessions(context.Background(), ""); err == nil {
		t.Error("expected error for unreachable backend")
	}
}
