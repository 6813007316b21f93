package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"habitq/internal/db"
	"habitq/internal/handlers"
	mw "habitq/internal/middleware"
	"habitq/internal/services"
	"habitq/internal/store"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	conn, err := db.Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	st := store.New(conn, 5*time.Second)
	enc, err := services.NewEncryptionService(bytes.Repeat([]byte{1}, 32), bytes.Repeat([]byte{2}, 32))
	if err != nil {
		t.Fatalf("encryption: %v", err)
	}
	log := zap.NewNop()
	return handlers.NewRouter(handlers.Deps{
		Logger:         log,
		Auth:           services.NewAuthService(st, enc),
		Habits:         services.NewHabitService(st, log),
		Logs:           services.NewLogService(st, st, time.UTC, log),
		Heatmap:        services.NewHeatmapService(st, st, time.UTC),
		Sessions:       mw.NewSessions([]byte("test-secret"), time.Hour),
		Timeout:        5 * time.Second,
		AllowedOrigins: []string{"*"},
	})
}

func do(t *testing.T, h http.Handler, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == mw.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func signup(t *testing.T, h http.Handler, email string) *http.Cookie {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/auth/signup", `{"email":"`+email+`","password":"password123"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d body=%s", rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

type habitJSON struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Frequency   string `json:"frequency"`
}

func createHabit(t *testing.T, h http.Handler, c *http.Cookie, body string) habitJSON {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/habits", body, c)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create habit status = %d body=%s", rec.Code, rec.Body.String())
	}
	return decodeJSON[habitJSON](t, rec)
}

func TestHealth(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuthFlow(t *testing.T) {
	h := newServer(t)
	c := signup(t, h, "runner@example.com")
	if !c.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	rec := do(t, h, http.MethodPost, "/api/auth/signup", `{"email":"RUNNER@example.com","password":"x"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate signup = %d, want 409", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/auth/login", `{"email":"runner@example.com","password":"wrong"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login = %d, want 401", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/auth/login", `{"email":"runner@example.com","password":"password123"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d %s", rec.Code, rec.Body.String())
	}
	login := decodeJSON[struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Token string `json:"token"`
	}](t, rec)
	if login.Token == "" || login.Email != "runner@example.com" {
		t.Errorf("login body = %+v", login)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	me := httptest.NewRecorder()
	h.ServeHTTP(me, req)
	if me.Code != http.StatusOK || !strings.Contains(me.Body.String(), login.ID) {
		t.Errorf("me via bearer = %d %s", me.Code, me.Body.String())
	}
	if strings.Contains(me.Body.String(), "password") {
		t.Error("me leaks password hash")
	}

	rec = do(t, h, http.MethodPost, "/api/auth/logout", "", c)
	if rec.Code != http.StatusOK {
		t.Errorf("logout = %d", rec.Code)
	}
	if cleared := sessionCookie(t, rec); cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Errorf("logout cookie not cleared: %+v", cleared)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	h := newServer(t)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/me"},
		{http.MethodGet, "/api/habits"},
		{http.MethodPost, "/api/habits"},
		{http.MethodGet, "/api/habits/x"},
		{http.MethodPut, "/api/habits/x"},
		{http.MethodDelete, "/api/habits/x"},
		{http.MethodGet, "/api/logs/x"},
		{http.MethodPost, "/api/logs"},
		{http.MethodGet, "/api/heatmap"},
	}
	for _, rt := range routes {
		rec := do(t, h, rt.method, rt.path, "{}", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", rt.method, rt.path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"error":"Unauthorized"`) {
			t.Errorf("%s %s body = %s", rt.method, rt.path, rec.Body.String())
		}
	}
}

func TestHabitRoutes(t *testing.T) {
	h := newServer(t)
	c := signup(t, h, "runner@example.com")

	habit := createHabit(t, h, c, `{"title":"Run","color":"#4f46e5"}`)
	if habit.Frequency != "daily" || habit.Description != "" || habit.Color != "#4f46e5" {
		t.Errorf("defaults not applied: %+v", habit)
	}

	rec := do(t, h, http.MethodPost, "/api/habits", `{"description":"no title"}`, c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing title = %d", rec.Code)
	}
	if body := decodeJSON[map[string]any](t, rec); body["field"] != "title" {
		t.Errorf("validation body = %v", body)
	}

	rec = do(t, h, http.MethodPost, "/api/habits", `{not json`, c)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/habits", "", c)
	if list := decodeJSON[[]habitJSON](t, rec); len(list) != 1 || list[0].ID != habit.ID {
		t.Errorf("list = %+v", list)
	}

	rec = do(t, h, http.MethodPut, "/api/habits/"+habit.ID, `{"title":"Run far","frequency":"weekly"}`, c)
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d %s", rec.Code, rec.Body.String())
	}
	if updated := decodeJSON[habitJSON](t, rec); updated.Title != "Run far" || updated.Frequency != "weekly" {
		t.Errorf("update body = %+v", updated)
	}

	rec = do(t, h, http.MethodGet, "/api/habits/does-not-exist", "", c)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing habit = %d, want 404", rec.Code)
	}

	rec = do(t, h, http.MethodDelete, "/api/habits/"+habit.ID, "", c)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("delete = %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodGet, "/api/habits/"+habit.ID, "", c)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted habit = %d, want 404", rec.Code)
	}
}

func TestHabitRoutes_ForeignOwner(t *testing.T) {
	h := newServer(t)
	owner := signup(t, h, "owner@example.com")
	intruder := signup(t, h, "intruder@example.com")
	habit := createHabit(t, h, owner, `{"title":"Run"}`)

	checks := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/habits/" + habit.ID, ""},
		{http.MethodPut, "/api/habits/" + habit.ID, `{"title":"Mine"}`},
		{http.MethodDelete, "/api/habits/" + habit.ID, ""},
		{http.MethodGet, "/api/logs/" + habit.ID, ""},
		{http.MethodPost, "/api/logs", `{"habitId":"` + habit.ID + `","date":"2024-01-05"}`},
		{http.MethodGet, "/api/heatmap?month=2024-01&habitId=" + habit.ID, ""},
	}
	for _, c := range checks {
		rec := do(t, h, c.method, c.path, c.body, intruder)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", c.method, c.path, rec.Code)
		}
	}

	rec := do(t, h, http.MethodGet, "/api/habits/"+habit.ID, "", owner)
	if got := decodeJSON[habitJSON](t, rec); got.Title != "Run" {
		t.Errorf("owner's habit changed: %+v", got)
	}
}

func TestLogRoutes_Scenario(t *testing.T) {
	h := newServer(t)
	c := signup(t, h, "runner@example.com")
	habit := createHabit(t, h, c, `{"title":"Run","color":"#4f46e5"}`)
	toggle := `{"habitId":"` + habit.ID + `","date":"2024-01-05","completed":true}`

	for i := 0; i < 3; i++ {
		rec := do(t, h, http.MethodPost, "/api/logs", toggle, c)
		if rec.Code != http.StatusOK {
			t.Fatalf("toggle = %d %s", rec.Code, rec.Body.String())
		}
		if l := decodeJSON[map[string]any](t, rec); l["habitId"] != habit.ID || l["completed"] != true {
			t.Fatalf("toggle body = %v", l)
		}
	}

	rec := do(t, h, http.MethodGet, "/api/logs/"+habit.ID+"?view=aggregate", "", c)
	agg := decodeJSON[[]struct {
		Date           string `json:"date"`
		CompletedCount int    `json:"completedCount"`
	}](t, rec)
	if len(agg) != 1 || agg[0].Date != "2024-01-05" || agg[0].CompletedCount != 3 {
		t.Fatalf("aggregate = %+v", agg)
	}

	rec = do(t, h, http.MethodGet, "/api/logs/"+habit.ID, "", c)
	if raw := decodeJSON[[]map[string]any](t, rec); len(raw) != 3 {
		t.Errorf("raw logs = %d, want 3", len(raw))
	}

	rec = do(t, h, http.MethodGet, "/api/logs/"+habit.ID+"?view=daily", "", c)
	daily := decodeJSON[[]map[string]any](t, rec)
	if len(daily) != 1 || daily[0]["count"] != float64(3) {
		t.Errorf("daily = %v", daily)
	}

	rec = do(t, h, http.MethodGet, "/api/heatmap?month=2024-01", "", c)
	hm := decodeJSON[services.Heatmap](t, rec)
	if len(hm.Habits) != 1 || hm.Habits[0].Days[4].Count != 3 || hm.Habits[0].Days[4].Color != "rgb(79, 70, 229)" {
		t.Errorf("heatmap = %+v", hm)
	}

	rec = do(t, h, http.MethodPost, "/api/logs", `{"habitId":"`+habit.ID+`","date":"2024-01-05","completed":false}`, c)
	del := decodeJSON[map[string]any](t, rec)
	if del["success"] != true || del["deleted"] != true || del["removed"] != float64(3) {
		t.Fatalf("uncomplete body = %v", del)
	}

	rec = do(t, h, http.MethodGet, "/api/logs/"+habit.ID+"?view=aggregate", "", c)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("aggregate after uncomplete = %s", rec.Body.String())
	}

	do(t, h, http.MethodDelete, "/api/habits/"+habit.ID, "", c)
	rec = do(t, h, http.MethodGet, "/api/logs/"+habit.ID, "", c)
	if rec.Code != http.StatusNotFound {
		t.Errorf("logs of deleted habit = %d, want 404", rec.Code)
	}
}

func TestLogRoutes_Validation(t *testing.T) {
	h := newServer(t)
	c := signup(t, h, "runner@example.com")
	habit := createHabit(t, h, c, `{"title":"Run"}`)

	tests := []struct {
		name, path, method, body string
		status                   int
	}{
		{"missing date", "/api/logs", http.MethodPost, `{"habitId":"` + habit.ID + `"}`, http.StatusBadRequest},
		{"missing habit", "/api/logs", http.MethodPost, `{"date":"2024-01-05"}`, http.StatusBadRequest},
		{"bad date", "/api/logs", http.MethodPost, `{"habitId":"` + habit.ID + `","date":"tomorrow"}`, http.StatusBadRequest},
		{"unknown habit", "/api/logs", http.MethodPost, `{"habitId":"nope","date":"2024-01-05"}`, http.StatusNotFound},
		{"bad view", "/api/logs/" + habit.ID + "?view=weekly", http.MethodGet, "", http.StatusBadRequest},
		{"bad month", "/api/heatmap?month=2024-13", http.MethodGet, "", http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.path, tc.body, c)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}
