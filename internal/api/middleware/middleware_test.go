package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/queryscope/console/internal/api/middleware"
)

func sessionEcho() http.Handler {
	return middleware.Session("qs")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(middleware.GetSessionID(r.Context())))
	}))
}

func TestSession_IssuesCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	sessionEcho().ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "qs" {
		t.Fatalf("cookies = %v, want one qs cookie", cookies)
	}
	if _, err := uuid.Parse(cookies[0].Value); err != nil {
		t.Errorf("cookie value %q is not a UUID", cookies[0].Value)
	}
	if w.Body.String() != cookies[0].Value {
		t.Errorf("context session = %q, want %q", w.Body.String(), cookies[0].Value)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
}

func TestSession_ReusesValidCookie(t *testing.T) {
	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "qs", Value: id})
	w := httptest.NewRecorder()
	sessionEcho().ServeHTTP(w, req)

	if len(w.Result().Cookies()) != 0 {
		t.Error("a valid session cookie should not be reissued")
	}
	if w.Body.String() != id {
		t.Errorf("context session = %q, want %q", w.Body.String(), id)
	}
}

func TestSession_ReplacesForgedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "qs", Value: "../../etc"})
	w := httptest.NewRecorder()
	sessionEcho().ServeHTTP(w, req)

	if w.Body.String() == "../../etc" {
		t.Error("non-UUID cookie value accepted as a session ID")
	}
	if len(w.Result().Cookies()) != 1 {
		t.Error("expected a replacement cookie")
	}
}

func TestLoggerAndTelemetry_PassThrough(t *testing.T) {
	handler := middleware.Logger(middleware.Telemetry(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTeapot)
	}
	if w.Body.String() != "short and stout" {
		t.Errorf("body = %q", w.Body.String())
	}
}
