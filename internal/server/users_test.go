package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazelvane/melodex/internal/repositories"
	"github.com/hazelvane/melodex/internal/shared"
	tu "github.com/hazelvane/melodex/internal/testing"
)

func userRouter(t *testing.T) *BasicRouter {
	t.Helper()

	db := tu.MustOpenDB(t)
	repo := repositories.NewUserRepository(db)

	router := NewBasicRouter()
	router.Handler(NewUserHandler(repo, shared.NewLogger(nil)))
	return router
}

func postJSON(router *BasicRouter, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUserHandler(t *testing.T) {
	t.Run("RegisterLoginRoundTrip", func(t *testing.T) {
		router := userRouter(t)

		rec := postJSON(router, "/users/register", `{"username": "alice", "email": "alice@example.com", "password": "secret"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var created userResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if created.ID == "" || created.Username != "alice" {
			t.Errorf("unexpected response: %+v", created)
		}
		if strings.Contains(rec.Body.String(), "password") {
			t.Error("response must not leak password material")
		}

		login := postJSON(router, "/users/login", `{"username": "alice", "password": "secret"}`)
		if login.Code != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", login.Code, login.Body.String())
		}
	})

	t.Run("LoginWrongPassword", func(t *testing.T) {
		router := userRouter(t)

		postJSON(router, "/users/register", `{"username": "alice", "email": "alice@example.com", "password": "secret"}`)

		rec := postJSON(router, "/users/login", `{"username": "alice", "password": "wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("LoginUnknownUserSameShape", func(t *testing.T) {
		router := userRouter(t)

		rec := postJSON(router, "/users/login", `{"username": "nobody", "password": "whatever"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("RegisterMissingFields", func(t *testing.T) {
		router := userRouter(t)

		rec := postJSON(router, "/users/register", `{"username": "", "password": ""}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		router := userRouter(t)

		postJSON(router, "/users/register", `{"username": "alice", "email": "alice@example.com", "password": "secret"}`)
		rec := postJSON(router, "/users/register", `{"username": "alice", "email": "other@example.com", "password": "secret"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for duplicate, got %d", rec.Code)
		}
	})

	t.Run("GetAndDelete", func(t *testing.T) {
		router := userRouter(t)

		rec := postJSON(router, "/users/register", `{"username": "alice", "email": "alice@example.com", "password": "secret"}`)
		var created userResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		get := httptest.NewRequest(http.MethodGet, "/users/"+created.ID, nil)
		getRec := httptest.NewRecorder()
		router.ServeHTTP(getRec, get)
		if getRec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", getRec.Code)
		}

		del := httptest.NewRequest(http.MethodDelete, "/users/"+created.ID, nil)
		delRec := httptest.NewRecorder()
		router.ServeHTTP(delRec, del)
		if delRec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", delRec.Code)
		}

		again := httptest.NewRecorder()
		router.ServeHTTP(again, httptest.NewRequest(http.MethodGet, "/users/"+created.ID, nil))
		if again.Code != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", again.Code)
		}
	})
}
