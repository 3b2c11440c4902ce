package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hazelvane/melodex/internal/models"
	"github.com/hazelvane/melodex/internal/repositories"
	"github.com/hazelvane/melodex/internal/shared"
)

// UserHandler serves the local account store: registration, login, lookup,
// and deletion. Implements the [Handler] interface.
//
// Passwords are hashed before they reach the repository; the hash is never
// serialized back out.
type UserHandler struct {
	users  *repositories.UserRepository
	logger *log.Logger
}

// NewUserHandler creates a UserHandler over the given repository.
func NewUserHandler(users *repositories.UserRepository, logger *log.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *UserHandler) Routes() []string {
	return []string{
		"POST /users/register",
		"POST /users/login",
		"GET /users/{id}",
		"DELETE /users/{id}",
	}
}

// credentialsRequest is the body for register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the public view of a user account.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID(),
		Username:  user.Username(),
		Email:     user.Email(),
		CreatedAt: user.CreatedAt(),
	}
}

func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "POST /users/register":
		h.register(w, r)
	case "POST /users/login":
		h.login(w, r)
	case "GET /users/{id}":
		h.get(w, r)
	case "DELETE /users/{id}":
		h.delete(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, fmt.Errorf("%w: username and password are required", shared.ErrInvalidInput))
		return
	}

	user := models.NewUser(0, req.Username, req.Email, models.HashPassword(req.Password))
	if err := h.users.Create(user); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("user registered", "username", user.Username())
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GetByUsername(req.Username)
	if err != nil {
		// Same response for unknown user and bad password.
		writeError(w, fmt.Errorf("%w: invalid credentials", shared.ErrAuthFailed))
		return
	}

	if !models.VerifyPassword(req.Password, user.PasswordHash()) {
		writeError(w, fmt.Errorf("%w: invalid credentials", shared.ErrAuthFailed))
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
