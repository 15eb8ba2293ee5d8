package profile

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"TPSuite/internal/auth"
	"TPSuite/internal/repo"

	"github.com/gorilla/mux"
)

type ProfileHandler struct {
	Repo repo.UserRepository
}

type CreateUserRequest struct {
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Password string    `json:"password"`
	Role     repo.Role `json:"role"`
}

type UpdateUserRequest struct {
	FullName string    `json:"full_name"`
	Role     repo.Role `json:"role"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
}

const minPasswordLen = 8

// GetProfile returns the signed-in operator.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	op, ok := auth.OperatorFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	u, err := h.Repo.GetByUsername(r.Context(), op.Username)
	if err != nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}

// UpdateProfile changes the operator's display name. The role is kept.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	op, ok := auth.OperatorFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	// The stored role wins over the token claim, which may predate a demotion.
	u, err := h.Repo.GetByUsername(r.Context(), op.Username)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if err := h.Repo.UpdateUser(r.Context(), u.ID, strings.TrimSpace(req.FullName), u.Role); err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Repo.ListUsers(r.Context())
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []repo.User{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

func (h *ProfileHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		http.Error(w, "Username required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < minPasswordLen {
		http.Error(w, "Password must be at least 8 characters", http.StatusBadRequest)
		return
	}
	if !req.Role.Valid() {
		http.Error(w, "Unknown role", http.StatusBadRequest)
		return
	}
	if _, err := h.Repo.GetByUsername(r.Context(), req.Username); err == nil {
		http.Error(w, "Username already taken", http.StatusConflict)
		return
	} else if !errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	u := repo.User{
		Username:     req.Username,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Role:         req.Role,
	}
	u.ID, err = h.Repo.CreateUser(r.Context(), u)
	if err != nil {
		log.Printf("CreateUser Error: %v", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(u)
}

func (h *ProfileHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if !req.Role.Valid() {
		http.Error(w, "Unknown role", http.StatusBadRequest)
		return
	}
	err := h.Repo.UpdateUser(r.Context(), id, strings.TrimSpace(req.FullName), req.Role)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser removes an account. Administrators cannot delete themselves.
func (h *ProfileHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	if op, _ := auth.OperatorFrom(r.Context()); op.ID == id {
		http.Error(w, "Cannot delete the signed-in account", http.StatusConflict)
		return
	}
	err := h.Repo.DeleteUser(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
