package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"bayorder-backend/models"
	"bayorder-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	ac := &AuthController{DB: db}

	r := gin.New()
	r.POST("/auth/register", ac.Register)
	r.POST("/auth/login", ac.Login)
	r.GET("/auth/me", utils.AuthMiddleware(), ac.Me)
	return r, db
}

func TestRegisterAndLogin(t *testing.T) {
	r, db := newAuthRouter(t)

	w := postJSON(t, r, "/auth/register", map[string]string{
		"email":       "Guest@Example.com",
		"password":    "hunter22",
		"displayName": "Guest",
		"roomNumber":  "B12",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var registered struct {
		Token string `json:"token"`
		User  struct {
			Email      string `json:"email"`
			RoomNumber string `json:"roomNumber"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &registered); err != nil {
		t.Fatalf("decoding register response: %v", err)
	}
	if registered.Token == "" {
		t.Error("registration must return a session token")
	}
	if registered.User.Email != "guest@example.com" {
		t.Errorf("email = %q, want it lowercased", registered.User.Email)
	}

	var user models.User
	if err := db.First(&user, "email = ?", "guest@example.com").Error; err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if user.Password == "hunter22" {
		t.Error("password must be hashed before storage")
	}

	// Duplicate registration is a conflict, even with different casing.
	w = postJSON(t, r, "/auth/register", map[string]string{
		"email":       "guest@example.com",
		"password":    "different",
		"displayName": "Other",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", w.Code)
	}

	// Login with the right password succeeds.
	w = postJSON(t, r, "/auth/login", map[string]string{
		"email":    "guest@example.com",
		"password": "hunter22",
	})
	if w.Code != http.StatusOK {
		t.Errorf("login status = %d, want 200: %s", w.Code, w.Body.String())
	}

	// And fails with the wrong one.
	w = postJSON(t, r, "/auth/login", map[string]string{
		"email":    "guest@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"bad email", map[string]string{"email": "not-an-email", "password": "hunter22", "displayName": "Guest"}},
		{"short password", map[string]string{"email": "guest@example.com", "password": "abc", "displayName": "Guest"}},
		{"missing display name", map[string]string{"email": "guest@example.com", "password": "hunter22"}},
		{"bad room number", map[string]string{"email": "guest@example.com", "password": "hunter22", "displayName": "Guest", "roomNumber": "the lobby"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, db := newAuthRouter(t)

			w := postJSON(t, r, "/auth/register", tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", w.Code, w.Body.String())
			}

			var count int64
			db.Model(&models.User{}).Count(&count)
			if count != 0 {
				t.Errorf("rejected registration must not create a user, count = %d", count)
			}
		})
	}
}

func TestLoginUnknownUser(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := postJSON(t, r, "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
