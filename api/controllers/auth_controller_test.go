package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/frvega/conversor-go/types"
)

func setupLoginRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctrl := NewAuthController(
		&StaticAuthenticator{Users: []types.UserEntry{
			{Username: "admin", Password: "admin123", Role: "admin"},
			{Username: "user", Password: "user123", Role: "user"},
		}},
		"test-secret",
		8*time.Hour,
	)
	router.POST("/api/login", ctrl.HandleLogin)
	return router
}

func postLogin(router *gin.Engine, username, password, remoteAddr string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(types.LoginRequest{Username: username, Password: password})
	req, _ := http.NewRequest("POST", "/api/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginIssuesToken(t *testing.T) {
	router := setupLoginRouter()

	w := postLogin(router, "admin", "admin123", "127.0.0.1:12345")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status code 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp types.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Token == "" {
		t.Error("Response should contain a token")
	}
	if resp.Role != "admin" {
		t.Errorf("Expected role admin, got %q", resp.Role)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := setupLoginRouter()

	w := postLogin(router, "admin", "wrong", "127.0.0.2:12345")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code 401, got %d", w.Code)
	}
}

func TestLoginRejectsInvalidBody(t *testing.T) {
	router := setupLoginRouter()

	req, _ := http.NewRequest("POST", "/api/login", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "127.0.0.3:12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status code 400, got %d", w.Code)
	}
}

func TestLoginRateLimitsPerIP(t *testing.T) {
	router := setupLoginRouter()

	var last int
	for i := 0; i < 8; i++ {
		w := postLogin(router, "admin", "wrong", "10.0.0.9:4444")
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("Expected status code 429 after repeated attempts, got %d", last)
	}

	// A different IP is not affected.
	w := postLogin(router, "admin", "admin123", "10.0.0.10:4444")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status code 200 for fresh IP, got %d", w.Code)
	}
}
