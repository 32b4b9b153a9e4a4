package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func setupProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireToken(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"username": c.GetString(ContextUserKey),
			"role":     c.GetString(ContextRoleKey),
		})
	})
	return router
}

func TestRequireTokenFromHeader(t *testing.T) {
	router := setupProtectedRouter()
	token := signTestToken(t, testSecret, jwt.MapClaims{
		"username": "ana",
		"role":     "admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status code 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireTokenFromQueryParameter(t *testing.T) {
	// The event-stream transport cannot set headers, so the token may ride
	// in the query string instead.
	router := setupProtectedRouter()
	token := signTestToken(t, testSecret, jwt.MapClaims{
		"username": "ana",
		"role":     "user",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	req, _ := http.NewRequest("GET", "/protected?token="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status code 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireTokenMissing(t *testing.T) {
	router := setupProtectedRouter()

	req, _ := http.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code 401, got %d", w.Code)
	}
}

func TestRequireTokenExpired(t *testing.T) {
	router := setupProtectedRouter()
	token := signTestToken(t, testSecret, jwt.MapClaims{
		"username": "ana",
		"role":     "user",
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code 401, got %d", w.Code)
	}
}

func TestRequireTokenWrongSecret(t *testing.T) {
	router := setupProtectedRouter()
	token := signTestToken(t, "other-secret", jwt.MapClaims{
		"username": "ana",
		"role":     "user",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code 401, got %d", w.Code)
	}
}
