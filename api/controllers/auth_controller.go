package controllers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"github.com/frvega/conversor-go/api/middlewares"
	"github.com/frvega/conversor-go/tool"
	"github.com/frvega/conversor-go/types"
)

// Authenticator checks credentials and returns the role they map to.
// Verification and user storage stay behind this boundary.
type Authenticator interface {
	Authenticate(username, password string) (string, error)
}

var errBadCredentials = errors.New("invalid credentials")

// StaticAuthenticator verifies against the user list handed over by config.
type StaticAuthenticator struct {
	Users []types.UserEntry
}

func (a *StaticAuthenticator) Authenticate(username, password string) (string, error) {
	for _, u := range a.Users {
		if u.Username == username && u.Password == password {
			return u.Role, nil
		}
	}
	return "", errBadCredentials
}

// AuthController issues bearer tokens on POST /api/login, with a per-IP rate
// limiter in front of the credential check.
type AuthController struct {
	auth     Authenticator
	secret   string
	tokenTTL time.Duration

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
}

func NewAuthController(auth Authenticator, secret string, tokenTTL time.Duration) *AuthController {
	return &AuthController{
		auth:     auth,
		secret:   secret,
		tokenTTL: tokenTTL,
		limiters: make(map[string]*rate.Limiter),
	}
}

// limiterFor returns the rate limiter for a client IP, one attempt per
// second with a small burst.
func (ctrl *AuthController) limiterFor(ip string) *rate.Limiter {
	ctrl.limiterMu.Lock()
	defer ctrl.limiterMu.Unlock()
	limiter, ok := ctrl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(1), 5)
		ctrl.limiters[ip] = limiter
	}
	return limiter
}

func (ctrl *AuthController) HandleLogin(c *gin.Context) {
	if !ctrl.limiterFor(c.ClientIP()).Allow() {
		c.JSON(http.StatusTooManyRequests, tool.FastReturnError("Demasiados intentos"))
		return
	}

	var request types.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body"))
		return
	}

	role, err := ctrl.auth.Authenticate(request.Username, request.Password)
	if err != nil {
		tool.DefaultLogger.Warnf("[Login] Invalid credentials for user %s", request.Username)
		c.JSON(http.StatusUnauthorized, tool.FastReturnError("Credenciales invalidas"))
		return
	}

	claims := jwt.MapClaims{
		middlewares.ContextUserKey: request.Username,
		middlewares.ContextRoleKey: role,
		"exp":                      time.Now().Add(ctrl.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ctrl.secret))
	if err != nil {
		tool.DefaultLogger.Errorf("[Login] Failed to sign token: %v", err)
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to issue token"))
		return
	}

	tool.DefaultLogger.Infof("[Login] Issued token for user %s (role %s)", request.Username, role)
	c.JSON(http.StatusOK, types.LoginResponse{Token: token, Role: role})
}
