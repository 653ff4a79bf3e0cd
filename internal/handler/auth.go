package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"finledger/internal/middleware"
	"finledger/internal/service"
	"finledger/internal/session"
)

type AuthHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type authHandler struct {
	authService service.AuthService
	tokenTTL    time.Duration
	secure      bool
	log         *logrus.Logger
}

// NewAuthHandler builds the auth endpoints. tokenTTL sizes the session
// cookie's Max-Age; secure controls its Secure attribute and comes from the
// environment config.
func NewAuthHandler(authService service.AuthService, tokenTTL time.Duration, secure bool, log *logrus.Logger) AuthHandler {
	return &authHandler{authService: authService, tokenTTL: tokenTTL, secure: secure, log: log}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *authHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf("Failed to register user: %v", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (h *authHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	user, tokenString, _, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// One message for unknown email and wrong password alike.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.log.Errorf("Failed to login user: %v", err)
		internalError(c)
		return
	}

	session.Set(c, tokenString, h.tokenTTL, h.secure)
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": user.ID, "email": user.Email},
	})
}

func (h *authHandler) Logout(c *gin.Context) {
	session.Clear(c, h.secure)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the identity resolved from the session cookie. It sits behind
// AuthRequired, so claims are always present here.
func (h *authHandler) Me(c *gin.Context) {
	claims := middleware.Identity(c)
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": claims.UserID, "email": claims.Email},
	})
}
