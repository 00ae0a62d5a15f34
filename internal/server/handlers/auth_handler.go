package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JesVite28/products-front/internal/service/account"
)

// AuthHandler exposes the authentication flow over HTTP.
type AuthHandler struct {
	svc    *account.Service
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(svc *account.Service, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrMissingCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": h.svc.LastError()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "role": user.RoleLabel()})
}

// Register creates an account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrMissingCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": h.svc.LastError()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "role": user.RoleLabel()})
}

// Logout ends the session locally.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.svc.Logout()
	c.JSON(http.StatusOK, gin.H{"state": h.svc.State()})
}

// Session reports the authentication state and the signed-in user.
func (h *AuthHandler) Session(c *gin.Context) {
	user := h.svc.CurrentUser()
	c.JSON(http.StatusOK, gin.H{
		"state": h.svc.State(),
		"error": h.svc.LastError(),
		"user":  user,
		"role":  user.RoleLabel(),
	})
}
