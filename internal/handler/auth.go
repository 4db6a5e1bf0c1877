package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"wanderlist/internal/middleware"
	"wanderlist/internal/service"
)

type AuthHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
}

type authHandler struct {
	authService service.AuthService
	log         *logrus.Logger
}

func NewAuthHandler(authService service.AuthService, log *logrus.Logger) AuthHandler {
	return &authHandler{authService: authService, log: log}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *authHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.authService.Register(req.Name, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"message": "email or username already taken"})
			return
		}
		h.log.Errorf("Failed to register user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user.Public()})
}

func (h *authHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	tokenString, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// One message for every credential failure: no email/password oracle.
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
			return
		}
		h.log.Errorf("Failed to login user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user.Public(),
	})
}

// currentUserID reads the id the auth middleware attached to the context.
func currentUserID(c *gin.Context) int64 {
	return c.MustGet(middleware.CtxUserID).(int64)
}

func currentRole(c *gin.Context) string {
	return c.MustGet(middleware.CtxRole).(string)
}
