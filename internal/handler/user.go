package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"wanderlist/internal/models"
	"wanderlist/internal/repository"
)

type UserHandler interface {
	GetProfile(c *gin.Context)
	UpdateProfile(c *gin.Context)
	ListUsers(c *gin.Context)
	UpdateUserRole(c *gin.Context)
	UpdateUserStatus(c *gin.Context)
}

type userHandler struct {
	repo repository.UserRepository
	log  *logrus.Logger
}

func NewUserHandler(repo repository.UserRepository, log *logrus.Logger) UserHandler {
	return &userHandler{repo: repo, log: log}
}

func (h *userHandler) GetProfile(c *gin.Context) {
	user, err := h.repo.GetUserByID(currentUserID(c))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		h.log.Errorf("Failed to get profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}

// UpdateProfile changes display name and avatar. The gateway mirrors the
// result into its session without reissuing the token.
func (h *userHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID := currentUserID(c)
	if err := h.repo.UpdateProfile(userID, req.Name, req.Avatar); err != nil {
		h.log.Errorf("Failed to update profile for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update profile"})
		return
	}

	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		h.log.Errorf("Failed to reload profile for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}

func (h *userHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.repo.ListUsers(limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list users"})
		return
	}

	profiles := make([]models.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	c.JSON(http.StatusOK, gin.H{"users": profiles})
}

// UpdateUserRole is the explicit administrative role-change path. The new
// role reaches tokens only on the subject's next login.
func (h *userHandler) UpdateUserRole(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}

	var req struct {
		Role string `json:"role" binding:"required,oneof=user admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.repo.UpdateRole(id, req.Role); err != nil {
		h.log.Errorf("Failed to update role for user %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "role": req.Role})
}

func (h *userHandler) UpdateUserStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=active banned"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if id == currentUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cannot change own status"})
		return
	}

	if err := h.repo.UpdateStatus(id, req.Status); err != nil {
		h.log.Errorf("Failed to update status for user %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}
