package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"wanderlist/internal/repository"
)

type NotificationHandler interface {
	ListNotifications(c *gin.Context)
	MarkRead(c *gin.Context)
	Broadcast(c *gin.Context)
}

type notificationHandler struct {
	repo repository.NotificationRepository
	log  *logrus.Logger
}

func NewNotificationHandler(repo repository.NotificationRepository, log *logrus.Logger) NotificationHandler {
	return &notificationHandler{repo: repo, log: log}
}

func (h *notificationHandler) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notifications, err := h.repo.ListByUser(currentUserID(c), limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead only touches the caller's own notifications; the user id is part
// of the update predicate, not just the lookup.
func (h *notificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid notification id"})
		return
	}

	if err := h.repo.MarkRead(id, currentUserID(c)); err != nil {
		h.log.Errorf("Failed to mark notification %d read: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to mark notification read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "read": true})
}

func (h *notificationHandler) Broadcast(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
		Body  string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	count, err := h.repo.Broadcast(req.Title, req.Body)
	if err != nil {
		h.log.Errorf("Failed to broadcast notification: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to broadcast notification"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"delivered": count})
}
