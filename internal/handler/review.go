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

type ReviewHandler interface {
	ListReviews(c *gin.Context)
	PostReview(c *gin.Context)
	DeleteReview(c *gin.Context)
}

type reviewHandler struct {
	repo repository.ReviewRepository
	log  *logrus.Logger
}

func NewReviewHandler(repo repository.ReviewRepository, log *logrus.Logger) ReviewHandler {
	return &reviewHandler{repo: repo, log: log}
}

func (h *reviewHandler) ListReviews(c *gin.Context) {
	locationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid location id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reviews, err := h.repo.ListReviewsByLocation(locationID, limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list reviews for location %d: %v", locationID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *reviewHandler) PostReview(c *gin.Context) {
	locationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid location id"})
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	review := &models.Review{
		LocationID: locationID,
		UserID:     currentUserID(c),
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := h.repo.UpsertReview(review); err != nil {
		h.log.Errorf("Failed to save review: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to save review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// DeleteReview allows the author or an admin to remove a review.
func (h *reviewHandler) DeleteReview(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid review id"})
		return
	}

	review, err := h.repo.GetReviewByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"message": "review not found"})
			return
		}
		h.log.Errorf("Failed to get review %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to get review"})
		return
	}

	if review.UserID != currentUserID(c) && currentRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden"})
		return
	}

	if err := h.repo.DeleteReview(id); err != nil {
		h.log.Errorf("Failed to delete review %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}
