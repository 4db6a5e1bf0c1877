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

type LocationHandler interface {
	ListLocations(c *gin.Context)
	GetLocation(c *gin.Context)
	CreateLocation(c *gin.Context)
	UpdateLocation(c *gin.Context)
	UpdateLocationStatus(c *gin.Context)
	DeleteLocation(c *gin.Context)
}

type locationHandler struct {
	repo repository.LocationRepository
	log  *logrus.Logger
}

func NewLocationHandler(repo repository.LocationRepository, log *logrus.Logger) LocationHandler {
	return &locationHandler{repo: repo, log: log}
}

type locationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Country     string `json:"country" binding:"required"`
	City        string `json:"city" binding:"required"`
	CategoryID  int64  `json:"category_id" binding:"required"`
	Photo       string `json:"photo"`
}

// ListLocations handles GET /api/locations. Public listing only shows
// approved entries; admins can ask for any status via ?status=.
func (h *locationHandler) ListLocations(c *gin.Context) {
	filter := repository.LocationFilter{
		Query:  c.Query("q"),
		Status: models.LocationApproved,
	}
	if v := c.Query("category_id"); v != "" {
		filter.CategoryID, _ = strconv.ParseInt(v, 10, 64)
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	if status := c.Query("status"); status != "" {
		if role, ok := c.Get("role"); ok && role == models.RoleAdmin {
			filter.Status = status
		}
	}

	locations, err := h.repo.ListLocations(filter)
	if err != nil {
		h.log.Errorf("Failed to list locations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list locations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

func (h *locationHandler) GetLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid location id"})
		return
	}

	location, err := h.repo.GetLocationByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"message": "location not found"})
			return
		}
		h.log.Errorf("Failed to get location %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to get location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": location})
}

// CreateLocation handles POST /api/locations. Contributions start pending
// and become visible after an admin approves them.
func (h *locationHandler) CreateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	location := &models.Location{
		Name:        req.Name,
		Description: req.Description,
		Country:     req.Country,
		City:        req.City,
		CategoryID:  req.CategoryID,
		Photo:       req.Photo,
		Status:      models.LocationPending,
		CreatedBy:   currentUserID(c),
	}

	if err := h.repo.CreateLocation(location); err != nil {
		h.log.Errorf("Failed to create location: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create location"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"location": location})
}

func (h *locationHandler) UpdateLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid location id"})
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	location := &models.Location{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Country:     req.Country,
		City:        req.City,
		CategoryID:  req.CategoryID,
		Photo:       req.Photo,
	}
	if err := h.repo.UpdateLocation(location); err != nil {
		h.log.Errorf("Failed to update location %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": location})
}

func (h *locationHandler) UpdateLocationStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid location id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=pending approved rejected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.repo.UpdateStatus(id, req.Status); err != nil {
		h.log.Errorf("Failed to update location %d status: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (h *locationHandler) DeleteLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid location id"})
		return
	}

	if err := h.repo.DeleteLocation(id); err != nil {
		h.log.Errorf("Failed to delete location %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "location deleted"})
}
