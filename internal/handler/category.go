package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"wanderlist/internal/models"
	"wanderlist/internal/repository"
)

type CategoryHandler interface {
	ListCategories(c *gin.Context)
	CreateCategory(c *gin.Context)
	UpdateCategory(c *gin.Context)
	DeleteCategory(c *gin.Context)
}

type categoryHandler struct {
	repo repository.CategoryRepository
	log  *logrus.Logger
}

func NewCategoryHandler(repo repository.CategoryRepository, log *logrus.Logger) CategoryHandler {
	return &categoryHandler{repo: repo, log: log}
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

func (h *categoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.repo.ListCategories()
	if err != nil {
		h.log.Errorf("Failed to list categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *categoryHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := h.repo.CreateCategory(category); err != nil {
		h.log.Errorf("Failed to create category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (h *categoryHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category id"})
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	category := &models.Category{ID: id, Name: req.Name, Slug: req.Slug}
	if err := h.repo.UpdateCategory(category); err != nil {
		h.log.Errorf("Failed to update category %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (h *categoryHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category id"})
		return
	}

	if err := h.repo.DeleteCategory(id); err != nil {
		h.log.Errorf("Failed to delete category %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
