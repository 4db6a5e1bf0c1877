package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"wanderlist/internal/models"
	"wanderlist/internal/repository"
)

type ReportHandler interface {
	CreateReport(c *gin.Context)
	ListReports(c *gin.Context)
	ResolveReport(c *gin.Context)
}

type reportHandler struct {
	repo repository.ReportRepository
	log  *logrus.Logger
}

func NewReportHandler(repo repository.ReportRepository, log *logrus.Logger) ReportHandler {
	return &reportHandler{repo: repo, log: log}
}

func (h *reportHandler) CreateReport(c *gin.Context) {
	var req struct {
		TargetType string `json:"target_type" binding:"required,oneof=location review"`
		TargetID   int64  `json:"target_id" binding:"required"`
		Reason     string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	report := &models.Report{
		Reference:  uuid.NewString(),
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Status:     models.ReportOpen,
		ReportedBy: currentUserID(c),
	}
	if err := h.repo.CreateReport(report); err != nil {
		h.log.Errorf("Failed to create report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"report": report})
}

func (h *reportHandler) ListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reports, err := h.repo.ListReports(c.Query("status"), limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list reports: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *reportHandler) ResolveReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid report id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=resolved dismissed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.repo.ResolveReport(id, req.Status, currentUserID(c)); err != nil {
		h.log.Errorf("Failed to resolve report %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to resolve report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}
