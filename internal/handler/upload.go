package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"wanderlist/internal/uploads"
)

type UploadHandler interface {
	Presign(c *gin.Context)
}

type uploadHandler struct {
	presigner *uploads.Presigner
	log       *logrus.Logger
}

func NewUploadHandler(presigner *uploads.Presigner, log *logrus.Logger) UploadHandler {
	return &uploadHandler{presigner: presigner, log: log}
}

// Presign handles POST /api/uploads/presign. The client PUTs the file to
// upload_url and then references object_url in location/profile payloads.
func (h *uploadHandler) Presign(c *gin.Context) {
	var req struct {
		Filename    string `json:"filename" binding:"required"`
		ContentType string `json:"content_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	uploadURL, objectURL, err := h.presigner.PresignPut(
		c.Request.Context(), currentUserID(c), req.Filename, req.ContentType)
	if err != nil {
		h.log.Errorf("Failed to presign upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to presign upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_url": uploadURL,
		"object_url": objectURL,
	})
}
