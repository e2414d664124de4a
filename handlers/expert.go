package handlers

import (
	"errors"
	"net/http"
	"strconv"

	expertRepo "equipass/database/repository/expert"
	"equipass/models"
	"equipass/services/expert"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExpertHandler exposes the expert directory and work-status toggles.
type ExpertHandler struct {
	Svc expert.WorkStatusService
}

func NewExpertHandler(svc expert.WorkStatusService) *ExpertHandler {
	return &ExpertHandler{Svc: svc}
}

func respondExpertError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		notFound   expert.NotFoundError
		validation expert.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("expert operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// GetExpertHandler returns an expert's profile and work-status view.
func (h *ExpertHandler) GetExpertHandler(c *gin.Context) {
	logger := getLogger(c)
	exp, err := h.Svc.GetExpert(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondExpertError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

// ListExpertsHandler returns the expert directory.
func (h *ExpertHandler) ListExpertsHandler(c *gin.Context) {
	logger := getLogger(c)

	criteria := expertRepo.ExpertSearchCriteria{
		ServiceType: c.Query("serviceType"),
	}
	if mr := c.Query("minRating"); mr != "" {
		if parsed, err := strconv.ParseFloat(mr, 64); err == nil {
			criteria.MinRating = parsed
		}
	}
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.ParseInt(l, 10, 64); err == nil {
			criteria.Limit = parsed
		}
	}

	experts, err := h.Svc.ListExperts(c.Request.Context(), criteria)
	if err != nil {
		respondExpertError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"experts": experts})
}

// UpdateWorkStatusHandler applies a manual availability toggle. Experts can
// only change their own status.
func (h *ExpertHandler) UpdateWorkStatusHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")
	if c.GetString("expertID") != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot change another expert's work status"})
		return
	}

	var body struct {
		WorkStatus models.ExpertWorkStatus `json:"workStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	exp, err := h.Svc.SetWorkStatus(c.Request.Context(), id, body.WorkStatus)
	if err != nil {
		respondExpertError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}
