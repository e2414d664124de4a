package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"equipass/models"
	"equipass/services/review"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReviewHandler exposes review and rating operations over HTTP.
type ReviewHandler struct {
	Svc review.ReviewService
}

func NewReviewHandler(svc review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Svc: svc}
}

func respondReviewError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		notFound   review.NotFoundError
		validation review.ValidationError
		conflict   review.ConflictError
		forbidden  review.ForbiddenError
		invalidSt  review.InvalidStateError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &invalidSt):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("review operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// CreateReviewHandler publishes the caller's review of a completed record.
func (h *ReviewHandler) CreateReviewHandler(c *gin.Context) {
	logger := getLogger(c)
	var input models.CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	input.ReviewerID = c.GetString("subjectID")

	rev, err := h.Svc.CreateReview(c.Request.Context(), input)
	if err != nil {
		respondReviewError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, rev)
}

// GetExpertRatingSummaryHandler returns the aggregate rating view.
func (h *ReviewHandler) GetExpertRatingSummaryHandler(c *gin.Context) {
	logger := getLogger(c)
	summary, err := h.Svc.GetExpertRatingSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondReviewError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetExpertReviewsHandler lists an expert's published reviews.
func (h *ReviewHandler) GetExpertReviewsHandler(c *gin.Context) {
	logger := getLogger(c)
	var limit int64
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.ParseInt(l, 10, 64); err == nil {
			limit = parsed
		}
	}
	reviews, err := h.Svc.GetReviewsByExpert(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondReviewError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// RespondToReviewHandler sets the owner-expert's write-once response.
func (h *ReviewHandler) RespondToReviewHandler(c *gin.Context) {
	logger := getLogger(c)
	var body struct {
		Response string `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	rev, err := h.Svc.RespondToReview(c.Request.Context(), c.Param("id"), c.GetString("expertID"), body.Response)
	if err != nil {
		respondReviewError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}

// FlagReviewHandler pulls a review from the published set.
func (h *ReviewHandler) FlagReviewHandler(c *gin.Context) {
	logger := getLogger(c)
	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	rev, err := h.Svc.FlagReview(c.Request.Context(), c.Param("id"), body.Reason, c.GetString("subjectID"))
	if err != nil {
		respondReviewError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}

// VoteReviewHandler increments the helpful or not-helpful counter.
func (h *ReviewHandler) VoteReviewHandler(c *gin.Context) {
	logger := getLogger(c)
	var body struct {
		IsHelpful *bool `json:"isHelpful" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	rev, err := h.Svc.VoteReview(c.Request.Context(), c.Param("id"), *body.IsHelpful)
	if err != nil {
		respondReviewError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, rev)
}
