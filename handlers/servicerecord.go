package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"equipass/models"
	"equipass/services/servicerecord"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServiceRecordHandler exposes the lifecycle operations over HTTP.
type ServiceRecordHandler struct {
	Svc servicerecord.ServiceRecordService
}

func NewServiceRecordHandler(svc servicerecord.ServiceRecordService) *ServiceRecordHandler {
	return &ServiceRecordHandler{Svc: svc}
}

func respondRecordError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		notFound    servicerecord.NotFoundError
		conflict    servicerecord.ConflictError
		forbidden   servicerecord.ForbiddenError
		invalidSt   servicerecord.InvalidStateError
		invalidTrns servicerecord.InvalidTransitionError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &invalidSt), errors.As(err, &invalidTrns):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("service record operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// actingIdentity resolves the acting user from the auth context. Expert
// actors act under their expert identity.
func actingIdentity(c *gin.Context) (actingID string, isExpert bool) {
	isExpert = c.GetBool("isExpertActor")
	if isExpert {
		return c.GetString("expertID"), true
	}
	return c.GetString("subjectID"), false
}

// CreateServiceRecordHandler assigns an expert to a service request.
func (h *ServiceRecordHandler) CreateServiceRecordHandler(c *gin.Context) {
	logger := getLogger(c)
	var input models.CreateServiceRecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	record, err := h.Svc.CreateServiceRecord(c.Request.Context(), input)
	if err != nil {
		respondRecordError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// UpdateServiceRecordHandler applies a partial update, including status
// transitions.
func (h *ServiceRecordHandler) UpdateServiceRecordHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	var patch models.ServiceRecordPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	actingID, isExpert := actingIdentity(c)
	record, err := h.Svc.UpdateServiceRecord(c.Request.Context(), id, patch, actingID, isExpert)
	if err != nil {
		respondRecordError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ConfirmCompletionHandler records the customer's sign-off.
func (h *ServiceRecordHandler) ConfirmCompletionHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	record, err := h.Svc.ConfirmCompletion(c.Request.Context(), id, c.GetString("subjectID"))
	if err != nil {
		respondRecordError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetServiceRecordHandler returns a single record.
func (h *ServiceRecordHandler) GetServiceRecordHandler(c *gin.Context) {
	logger := getLogger(c)
	record, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRecordError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func listFilters(c *gin.Context) (*models.ServiceRecordStatus, int64) {
	var status *models.ServiceRecordStatus
	if s := c.Query("status"); s != "" {
		st := models.ServiceRecordStatus(s)
		status = &st
	}
	var limit int64
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.ParseInt(l, 10, 64); err == nil {
			limit = parsed
		}
	}
	return status, limit
}

// GetRecordsByExpertHandler lists an expert's records, newest first.
func (h *ServiceRecordHandler) GetRecordsByExpertHandler(c *gin.Context) {
	logger := getLogger(c)
	status, limit := listFilters(c)
	records, err := h.Svc.GetByExpert(c.Request.Context(), c.Param("expertId"), status, limit)
	if err != nil {
		respondRecordError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// GetRecordsByCustomerHandler lists a customer's records, newest first.
func (h *ServiceRecordHandler) GetRecordsByCustomerHandler(c *gin.Context) {
	logger := getLogger(c)
	status, limit := listFilters(c)
	records, err := h.Svc.GetByCustomer(c.Request.Context(), c.Param("userId"), status, limit)
	if err != nil {
		respondRecordError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
