package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"finledger/internal/middleware"
	"finledger/internal/service"
)

type RecordHandler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Summary(c *gin.Context)
}

type recordHandler struct {
	recordService service.RecordService
	log           *logrus.Logger
}

func NewRecordHandler(recordService service.RecordService, log *logrus.Logger) RecordHandler {
	return &recordHandler{recordService: recordService, log: log}
}

// Income and Expense are pointers so a legitimate zero still passes the
// required binding.
type CreateRecordRequest struct {
	Month   string   `json:"month" binding:"required"`
	Income  *float64 `json:"income" binding:"required,gte=0"`
	Expense *float64 `json:"expense" binding:"required,gte=0"`
}

func (h *recordHandler) Create(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	claims := middleware.Identity(c)
	record, err := h.recordService.Create(c.Request.Context(), claims.UserID, req.Month, *req.Income, *req.Expense)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMonth), errors.Is(err, service.ErrNegativeAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrDuplicateMonth):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.Errorf("Failed to create finance record: %v", err)
			internalError(c)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"record": record})
}

func (h *recordHandler) List(c *gin.Context) {
	claims := middleware.Identity(c)
	records, err := h.recordService.List(c.Request.Context(), claims.UserID)
	if err != nil {
		h.log.Errorf("Failed to list finance records: %v", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *recordHandler) Summary(c *gin.Context) {
	claims := middleware.Identity(c)
	summary, err := h.recordService.Summarize(c.Request.Context(), claims.UserID)
	if err != nil {
		h.log.Errorf("Failed to summarize finance records: %v", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
