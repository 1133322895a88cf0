package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/closetloop/marketplace-backend/internal/platform/logger"
	"github.com/closetloop/marketplace-backend/internal/services"
)

type SignalHandler struct {
	log       *logger.Logger
	signalSvc services.SignalService
}

func NewSignalHandler(log *logger.Logger, signalSvc services.SignalService) *SignalHandler {
	return &SignalHandler{
		log:       log.With("handler", "SignalHandler"),
		signalSvc: signalSvc,
	}
}

type recordActionRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// POST /api/feed/impressions/:impressionID/actions
func (h *SignalHandler) RecordAction(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", fmt.Errorf("no resolvable user"))
		return
	}
	impressionID, err := uuid.Parse(c.Param("impressionID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_impression_id", err)
		return
	}
	var req recordActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row, err := h.signalSvc.RecordAction(c.Request.Context(), userID, impressionID, req.Kind)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}

type recordRatingRequest struct {
	Value float64 `json:"value" binding:"required"`
}

// POST /api/feed/impressions/:impressionID/ratings
func (h *SignalHandler) RecordRating(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", fmt.Errorf("no resolvable user"))
		return
	}
	impressionID, err := uuid.Parse(c.Param("impressionID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_impression_id", err)
		return
	}
	var req recordRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row, err := h.signalSvc.RecordRating(c.Request.Context(), userID, impressionID, req.Value)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}
