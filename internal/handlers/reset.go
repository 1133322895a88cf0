package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
	"github.com/closetloop/marketplace-backend/internal/services"
)

type ResetHandler struct {
	log      *logger.Logger
	resetSvc services.ResetService
}

func NewResetHandler(log *logger.Logger, resetSvc services.ResetService) *ResetHandler {
	return &ResetHandler{
		log:      log.With("handler", "ResetHandler"),
		resetSvc: resetSvc,
	}
}

type resetRequest struct {
	Role       string `json:"role" binding:"required"`
	RecType    string `json:"rec_type"`
	TargetKind string `json:"target_kind"`
}

// POST /api/feed/reset
// Returns 200 with {ok, warnings} even on degraded paths so operators can
// diagnose without blocking the user-facing reset.
func (h *ResetHandler) ResetSeen(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", fmt.Errorf("no resolvable user"))
		return
	}
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	recType := req.RecType
	if recType == "" {
		if req.Role == types.RoleSeller {
			recType = types.RecTypeSellerInsightsV1
		} else {
			recType = types.RecTypePersonalV1
		}
	}
	res, err := h.resetSvc.ResetSeen(c.Request.Context(), userID, req.Role, recType, req.TargetKind)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, res)
}
