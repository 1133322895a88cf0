package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
	"github.com/closetloop/marketplace-backend/internal/ranking"
	"github.com/closetloop/marketplace-backend/internal/requestdata"
	"github.com/closetloop/marketplace-backend/internal/services"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

type FeedHandler struct {
	log     *logger.Logger
	feedSvc services.FeedService
}

func NewFeedHandler(log *logger.Logger, feedSvc services.FeedService) *FeedHandler {
	return &FeedHandler{
		log:     log.With("handler", "FeedHandler"),
		feedSvc: feedSvc,
	}
}

// GET /api/feed?role=buyer&limit=20&tz=Asia/Tokyo
// Optional now=RFC3339 pins the ranking clock for reproducible output.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", fmt.Errorf("no resolvable user"))
		return
	}

	role := c.DefaultQuery("role", types.RoleBuyer)
	if !types.ValidRole(role) {
		RespondError(c, http.StatusBadRequest, "invalid_role", fmt.Errorf("role must be buyer or seller"))
		return
	}

	limit := defaultFeedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxFeedLimit {
			RespondError(c, http.StatusBadRequest, "invalid_limit", fmt.Errorf("limit must be 1-%d", maxFeedLimit))
			return
		}
		limit = n
	}

	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_timezone", fmt.Errorf("unknown timezone %q", tz))
			return
		}
		loc = l
	}

	now := time.Now().UTC()
	if raw := c.Query("now"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_now", fmt.Errorf("now must be RFC3339"))
			return
		}
		now = t.UTC()
	}

	feed, err := h.feedSvc.Rank(c.Request.Context(), userID, role, limit, ranking.NewContext(now, loc))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, feed)
}

func currentUserID(c *gin.Context) uuid.UUID {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		return uuid.Nil
	}
	return rd.UserID
}
