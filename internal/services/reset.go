package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/closetloop/marketplace-backend/internal/data/db"
	feedrepos "github.com/closetloop/marketplace-backend/internal/data/repos/feed"
	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/apierr"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

type ResetResult struct {
	OK                  bool     `json:"ok"`
	DeletedActions      int64    `json:"deleted_actions"`
	DeletedRatings      int64    `json:"deleted_ratings"`
	DeletedImpressions  int64    `json:"deleted_impressions"`
	ResetMarkersWritten int      `json:"reset_markers_written"`
	Warnings            []string `json:"warnings"`
}

// ResetService retracts a user's "seen" state for a scope through two
// independent mechanisms: soft reset markers in the cache and chunked hard
// deletes of ledger rows. Either one succeeding is enough; the markers are
// the availability fallback when deletes hit schema drift or store errors.
type ResetService interface {
	ResetSeen(ctx context.Context, userID uuid.UUID, role, recType, targetKind string) (*ResetResult, error)
}

type resetService struct {
	db          *gorm.DB
	log         *logger.Logger
	impressions feedrepos.ImpressionRepo
	actions     feedrepos.ActionRepo
	ratings     feedrepos.RatingRepo
	cache       CacheStore
	chunkSize   int
	markerTTL   time.Duration
}

func NewResetService(
	gdb *gorm.DB,
	baseLog *logger.Logger,
	impressions feedrepos.ImpressionRepo,
	actions feedrepos.ActionRepo,
	ratings feedrepos.RatingRepo,
	cache CacheStore,
	chunkSize int,
	markerTTL time.Duration,
) ResetService {
	if chunkSize <= 0 {
		chunkSize = 200
	}
	if markerTTL <= 0 {
		markerTTL = 45 * 24 * time.Hour
	}
	return &resetService{
		db:          gdb,
		log:         baseLog.With("service", "ResetService"),
		impressions: impressions,
		actions:     actions,
		ratings:     ratings,
		cache:       cache,
		chunkSize:   chunkSize,
		markerTTL:   markerTTL,
	}
}

func (s *resetService) ResetSeen(ctx context.Context, userID uuid.UUID, role, recType, targetKind string) (*ResetResult, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "missing_user_id", fmt.Errorf("user id required"))
	}
	if !types.ValidRole(role) {
		return nil, apierr.New(http.StatusBadRequest, "invalid_role", fmt.Errorf("invalid role %q", role))
	}
	if targetKind != "" && !types.ValidTargetKind(targetKind) {
		return nil, apierr.New(http.StatusBadRequest, "invalid_target_kind", fmt.Errorf("invalid target kind %q", targetKind))
	}

	log := s.log.With("user_id", userID, "role", role, "rec_type", recType, "target_kind", targetKind)
	res := &ResetResult{Warnings: []string{}}
	now := time.Now().UTC()

	// Phase 0: find the impressions in scope. A listing failure leaves the
	// delete phases unable to run, but markers are still written below.
	rows, listErr := s.impressions.ListByScope(ctx, nil, userID, role, recType, targetKind)
	if listErr != nil {
		if db.IsSchemaDrift(listErr) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("impression scope query skipped (schema drift): %v", listErr))
			listErr = nil
		} else {
			res.Warnings = append(res.Warnings, fmt.Sprintf("impression scope query failed: %v", listErr))
		}
	}

	// Phase 1: soft reset markers, one per derived target scope. Attempted
	// regardless of how the deletes go.
	markerOK := s.writeMarkers(ctx, res, userID, role, recType, targetKind, rows, now)

	// Phases 2-4: chunked hard deletes, children before parents.
	ids := make([]uuid.UUID, 0, len(rows))
	for _, imp := range rows {
		ids = append(ids, imp.ID)
	}

	deletesOK := false
	if listErr != nil {
		res.Warnings = append(res.Warnings, "delete phases skipped: scope unknown")
	} else {
		okActions := s.deletePhase(ctx, res, "actions", ids, &res.DeletedActions, s.actions.DeleteByImpressionIDs)
		okRatings := s.deletePhase(ctx, res, "ratings", ids, &res.DeletedRatings, s.ratings.DeleteByImpressionIDs)
		okImpressions := s.deletePhase(ctx, res, "impressions", ids, &res.DeletedImpressions, s.impressions.DeleteByIDs)
		deletesOK = okActions || okRatings || okImpressions
	}

	// Either mechanism succeeding is sufficient.
	res.OK = markerOK || deletesOK
	if !res.OK {
		log.Error("reset failed on both marker and delete paths", "warnings", res.Warnings)
	} else if len(res.Warnings) > 0 {
		log.Warn("reset completed with warnings", "warnings", res.Warnings)
	}
	return res, nil
}

// writeMarkers covers the requested scope plus every target kind actually
// present in the matched impressions. Returns true if at least one marker
// landed.
func (s *resetService) writeMarkers(ctx context.Context, res *ResetResult, userID uuid.UUID, role, recType, targetKind string, rows []*types.Impression, now time.Time) bool {
	kinds := map[string]struct{}{}
	if targetKind != "" {
		kinds[targetKind] = struct{}{}
	}
	for _, imp := range rows {
		kinds[imp.TargetKind] = struct{}{}
	}
	if len(kinds) == 0 {
		// Nothing impressed yet and no kind requested: mark every kind so a
		// re-run stays a no-op.
		kinds[types.TargetKindDrop] = struct{}{}
	}

	wrote := false
	for kind := range kinds {
		key := resetMarkerKey(userID, role, kind, recType)
		if err := writeResetMarker(ctx, s.cache, key, now, s.markerTTL); err != nil {
			if db.IsSchemaDrift(err) {
				res.Warnings = append(res.Warnings, fmt.Sprintf("reset marker for %s skipped (schema drift): %v", kind, err))
				continue
			}
			res.Warnings = append(res.Warnings, fmt.Sprintf("reset marker for %s failed: %v", kind, err))
			continue
		}
		res.ResetMarkersWritten++
		wrote = true
	}
	return wrote
}

// deletePhase removes rows in fixed-size id chunks. Chunk failures are
// isolated: earlier chunks stay deleted (each removed row is a net-positive,
// idempotent step). Missing tables or columns degrade the phase to a
// success-with-warning; any other error aborts the phase.
func (s *resetService) deletePhase(
	ctx context.Context,
	res *ResetResult,
	phase string,
	ids []uuid.UUID,
	deleted *int64,
	deleteFn func(context.Context, *gorm.DB, []uuid.UUID) (int64, error),
) bool {
	for start := 0; start < len(ids); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		n, err := deleteFn(ctx, nil, ids[start:end])
		*deleted += n
		if err == nil {
			continue
		}
		if db.IsSchemaDrift(err) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s delete skipped (schema drift): %v", phase, err))
			return true
		}
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s delete aborted at chunk %d: %v", phase, start/s.chunkSize, err))
		return false
	}
	return true
}
