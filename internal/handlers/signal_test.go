package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/closetloop/marketplace-backend/internal/domain"
	"github.com/closetloop/marketplace-backend/internal/platform/apierr"
)

type fakeSignalService struct {
	action *types.Action
	rating *types.Rating
	err    error

	gotImpressionID uuid.UUID
	gotKind         string
	gotValue        float64
}

func (f *fakeSignalService) RecordAction(_ context.Context, _ uuid.UUID, impressionID uuid.UUID, kind string) (*types.Action, error) {
	f.gotImpressionID = impressionID
	f.gotKind = kind
	return f.action, f.err
}

func (f *fakeSignalService) RecordRating(_ context.Context, _ uuid.UUID, impressionID uuid.UUID, value float64) (*types.Rating, error) {
	f.gotImpressionID = impressionID
	f.gotValue = value
	return f.rating, f.err
}

func signalRouter(t *testing.T, svc *fakeSignalService, userID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewSignalHandler(testLogger(t), svc)
	r := gin.New()
	r.POST("/api/feed/impressions/:impressionID/actions", identity(userID), h.RecordAction)
	r.POST("/api/feed/impressions/:impressionID/ratings", identity(userID), h.RecordRating)
	return r
}

func TestRecordActionEndpoint(t *testing.T) {
	impressionID := uuid.New()
	svc := &fakeSignalService{action: &types.Action{ID: uuid.New(), ImpressionID: impressionID, Kind: types.ActionSave}}
	r := signalRouter(t, svc, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/feed/impressions/"+impressionID.String()+"/actions",
		strings.NewReader(`{"kind":"save"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.gotImpressionID != impressionID || svc.gotKind != types.ActionSave {
		t.Fatalf("service got impression=%s kind=%q", svc.gotImpressionID, svc.gotKind)
	}
}

func TestRecordActionBadRequests(t *testing.T) {
	svc := &fakeSignalService{}
	r := signalRouter(t, svc, uuid.New())

	cases := []struct {
		name string
		url  string
		body string
	}{
		{"bad impression id", "/api/feed/impressions/not-a-uuid/actions", `{"kind":"save"}`},
		{"missing kind", "/api/feed/impressions/" + uuid.New().String() + "/actions", `{}`},
		{"malformed json", "/api/feed/impressions/" + uuid.New().String() + "/actions", `{"kind":`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, c.url, strings.NewReader(c.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestRecordRatingServiceErrorMapping(t *testing.T) {
	svc := &fakeSignalService{err: apierr.New(http.StatusForbidden, "impression_not_owned", nil)}
	r := signalRouter(t, svc, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/feed/impressions/"+uuid.New().String()+"/ratings",
		strings.NewReader(`{"value":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "impression_not_owned") {
		t.Fatalf("error code missing from body: %s", rec.Body.String())
	}
}

func TestRecordRatingEndpoint(t *testing.T) {
	impressionID := uuid.New()
	svc := &fakeSignalService{rating: &types.Rating{ID: uuid.New(), ImpressionID: impressionID, Value: -1}}
	r := signalRouter(t, svc, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/api/feed/impressions/"+impressionID.String()+"/ratings",
		strings.NewReader(`{"value":-1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.gotValue != -1 {
		t.Fatalf("service got value %v", svc.gotValue)
	}
}
