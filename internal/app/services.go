package app

import (
	"gorm.io/gorm"

	"github.com/closetloop/marketplace-backend/internal/platform/logger"
	"github.com/closetloop/marketplace-backend/internal/services"
)

type Services struct {
	Cache      services.CacheStore
	Preference services.PreferenceService
	Candidate  services.CandidateService
	Insight    services.InsightService
	Feed       services.FeedService
	Signal     services.SignalService
	Reset      services.ResetService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	cache := cacheStoreProvider(clients, db, log)

	preference := services.NewPreferenceService(db, log, repos.Impression, repos.Action, repos.Rating, cfg.SignalFetchLimit)
	candidate := services.NewCandidateService(db, log, repos.Drop, repos.Shop, repos.Impression, cache, cfg.SeenWindow)
	insight := services.NewInsightService(db, log, repos.Shop, repos.Drop, repos.Impression, repos.Action)
	feed := services.NewFeedService(db, log, candidate, preference, insight, repos.Impression, cfg.CandidatePoolLimit)
	signal := services.NewSignalService(db, log, repos.Impression, repos.Action, repos.Rating)
	reset := services.NewResetService(db, log, repos.Impression, repos.Action, repos.Rating, cache, cfg.ResetChunkSize, cfg.ResetMarkerTTL)

	return Services{
		Cache:      cache,
		Preference: preference,
		Candidate:  candidate,
		Insight:    insight,
		Feed:       feed,
		Signal:     signal,
		Reset:      reset,
	}
}
