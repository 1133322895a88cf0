package app

import (
	"gorm.io/gorm"

	catalogrepos "github.com/closetloop/marketplace-backend/internal/data/repos/catalog"
	feedrepos "github.com/closetloop/marketplace-backend/internal/data/repos/feed"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

type Repos struct {
	Drop       catalogrepos.DropRepo
	Shop       catalogrepos.ShopRepo
	Impression feedrepos.ImpressionRepo
	Action     feedrepos.ActionRepo
	Rating     feedrepos.RatingRepo
	CacheEntry feedrepos.CacheEntryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Drop:       catalogrepos.NewDropRepo(db, log),
		Shop:       catalogrepos.NewShopRepo(db, log),
		Impression: feedrepos.NewImpressionRepo(db, log),
		Action:     feedrepos.NewActionRepo(db, log),
		Rating:     feedrepos.NewRatingRepo(db, log),
		CacheEntry: feedrepos.NewCacheEntryRepo(db, log),
	}
}
