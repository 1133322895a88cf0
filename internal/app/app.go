package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/closetloop/marketplace-backend/internal/data/db"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	clients  Clients
	stop     chan struct{}
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clients, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients)
	handlerset := wireHandlers(log, serviceset)
	middlewareset := wireMiddleware(log, cfg)
	router := wireRouter(cfg, handlerset, middlewareset)

	a := &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		clients:  clients,
		stop:     make(chan struct{}),
	}
	go a.sweepCacheEntries()
	return a, nil
}

// sweepCacheEntries trims expired DB cache rows. Redis expires keys on its
// own; the DB store needs a janitor.
func (a *App) sweepCacheEntries() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		n, err := a.Repos.CacheEntry.DeleteExpired(context.Background())
		if err != nil {
			a.Log.Warn("cache entry sweep failed", "error", err)
		} else if n > 0 {
			a.Log.Debug("swept expired cache entries", "deleted", n)
		}
		select {
		case <-a.stop:
			return
		case <-ticker.C:
		}
	}
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.stop != nil {
		close(a.stop)
	}
	a.clients.Close()
	if a.Log != nil {
		a.Log.Sync()
	}
}
