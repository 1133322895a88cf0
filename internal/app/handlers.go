package app

import (
	"github.com/closetloop/marketplace-backend/internal/handlers"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

type Handlers struct {
	Feed   *handlers.FeedHandler
	Signal *handlers.SignalHandler
	Reset  *handlers.ResetHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Feed:   handlers.NewFeedHandler(log, services.Feed),
		Signal: handlers.NewSignalHandler(log, services.Signal),
		Reset:  handlers.NewResetHandler(log, services.Reset),
	}
}
