package app

import (
	"strings"
	"time"

	"github.com/closetloop/marketplace-backend/internal/platform/envutil"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

type Config struct {
	HTTPAddr     string
	JWTSecretKey string
	AllowOrigins []string

	// Ranking knobs. Defaults match the documented algorithm; override for
	// load tests, not per-user tuning.
	CandidatePoolLimit int
	SignalFetchLimit   int
	SeenWindow         time.Duration
	ResetChunkSize     int
	ResetMarkerTTL     time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	httpAddr := envutil.GetEnv("HTTP_ADDR", ":8080", log)
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	origins := strings.Split(envutil.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")

	candidatePool := envutil.GetEnvAsInt("FEED_CANDIDATE_POOL", 200, log)
	signalFetch := envutil.GetEnvAsInt("FEED_SIGNAL_FETCH_LIMIT", 200, log)
	seenWindowDays := envutil.GetEnvAsInt("FEED_SEEN_WINDOW_DAYS", 7, log)
	resetChunkSize := envutil.GetEnvAsInt("FEED_RESET_CHUNK_SIZE", 200, log)
	markerTTLDays := envutil.GetEnvAsInt("FEED_RESET_MARKER_TTL_DAYS", 45, log)

	return Config{
		HTTPAddr:           httpAddr,
		JWTSecretKey:       jwtSecretKey,
		AllowOrigins:       origins,
		CandidatePoolLimit: candidatePool,
		SignalFetchLimit:   signalFetch,
		SeenWindow:         time.Duration(seenWindowDays) * 24 * time.Hour,
		ResetChunkSize:     resetChunkSize,
		ResetMarkerTTL:     time.Duration(markerTTLDays) * 24 * time.Hour,
	}
}
