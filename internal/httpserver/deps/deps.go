package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edseguy/code-scanner/internal/logger"
	"github.com/edseguy/code-scanner/internal/session"
)

type Deps struct {
	Logger     logger.Logger
	StartTime  time.Time
	Version    string
	Commit     string
	BuildDate  string
	GoVersion  string
	Controller *session.Controller

	// RedisClient is nil when history persistence runs on the in-process KV.
	RedisClient *redis.Client

	// ProfileReloadTrigger is nil when no profile file is configured.
	ProfileReloadTrigger chan struct{}
}
