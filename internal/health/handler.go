package health

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/tcxvis/internal/telemetry/tracing"
	"github.com/2beens/tcxvis/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	statusOK       = "ok"
	statusDisabled = "disabled"

	pingTimeout = 2 * time.Second
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type Response struct {
	DB    string `json:"db"`
	Redis string `json:"redis"`
}

type Handler struct {
	db    dbPinger
	redis redisPinger
}

// NewHandler creates the health check handler. A nil redis client is
// reported as disabled.
func NewHandler(db dbPinger, redisClient *redis.Client) *Handler {
	h := &Handler{db: db}
	if redisClient != nil {
		h.redis = redisClient
	}
	return h
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp := Response{
		DB:    statusOK,
		Redis: statusDisabled,
	}
	statusCode := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		log.Errorf("health: db ping: %s", err)
		resp.DB = err.Error()
		statusCode = http.StatusServiceUnavailable
	}

	// redis only backs the rate limiter; the service stays usable without it
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			log.Warnf("health: redis ping: %s", err)
			resp.Redis = err.Error()
		} else {
			resp.Redis = statusOK
		}
	}

	pkg.WriteJSON(w, resp, statusCode)
}
