package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/opendesk/support-storage-go/internal/errors"
	"github.com/opendesk/support-storage-go/internal/httputil"
	"github.com/opendesk/support-storage-go/internal/model"
	"github.com/opendesk/support-storage-go/internal/repository"
)

// HealthChecker is satisfied by every store in this system.
type HealthChecker interface {
	HealthCheck(ctx context.Context) *model.HealthReport
}

// CensusTaker is satisfied by the session store.
type CensusTaker interface {
	KeyCensus(ctx context.Context) (*model.KeyCensus, error)
}

// OpsHandler exposes the operational surface: aggregated store health and
// storage statistics.
type OpsHandler struct {
	sessionCache HealthChecker
	contextCache HealthChecker
	logStore     HealthChecker
	census       CensusTaker
	convRepo     repository.ConversationRepository
	msgRepo      repository.MessageRepository
}

func NewOpsHandler(
	sessionCache HealthChecker,
	contextCache HealthChecker,
	logStore HealthChecker,
	census CensusTaker,
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
) *OpsHandler {
	return &OpsHandler{
		sessionCache: sessionCache,
		contextCache: contextCache,
		logStore:     logStore,
		census:       census,
		convRepo:     convRepo,
		msgRepo:      msgRepo,
	}
}

func (h *OpsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)
	return r
}

type healthResponse struct {
	Status    string                         `json:"status"`
	Timestamp int64                          `json:"timestamp"`
	Stores    map[string]*model.HealthReport `json:"stores"`
}

// Health aggregates the store health checks. The response is 200 only when
// every store reports healthy; individual reports are always included.
func (h *OpsHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stores := map[string]*model.HealthReport{
		"sessionCache":    h.sessionCache.HealthCheck(ctx),
		"contextCache":    h.contextCache.HealthCheck(ctx),
		"conversationLog": h.logStore.HealthCheck(ctx),
	}

	status := model.HealthStatusHealthy
	code := http.StatusOK
	for _, report := range stores {
		if report.Status != model.HealthStatusHealthy {
			status = model.HealthStatusUnhealthy
			code = http.StatusServiceUnavailable
			break
		}
	}

	httputil.WriteJSON(w, code, healthResponse{
		Status:    status,
		Timestamp: time.Now().UnixMilli(),
		Stores:    stores,
	})
}

type statsResponse struct {
	Cache         *model.KeyCensus `json:"cache"`
	Conversations int              `json:"conversations"`
	Messages      int              `json:"messages"`
}

// Stats reports the cache key census and conversation-log row counts.
func (h *OpsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	census, err := h.census.KeyCensus(ctx)
	if err != nil {
		httputil.WriteError(w, apperrors.Cache(err))
		return
	}

	conversations, err := h.convRepo.Count(ctx)
	if err != nil {
		httputil.WriteError(w, apperrors.Database(err))
		return
	}

	messages, err := h.msgRepo.Count(ctx)
	if err != nil {
		httputil.WriteError(w, apperrors.Database(err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, statsResponse{
		Cache:         census,
		Conversations: conversations,
		Messages:      messages,
	})
}
