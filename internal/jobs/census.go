package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/opendesk/support-storage-go/internal/model"
)

// CensusSource provides the read-only key census. *cache.SessionStore
// satisfies it.
type CensusSource interface {
	KeyCensus(ctx context.Context) (*model.KeyCensus, error)
}

// CensusJob periodically logs the number of live keys per cache namespace.
// It deletes nothing; expiry is handled entirely by the engine's TTLs.
type CensusJob struct {
	source   CensusSource
	interval time.Duration
	done     chan struct{}
}

func NewCensusJob(source CensusSource, interval time.Duration) *CensusJob {
	return &CensusJob{
		source:   source,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (j *CensusJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("census job started")
}

func (j *CensusJob) Stop() {
	close(j.done)
	log.Info().Msg("census job stopped")
}

func (j *CensusJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.census()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.census()
		}
	}
}

func (j *CensusJob) census() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	census, err := j.source.KeyCensus(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to take key census")
		return
	}

	log.Info().
		Int("sessions_active", census.SessionsActive).
		Int("contexts_active", census.ContextsActive).
		Int("temp_active", census.TempActive).
		Msg("cache key census")
}
