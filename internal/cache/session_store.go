package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/opendesk/support-storage-go/internal/model"
)

// Key namespaces. The prefixes and default TTLs are part of the stored-data
// contract and must not change while existing keys are live.
const (
	sessionPrefix = "session:"
	contextPrefix = "context:"
	tempPrefix    = "temp:"
	counterPrefix = "counter:"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	DefaultContextTTL = 2 * time.Hour
	DefaultTempTTL    = 5 * time.Minute
)

const scanBatchSize = 100

// TTLs overrides the default expiry windows. Zero-value fields keep the
// defaults.
type TTLs struct {
	Session time.Duration
	Context time.Duration
	Temp    time.Duration
}

// SessionStore manages sessions, per-customer context, scratch values and
// counters against the cache engine. Every mutating session operation
// refreshes the session TTL in full.
type SessionStore struct {
	rdb        Commander
	sessionTTL time.Duration
	contextTTL time.Duration
	tempTTL    time.Duration
}

func NewSessionStore(rdb Commander, ttls TTLs) *SessionStore {
	if ttls.Session == 0 {
		ttls.Session = DefaultSessionTTL
	}
	if ttls.Context == 0 {
		ttls.Context = DefaultContextTTL
	}
	if ttls.Temp == 0 {
		ttls.Temp = DefaultTempTTL
	}
	return &SessionStore{
		rdb:        rdb,
		sessionTTL: ttls.Session,
		contextTTL: ttls.Context,
		tempTTL:    ttls.Temp,
	}
}

func sessionKey(sessionID string) string {
	return sessionPrefix + sessionID
}

func contextKey(customerEmail string) string {
	return contextPrefix + customerEmail
}

func tempKey(key string) string {
	return tempPrefix + key
}

func counterKey(key string) string {
	return counterPrefix + key
}

// CreateSession persists a fresh session with the session TTL. It does not
// check for an existing session under the same id; creating one overwrites it.
func (s *SessionStore) CreateSession(ctx context.Context, sessionID, customerEmail string, sessionContext map[string]any) (*model.SessionState, error) {
	now := time.Now().UTC()

	if sessionContext == nil {
		sessionContext = map[string]any{}
	}

	session := &model.SessionState{
		SessionID:     sessionID,
		CustomerEmail: customerEmail,
		CreatedAt:     now,
		LastActivity:  now,
		Context:       sessionContext,
		Status:        model.SessionStatusActive,
	}

	if err := s.writeSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns nil for a missing key. A payload that no longer
// unmarshals is treated as absent rather than as an error.
func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (*model.SessionState, error) {
	data, err := s.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session model.SessionState
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		log.Warn().Str("session_id", sessionID).Err(err).Msg("discarding corrupt session payload")
		return nil, nil
	}
	return &session, nil
}

// UpdateSession applies the non-nil fields of params, stamps last activity
// and rewrites the record with a full TTL reset. Returns false if no session
// exists under the id.
func (s *SessionStore) UpdateSession(ctx context.Context, sessionID string, params model.UpdateSessionParams) (bool, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}

	if params.Status != nil {
		session.Status = *params.Status
	}
	if params.Context != nil {
		session.Context = params.Context
	}
	if params.MessageCount != nil {
		session.MessageCount = *params.MessageCount
	}
	session.LastActivity = time.Now().UTC()

	if err := s.writeSession(ctx, session); err != nil {
		return false, err
	}
	return true, nil
}

// IncrementMessageCount bumps the session's message count and refreshes the
// TTL. A missing session yields 0; a real count is always at least 1.
func (s *SessionStore) IncrementMessageCount(ctx context.Context, sessionID string) (int, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if session == nil {
		return 0, nil
	}

	session.MessageCount++
	session.LastActivity = time.Now().UTC()

	if err := s.writeSession(ctx, session); err != nil {
		return 0, err
	}
	return session.MessageCount, nil
}

// DeleteSession reports whether a key was actually removed.
func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) (bool, error) {
	removed, err := s.rdb.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return removed > 0, nil
}

func (s *SessionStore) writeSession(ctx context.Context, session *model.SessionState) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.SetEx(ctx, sessionKey(session.SessionID), data, s.sessionTTL).Err(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// SetContext caches derived customer data under the customer's email.
// A zero ttl applies the default context TTL.
func (s *SessionStore) SetContext(ctx context.Context, customerEmail string, contextData map[string]any, ttl time.Duration) error {
	if ttl == 0 {
		ttl = s.contextTTL
	}
	data, err := json.Marshal(contextData)
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}
	if err := s.rdb.SetEx(ctx, contextKey(customerEmail), data, ttl).Err(); err != nil {
		return fmt.Errorf("set context: %w", err)
	}
	return nil
}

// GetContext returns nil for a missing key; a corrupt payload is treated as
// absent and left in place to expire on its own.
func (s *SessionStore) GetContext(ctx context.Context, customerEmail string) (map[string]any, error) {
	data, err := s.rdb.Get(ctx, contextKey(customerEmail)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get context: %w", err)
	}

	var contextData map[string]any
	if err := json.Unmarshal([]byte(data), &contextData); err != nil {
		log.Warn().Str("customer_email", customerEmail).Err(err).Msg("discarding corrupt context payload")
		return nil, nil
	}
	return contextData, nil
}

// UpdateContext shallow-merges updates into the existing context, creating it
// when absent. The merged record is rewritten with the default context TTL,
// which resets any longer custom TTL the record previously carried.
func (s *SessionStore) UpdateContext(ctx context.Context, customerEmail string, updates map[string]any) error {
	existing, err := s.GetContext(ctx, customerEmail)
	if err != nil {
		return err
	}
	if existing == nil {
		existing = map[string]any{}
	}
	for k, v := range updates {
		existing[k] = v
	}
	return s.SetContext(ctx, customerEmail, existing, 0)
}

func (s *SessionStore) DeleteContext(ctx context.Context, customerEmail string) (bool, error) {
	removed, err := s.rdb.Del(ctx, contextKey(customerEmail)).Result()
	if err != nil {
		return false, fmt.Errorf("delete context: %w", err)
	}
	return removed > 0, nil
}

// SetTempData stores a scratch value under a caller-chosen key. Structured
// values are serialized to JSON text; strings are stored as-is. A zero ttl
// applies the default temp TTL.
func (s *SessionStore) SetTempData(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl == 0 {
		ttl = s.tempTTL
	}

	var payload string
	switch v := value.(type) {
	case string:
		payload = v
	case []byte:
		payload = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal temp data: %w", err)
		}
		payload = string(data)
	}

	if err := s.rdb.SetEx(ctx, tempKey(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("set temp data: %w", err)
	}
	return nil
}

// GetTempData returns the raw stored text; deserialization is the caller's
// responsibility. ok is false when the key is absent.
func (s *SessionStore) GetTempData(ctx context.Context, key string) (value string, ok bool, err error) {
	value, err = s.rdb.Get(ctx, tempKey(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get temp data: %w", err)
	}
	return value, true, nil
}

func (s *SessionStore) DeleteTempData(ctx context.Context, key string) (bool, error) {
	removed, err := s.rdb.Del(ctx, tempKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("delete temp data: %w", err)
	}
	return removed > 0, nil
}

// IncrementCounter adds amount to the counter, creating it at zero first if
// absent. Counters never expire.
func (s *SessionStore) IncrementCounter(ctx context.Context, key string, amount int64) (int64, error) {
	value, err := s.rdb.IncrBy(ctx, counterKey(key), amount).Result()
	if err != nil {
		return 0, fmt.Errorf("increment counter: %w", err)
	}
	return value, nil
}

// GetCounter returns 0 for a never-touched counter.
func (s *SessionStore) GetCounter(ctx context.Context, key string) (int64, error) {
	value, err := s.rdb.Get(ctx, counterKey(key)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get counter: %w", err)
	}
	return value, nil
}

// ResetCounter sets the counter to zero without deleting the key.
func (s *SessionStore) ResetCounter(ctx context.Context, key string) error {
	if err := s.rdb.Set(ctx, counterKey(key), 0, 0).Err(); err != nil {
		return fmt.Errorf("reset counter: %w", err)
	}
	return nil
}

// SessionsByCustomer scans the whole session namespace and filters by
// customer email in-process. Results are unordered and corrupt entries are
// skipped. Cost is linear in total session count.
func (s *SessionStore) SessionsByCustomer(ctx context.Context, customerEmail string) ([]model.SessionState, error) {
	var sessions []model.SessionState

	err := s.scanKeys(ctx, sessionPrefix+"*", func(key string) error {
		data, err := s.rdb.Get(ctx, key).Result()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return err
		}

		var session model.SessionState
		if err := json.Unmarshal([]byte(data), &session); err != nil {
			return nil
		}
		if session.CustomerEmail == customerEmail {
			sessions = append(sessions, session)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return sessions, nil
}

// KeyCensus counts the live keys per namespace. It deletes nothing: expiry
// is entirely the engine's TTL job, so this is informational housekeeping.
func (s *SessionStore) KeyCensus(ctx context.Context) (*model.KeyCensus, error) {
	census := &model.KeyCensus{}

	counts := []struct {
		pattern string
		total   *int
	}{
		{sessionPrefix + "*", &census.SessionsActive},
		{contextPrefix + "*", &census.ContextsActive},
		{tempPrefix + "*", &census.TempActive},
	}

	for _, c := range counts {
		err := s.scanKeys(ctx, c.pattern, func(string) error {
			*c.total++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("census scan: %w", err)
		}
	}
	return census, nil
}

// FlushAll wipes the entire cache database. Test environments only.
func (s *SessionStore) FlushAll(ctx context.Context) error {
	if err := s.rdb.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}
	return nil
}

// HealthCheck round-trips a test key and queries server info. It never
// returns an error; failures are reported in the result.
func (s *SessionStore) HealthCheck(ctx context.Context) *model.HealthReport {
	return healthCheck(ctx, s.rdb, "healthcheck:test")
}

func (s *SessionStore) scanKeys(ctx context.Context, pattern string, fn func(key string) error) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := fn(key); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
