package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/opendesk/support-storage-go/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, params model.CreateMessageParams) (*model.Message, error)
	ListBySessionID(ctx context.Context, sessionID string) ([]model.Message, error)
	CountBySessionID(ctx context.Context, sessionID string) (int, error)
	Count(ctx context.Context) (int, error)
}

type messageRepo struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepo{db: db}
}

// Create appends one message row. Rows are never updated or deleted; the
// metadata mapping is serialized to JSON text and the timestamp is stamped
// at insert time.
func (r *messageRepo) Create(ctx context.Context, params model.CreateMessageParams) (*model.Message, error) {
	metadata, err := json.Marshal(orEmpty(params.Metadata))
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	var msg model.Message
	err = r.db.GetContext(ctx, &msg, `
		INSERT INTO messages
			(session_id, message_id, customer_email, message_type, content, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING *
	`, params.SessionID, params.MessageID, params.CustomerEmail,
		params.MessageType, params.Content, string(metadata), createdAt)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListBySessionID returns the session's messages in insertion order, which
// the surrogate id defines.
func (r *messageRepo) ListBySessionID(ctx context.Context, sessionID string) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.SelectContext(ctx, &msgs, `
		SELECT * FROM messages
		WHERE session_id = ?
		ORDER BY id ASC
	`, sessionID)
	return msgs, err
}

func (r *messageRepo) CountBySessionID(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM messages WHERE session_id = ?
	`, sessionID)
	return count, err
}

func (r *messageRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages`)
	return count, err
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
