package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/opendesk/support-storage-go/internal/model"
)

type ConversationRepository interface {
	FindBySessionID(ctx context.Context, sessionID string) (*model.Conversation, error)
	Upsert(ctx context.Context, params model.UpsertConversationParams) (*model.Conversation, error)
	CountByStatus(ctx context.Context, status model.ConversationStatus) (int, error)
	Count(ctx context.Context) (int, error)
}

type conversationRepo struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) FindBySessionID(ctx context.Context, sessionID string) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.GetContext(ctx, &conv, `
		SELECT * FROM conversations WHERE session_id = ?
	`, sessionID)
	return HandleNotFound(&conv, err)
}

// Upsert inserts the summary row or, on conflict, overwrites the mutable
// fields and updated_at. created_at is set on first insert and never touched
// again. A single atomic statement either way.
func (r *conversationRepo) Upsert(ctx context.Context, params model.UpsertConversationParams) (*model.Conversation, error) {
	status := params.Status
	if status == "" {
		status = model.ConversationStatusActive
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var conv model.Conversation
	err := r.db.GetContext(ctx, &conv, `
		INSERT INTO conversations
			(session_id, status, issue_type, sentiment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			status = excluded.status,
			issue_type = excluded.issue_type,
			sentiment = excluded.sentiment,
			updated_at = excluded.updated_at
		RETURNING *
	`, params.SessionID, status, params.IssueType, params.Sentiment, now, now)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepo) CountByStatus(ctx context.Context, status model.ConversationStatus) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM conversations WHERE status = ?
	`, status)
	return count, err
}

func (r *conversationRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM conversations`)
	return count, err
}
