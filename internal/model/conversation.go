package model

// Conversation is the mutable per-session summary row. Timestamps are stored
// as RFC 3339 text, matching the all-text column types of the log schema.
type Conversation struct {
	SessionID string             `db:"session_id" json:"sessionId"`
	Status    ConversationStatus `db:"status" json:"status"`
	IssueType *string            `db:"issue_type" json:"issueType,omitempty"`
	Sentiment *string            `db:"sentiment" json:"sentiment,omitempty"`
	CreatedAt string             `db:"created_at" json:"createdAt"`
	UpdatedAt string             `db:"updated_at" json:"updatedAt"`
}

type UpsertConversationParams struct {
	SessionID string
	Status    ConversationStatus
	IssueType *string
	Sentiment *string
}
