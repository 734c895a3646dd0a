package model

// Message is one append-only row in the conversation log. Rows are never
// updated or deleted; insertion order is defined by the surrogate ID.
type Message struct {
	ID            int64  `db:"id" json:"id"`
	SessionID     string `db:"session_id" json:"sessionId"`
	MessageID     string `db:"message_id" json:"messageId"`
	CustomerEmail string `db:"customer_email" json:"customerEmail"`
	MessageType   string `db:"message_type" json:"messageType"`
	Content       string `db:"content" json:"content"`
	Metadata      string `db:"metadata" json:"metadata"`
	CreatedAt     string `db:"created_at" json:"createdAt"`
}

type CreateMessageParams struct {
	SessionID     string
	MessageID     string
	CustomerEmail string
	MessageType   string
	Content       string
	Metadata      map[string]any
}
