package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is one turn of a conversation: the user's question or the
// assistant's rendered answer.
type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Role           string    `json:"role"` // "user" or "assistant"
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Repo handles storage of conversation messages.
type Repo struct{}

// NewRepo creates a new repository instance.
func NewRepo() *Repo {
	return &Repo{}
}

// Schema assumption (managed elsewhere, migrations or manual setup):
//
// CREATE TABLE IF NOT EXISTS conversation_messages (
//   id UUID PRIMARY KEY,
//   conversation_id UUID NOT NULL,
//   role TEXT NOT NULL,
//   content TEXT NOT NULL,
//   created_at TIMESTAMPTZ NOT NULL
// );
// CREATE INDEX IF NOT EXISTS idx_messages_conversation
//   ON conversation_messages (conversation_id, created_at);

// Append stores one message and returns it with its generated id.
func (r *Repo) Append(ctx context.Context, conversationID uuid.UUID, role, content string) (*Message, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	msg := &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}

	query := `
		INSERT INTO conversation_messages (id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := pool.Exec(ctx, query, msg.ID, msg.ConversationID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	return msg, nil
}

// History retrieves the messages of a conversation in chronological order.
func (r *Repo) History(ctx context.Context, conversationID uuid.UUID) ([]Message, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM conversation_messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
