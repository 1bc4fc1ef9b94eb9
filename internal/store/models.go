package store

import "time"

type User struct {
	ID             int64     `json:"id"`
	ExternalUserID string    `json:"external_user_id"`
	PasswordHash   string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation is the single chat thread a user owns. Turns are appended to
// it and never mutated or deleted.
type Conversation struct {
	ID        string    `json:"id"` // Using UUID for external ID
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationTurn is one user/bot exchange together with the signal
// extracted from the user's message.
type ConversationTurn struct {
	ID             string    `json:"id"` // Using UUID for external ID
	ConversationID string    `json:"conversation_id"`
	UserMessage    string    `json:"user_message"`
	BotResponse    string    `json:"bot_response"`
	SentimentScore float64   `json:"sentiment_score"`
	SentimentLabel string    `json:"sentiment_label"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"created_at"`
}

// JournalEntry is one reflection. Everything except the user's completion
// ledger is immutable once written. Mood is the 0-10 display scale derived
// from the raw sentiment score.
type JournalEntry struct {
	ID              string    `json:"id"` // Using UUID for external ID
	UserID          int64     `json:"user_id"`
	Entry           string    `json:"entry"`
	SentimentScore  float64   `json:"sentiment_score"`
	SentimentLabel  string    `json:"sentiment_label"`
	Mood            int       `json:"mood"`
	Tags            []string  `json:"tags"`
	ActionableSteps []string  `json:"actionable_steps"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserAction is one row of the user-level action ledger: an actionable step
// that has been surfaced to the user, and whether they marked it done.
// Completion is monotone; completed rows are never un-completed.
type UserAction struct {
	UserID      int64      `json:"user_id"`
	Action      string     `json:"action"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"` // Nullable
}
