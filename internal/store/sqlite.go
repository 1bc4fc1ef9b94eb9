package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        external_user_id TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS conversations (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER UNIQUE NOT NULL, -- one conversation per user
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS conversation_turns (
        id TEXT PRIMARY KEY, -- UUID
        conversation_id TEXT NOT NULL,
        user_message TEXT NOT NULL,
        bot_response TEXT NOT NULL,
        sentiment_score REAL NOT NULL CHECK (sentiment_score BETWEEN -1 AND 1),
        sentiment_label TEXT NOT NULL CHECK (sentiment_label IN ('Positive', 'Neutral', 'Negative')),
        tags_json TEXT NOT NULL DEFAULT '[]',
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (conversation_id) REFERENCES conversations (id)
    );

    CREATE TABLE IF NOT EXISTS journal_entries (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        entry TEXT NOT NULL,
        sentiment_score REAL NOT NULL CHECK (sentiment_score BETWEEN -1 AND 1),
        sentiment_label TEXT NOT NULL CHECK (sentiment_label IN ('Positive', 'Neutral', 'Negative')),
        mood INTEGER NOT NULL CHECK (mood BETWEEN 0 AND 10),
        tags_json TEXT NOT NULL DEFAULT '[]',
        actionable_steps_json TEXT NOT NULL DEFAULT '[]',
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS user_actions (
        user_id INTEGER NOT NULL,
        action TEXT NOT NULL,
        completed BOOLEAN NOT NULL DEFAULT FALSE,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        completed_at DATETIME,
        PRIMARY KEY (user_id, action),
        FOREIGN KEY (user_id) REFERENCES users (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods
func (s *SQLiteStore) GetUserByExternalID(externalUserID string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, external_user_id, password_hash, created_at FROM users WHERE external_user_id = ?", externalUserID).Scan(&user.ID, &user.ExternalUserID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) CreateUser(externalUserID, passwordHash string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (external_user_id, password_hash) VALUES (?, ?)", externalUserID, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.getUserByID(id)
}

func (s *SQLiteStore) getUserByID(id int64) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, external_user_id, password_hash, created_at FROM users WHERE id = ?", id).Scan(&user.ID, &user.ExternalUserID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Conversation methods

// GetOrCreateConversation returns the user's single conversation, creating it
// on first use. The UNIQUE constraint on user_id makes the create side safe
// under concurrent first turns.
func (s *SQLiteStore) GetOrCreateConversation(userID int64) (*Conversation, error) {
	conv, err := s.GetConversationByUserID(userID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	now := time.Now()
	_, err = s.db.Exec("INSERT OR IGNORE INTO conversations (id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)",
		uuid.NewString(), userID, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert conversation: %w", err)
	}

	conv, err = s.GetConversationByUserID(userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation missing after insert for user %d", userID)
	}
	return conv, nil
}

func (s *SQLiteStore) GetConversationByUserID(userID int64) (*Conversation, error) {
	var conv Conversation
	err := s.db.QueryRow("SELECT id, user_id, created_at, updated_at FROM conversations WHERE user_id = ?", userID).Scan(&conv.ID, &conv.UserID, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

// Turn methods

// AppendTurn durably appends a turn and touches the owning conversation in
// one transaction, so a turn is either fully recorded or not at all.
func (s *SQLiteStore) AppendTurn(turn *ConversationTurn) error {
	turn.ID = uuid.NewString() // Ensure ID is set
	turn.CreatedAt = time.Now()

	tagsJSON, err := json.Marshal(turn.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal turn tags: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin turn transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("INSERT INTO conversation_turns (id, conversation_id, user_message, bot_response, sentiment_score, sentiment_label, tags_json, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		turn.ID, turn.ConversationID, turn.UserMessage, turn.BotResponse, turn.SentimentScore, turn.SentimentLabel, string(tagsJSON), turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}

	_, err = tx.Exec("UPDATE conversations SET updated_at = ? WHERE id = ?", turn.CreatedAt, turn.ConversationID)
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit turn: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTurnsByConversationID(conversationID string) ([]ConversationTurn, error) {
	// rowid breaks ties between turns written within the same timestamp tick
	query := "SELECT id, conversation_id, user_message, bot_response, sentiment_score, sentiment_label, tags_json, created_at FROM conversation_turns WHERE conversation_id = ? ORDER BY created_at ASC, rowid ASC"
	rows, err := s.db.Query(query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	return scanTurns(rows)
}

// GetLastNTurnsByConversationID returns the most recent n turns in
// chronological order, for prompt history.
func (s *SQLiteStore) GetLastNTurnsByConversationID(conversationID string, n int) ([]ConversationTurn, error) {
	query := `
        SELECT id, conversation_id, user_message, bot_response, sentiment_score, sentiment_label, tags_json, created_at
        FROM conversation_turns
        WHERE conversation_id = ?
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?
    `
	rows, err := s.db.Query(query, conversationID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	turns, err := scanTurns(rows)
	if err != nil {
		return nil, err
	}

	// Rows came back newest first; flip to chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func scanTurns(rows *sql.Rows) ([]ConversationTurn, error) {
	var turns []ConversationTurn
	for rows.Next() {
		var turn ConversationTurn
		var tagsJSON string
		if err := rows.Scan(&turn.ID, &turn.ConversationID, &turn.UserMessage, &turn.BotResponse, &turn.SentimentScore, &turn.SentimentLabel, &tagsJSON, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn row: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &turn.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal turn tags: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// Journal methods

// CreateJournalEntry persists the entry and records every surfaced actionable
// step in the user-level ledger, in one transaction.
func (s *SQLiteStore) CreateJournalEntry(entry *JournalEntry) error {
	entry.ID = uuid.NewString() // Ensure ID is set
	entry.CreatedAt = time.Now()

	tagsJSON, err := json.Marshal(entry.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal entry tags: %w", err)
	}
	stepsJSON, err := json.Marshal(entry.ActionableSteps)
	if err != nil {
		return fmt.Errorf("failed to marshal actionable steps: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin entry transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("INSERT INTO journal_entries (id, user_id, entry, sentiment_score, sentiment_label, mood, tags_json, actionable_steps_json, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID, entry.UserID, entry.Entry, entry.SentimentScore, entry.SentimentLabel, entry.Mood, string(tagsJSON), string(stepsJSON), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}

	for _, step := range entry.ActionableSteps {
		_, err = tx.Exec("INSERT OR IGNORE INTO user_actions (user_id, action, completed, created_at) VALUES (?, ?, FALSE, ?)",
			entry.UserID, step, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to record surfaced action: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit journal entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetJournalEntriesByUserID(userID int64) ([]JournalEntry, error) {
	query := "SELECT id, user_id, entry, sentiment_score, sentiment_label, mood, tags_json, actionable_steps_json, created_at FROM journal_entries WHERE user_id = ? ORDER BY created_at DESC, rowid DESC"
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var entry JournalEntry
		var tagsJSON, stepsJSON string
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Entry, &entry.SentimentScore, &entry.SentimentLabel, &entry.Mood, &tagsJSON, &stepsJSON, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &entry.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry tags: %w", err)
		}
		if err := json.Unmarshal([]byte(stepsJSON), &entry.ActionableSteps); err != nil {
			return nil, fmt.Errorf("failed to unmarshal actionable steps: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Action ledger methods

// CompleteUserAction marks an action done for the user. Idempotent: repeating
// the call leaves the row unchanged, and a completed action is never reverted.
// Actions never surfaced before are inserted as completed (lenient policy).
func (s *SQLiteStore) CompleteUserAction(userID int64, action string) error {
	now := time.Now()
	_, err := s.db.Exec(`
        INSERT INTO user_actions (user_id, action, completed, created_at, completed_at)
        VALUES (?, ?, TRUE, ?, ?)
        ON CONFLICT (user_id, action) DO UPDATE SET
            completed = TRUE,
            completed_at = COALESCE(user_actions.completed_at, excluded.completed_at)
    `, userID, action, now, now)
	if err != nil {
		return fmt.Errorf("failed to complete action: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUserActions(userID int64) ([]UserAction, error) {
	rows, err := s.db.Query("SELECT user_id, action, completed, created_at, completed_at FROM user_actions WHERE user_id = ? ORDER BY created_at ASC, action ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user actions: %w", err)
	}
	defer rows.Close()

	var actions []UserAction
	for rows.Next() {
		var action UserAction
		var completedAt sql.NullTime
		if err := rows.Scan(&action.UserID, &action.Action, &action.Completed, &action.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user action row: %w", err)
		}
		if completedAt.Valid {
			action.CompletedAt = &completedAt.Time
		}
		actions = append(actions, action)
	}
	return actions, rows.Err()
}
