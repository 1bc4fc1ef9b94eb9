package core

import (
	"fmt"
	"strings"
	"time"

	"zenwork.app/wellness-server/internal/store"
)

// JournalService owns a user's reflections and the user-level ledger of
// surfaced and completed actionable steps.
type JournalService struct {
	dbStore *store.SQLiteStore
	loc     *time.Location
}

// NewJournalService builds the service. loc is the reference timezone for
// calendar-day insight calculations (streaks).
func NewJournalService(db *store.SQLiteStore, loc *time.Location) *JournalService {
	return &JournalService{
		dbStore: db,
		loc:     loc,
	}
}

// CreateEntry analyzes the text and persists a new entry together with its
// surfaced actionable steps. Whitespace-only text is rejected before any
// extraction runs.
func (s *JournalService) CreateEntry(userID int64, text string) (*store.JournalEntry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyEntry
	}

	signal := Extract(text)
	signal.ActionableSteps = Recommend(signal.Tags)

	entry := &store.JournalEntry{
		UserID:          userID,
		Entry:           text,
		SentimentScore:  signal.SentimentScore,
		SentimentLabel:  signal.SentimentLabel,
		Mood:            MoodScore(signal.SentimentScore),
		Tags:            signal.Tags,
		ActionableSteps: signal.ActionableSteps,
	}
	if err := s.dbStore.CreateJournalEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to persist journal entry: %w", err)
	}
	return entry, nil
}

// Entries returns the user's reflections, most recent first.
func (s *JournalService) Entries(userID int64) ([]store.JournalEntry, error) {
	entries, err := s.dbStore.GetJournalEntriesByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entries: %w", err)
	}
	if entries == nil {
		entries = []store.JournalEntry{}
	}
	return entries, nil
}

// CompleteAction marks an action done for the user. Idempotent and monotone;
// unknown action strings are recorded anyway, since recommendation wording
// can change between versions.
func (s *JournalService) CompleteAction(userID int64, action string) error {
	if strings.TrimSpace(action) == "" {
		return ErrEmptyAction
	}
	if err := s.dbStore.CompleteUserAction(userID, action); err != nil {
		return fmt.Errorf("failed to record completed action: %w", err)
	}
	return nil
}

// Overview returns the user's entries alongside freshly computed insights.
func (s *JournalService) Overview(userID int64) ([]store.JournalEntry, Insights, error) {
	entries, err := s.Entries(userID)
	if err != nil {
		return nil, Insights{}, err
	}
	actions, err := s.dbStore.GetUserActions(userID)
	if err != nil {
		return nil, Insights{}, fmt.Errorf("failed to load action ledger: %w", err)
	}
	return entries, ComputeInsights(entries, actions, s.loc), nil
}
