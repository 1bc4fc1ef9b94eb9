package core

import (
	"fmt"
	"strings"

	"zenwork.app/wellness-server/internal/store"
)

// ChatService owns the conversation log: one append-only conversation per
// user, each turn carrying the signal extracted from the user's message.
type ChatService struct {
	dbStore   *store.SQLiteStore
	generator ResponseGenerator
	locks     userLocks
}

func NewChatService(db *store.SQLiteStore, generator ResponseGenerator) *ChatService {
	return &ChatService{
		dbStore:   db,
		generator: generator,
	}
}

// User identity passthroughs used by the auth layer.
func (s *ChatService) GetUserByExternalID(externalUserID string) (*store.User, error) {
	return s.dbStore.GetUserByExternalID(externalUserID)
}

func (s *ChatService) CreateUser(externalUserID, passwordHash string) (*store.User, error) {
	return s.dbStore.CreateUser(externalUserID, passwordHash)
}

// AppendTurn obtains a bot response for the message, extracts the message's
// signal, and appends the exchange to the user's conversation, creating the
// conversation on first use. If the generative collaborator fails, nothing
// is persisted and a DependencyError is returned. Writes for the same user
// are serialized so concurrent turns cannot corrupt the order; different
// users never contend.
func (s *ChatService) AppendTurn(userID int64, userMessage string) (*store.ConversationTurn, error) {
	if strings.TrimSpace(userMessage) == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.dbStore.GetOrCreateConversation(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	history, err := s.dbStore.GetLastNTurnsByConversationID(conv.ID, promptHistoryTurns)
	if err != nil {
		return nil, fmt.Errorf("failed to load turn history: %w", err)
	}

	// The slow, fallible call happens before the user lock is taken.
	botResponse, err := s.generator.GenerateWellnessReply(userMessage, history)
	if err != nil {
		return nil, &DependencyError{Fallback: fallbackBotResponse, Err: err}
	}

	signal := Extract(userMessage)

	unlock := s.locks.lock(userID)
	defer unlock()

	turn := &store.ConversationTurn{
		ConversationID: conv.ID,
		UserMessage:    userMessage,
		BotResponse:    botResponse,
		SentimentScore: signal.SentimentScore,
		SentimentLabel: signal.SentimentLabel,
		Tags:           signal.Tags,
	}
	if err := s.dbStore.AppendTurn(turn); err != nil {
		return nil, fmt.Errorf("failed to append turn: %w", err)
	}
	return turn, nil
}

// History returns the user's turns in creation order. A user with no
// conversation yet gets an empty slice, not an error.
func (s *ChatService) History(userID int64) ([]store.ConversationTurn, error) {
	conv, err := s.dbStore.GetConversationByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if conv == nil {
		return []store.ConversationTurn{}, nil
	}
	turns, err := s.dbStore.GetTurnsByConversationID(conv.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}
	if turns == nil {
		turns = []store.ConversationTurn{}
	}
	return turns, nil
}
