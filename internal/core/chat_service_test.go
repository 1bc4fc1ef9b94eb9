package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"zenwork.app/wellness-server/internal/store"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) GenerateWellnessReply(userMessage string, history []store.ConversationTurn) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "wellness.db")
	dbStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = dbStore.Close() })
	return dbStore
}

func newTestUser(t *testing.T, dbStore *store.SQLiteStore, externalID string) int64 {
	t.Helper()
	user, err := dbStore.CreateUser(externalID, "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user.ID
}

func TestChatService_AppendTurn_EmptyMessage(t *testing.T) {
	dbStore := newTestStore(t)
	gen := &stubGenerator{reply: "hello"}
	svc := NewChatService(dbStore, gen)
	userID := newTestUser(t, dbStore, "alice")

	_, err := svc.AppendTurn(userID, "   ")
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator was called %d times for invalid input", gen.calls)
	}
}

func TestChatService_AppendTurn_RecordsSignal(t *testing.T) {
	dbStore := newTestStore(t)
	svc := NewChatService(dbStore, &stubGenerator{reply: "Let's work through that together."})
	userID := newTestUser(t, dbStore, "alice")

	turn, err := svc.AppendTurn(userID, "I am stressed about my schedule")
	if err != nil {
		t.Fatalf("append turn: %v", err)
	}
	if turn.BotResponse != "Let's work through that together." {
		t.Errorf("bot response = %q", turn.BotResponse)
	}
	if turn.SentimentLabel != LabelNegative {
		t.Errorf("label = %q, want Negative", turn.SentimentLabel)
	}
	if !containsTag(turn.Tags, "stress") || !containsTag(turn.Tags, "time-management") {
		t.Errorf("tags = %v, want stress and time-management", turn.Tags)
	}
}

func TestChatService_SequentialTurnsKeepOrder(t *testing.T) {
	dbStore := newTestStore(t)
	svc := NewChatService(dbStore, &stubGenerator{reply: "ok"})
	userID := newTestUser(t, dbStore, "alice")

	const n = 5
	for i := 0; i < n; i++ {
		if _, err := svc.AppendTurn(userID, fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("append turn %d: %v", i, err)
		}
	}

	turns, err := svc.History(userID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(turns) != n {
		t.Fatalf("got %d turns, want %d", len(turns), n)
	}
	for i, turn := range turns {
		if want := fmt.Sprintf("message %d", i); turn.UserMessage != want {
			t.Errorf("turn %d message = %q, want %q", i, turn.UserMessage, want)
		}
		if i > 0 && turn.CreatedAt.Before(turns[i-1].CreatedAt) {
			t.Errorf("turn %d created before its predecessor", i)
		}
	}
}

func TestChatService_GeneratorFailureLeavesNoTurn(t *testing.T) {
	dbStore := newTestStore(t)
	boom := errors.New("provider timeout")
	svc := NewChatService(dbStore, &stubGenerator{err: boom})
	userID := newTestUser(t, dbStore, "alice")

	_, err := svc.AppendTurn(userID, "help me out")
	var depErr *DependencyError
	if !errors.As(err, &depErr) {
		t.Fatalf("err = %v, want DependencyError", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("DependencyError does not wrap the cause: %v", err)
	}
	if depErr.Fallback == "" {
		t.Error("DependencyError carries no fallback message")
	}

	turns, err := svc.History(userID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("failed turn was persisted: %v", turns)
	}
}

func TestChatService_HistoryWithoutConversation(t *testing.T) {
	dbStore := newTestStore(t)
	svc := NewChatService(dbStore, &stubGenerator{reply: "ok"})
	userID := newTestUser(t, dbStore, "fresh")

	turns, err := svc.History(userID)
	if err != nil {
		t.Fatalf("history must not fail for a user with no conversation: %v", err)
	}
	if turns == nil || len(turns) != 0 {
		t.Errorf("got %v, want empty non-nil slice", turns)
	}
}

func TestChatService_SingleConversationPerUser(t *testing.T) {
	dbStore := newTestStore(t)
	svc := NewChatService(dbStore, &stubGenerator{reply: "ok"})
	userID := newTestUser(t, dbStore, "alice")

	first, err := svc.AppendTurn(userID, "one")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	second, err := svc.AppendTurn(userID, "two")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.ConversationID != second.ConversationID {
		t.Errorf("turns landed in different conversations: %q vs %q", first.ConversationID, second.ConversationID)
	}
}
