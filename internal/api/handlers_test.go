package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"zenwork.app/wellness-server/internal/core"
	"zenwork.app/wellness-server/internal/store"
)

type fixedGenerator struct {
	reply string
	err   error
}

func (g fixedGenerator) GenerateWellnessReply(userMessage string, history []store.ConversationTurn) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func newTestHandler(t *testing.T, gen core.ResponseGenerator) (*APIHandler, int64) {
	t.Helper()
	dbStore, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "wellness.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = dbStore.Close() })

	user, err := dbStore.CreateUser("alice", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	chatService := core.NewChatService(dbStore, gen)
	journalService := core.NewJournalService(dbStore, time.UTC)
	return NewAPIHandler(chatService, journalService), user.ID
}

func authedRequest(t *testing.T, userID int64, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), "userID", userID)
	return req.WithContext(ctx)
}

func TestAnalyzeJournalHandler_EmptyEntry(t *testing.T) {
	handler, userID := newTestHandler(t, fixedGenerator{reply: "ok"})

	rec := httptest.NewRecorder()
	handler.AnalyzeJournalHandler(rec, authedRequest(t, userID, http.MethodPost, "/api/journal/analyze", `{"entry":"   "}`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeJournalHandler_ReturnsEntry(t *testing.T) {
	handler, userID := newTestHandler(t, fixedGenerator{reply: "ok"})

	rec := httptest.NewRecorder()
	handler.AnalyzeJournalHandler(rec, authedRequest(t, userID, http.MethodPost, "/api/journal/analyze",
		`{"entry":"Great collaborative meeting today, I felt motivated."}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
	var entry store.JournalEntry
	if err := json.NewDecoder(rec.Body).Decode(&entry); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if entry.SentimentLabel != core.LabelPositive {
		t.Errorf("label = %q, want Positive", entry.SentimentLabel)
	}
	if len(entry.ActionableSteps) == 0 {
		t.Error("expected actionable steps in the response")
	}
}

func TestChatHandler_DependencyFailureIsBadGateway(t *testing.T) {
	handler, userID := newTestHandler(t, fixedGenerator{err: errors.New("provider down")})

	rec := httptest.NewRecorder()
	handler.ChatHandler(rec, authedRequest(t, userID, http.MethodPost, "/api/chatbot/chat", `{"message":"help"}`))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "trouble responding") {
		t.Errorf("body %q does not carry the fallback message", rec.Body.String())
	}
}

func TestChatHandler_RoundTrip(t *testing.T) {
	handler, userID := newTestHandler(t, fixedGenerator{reply: "We can work on that together."})

	rec := httptest.NewRecorder()
	handler.ChatHandler(rec, authedRequest(t, userID, http.MethodPost, "/api/chatbot/chat", `{"message":"I feel stressed"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", rec.Code, rec.Body.String())
	}
	var resp ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "We can work on that together." {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.SentimentLabel != core.LabelNegative {
		t.Errorf("label = %q, want Negative", resp.SentimentLabel)
	}

	histRec := httptest.NewRecorder()
	handler.ChatHistoryHandler(histRec, authedRequest(t, userID, http.MethodGet, "/api/chatbot/history", ""))
	var hist ChatHistoryResponse
	if err := json.NewDecoder(histRec.Body).Decode(&hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(hist.Messages) != 1 || hist.Messages[0].UserMessage != "I feel stressed" {
		t.Errorf("history = %+v", hist.Messages)
	}
}

func TestTrackActionHandler(t *testing.T) {
	handler, userID := newTestHandler(t, fixedGenerator{reply: "ok"})

	rec := httptest.NewRecorder()
	handler.TrackActionHandler(rec, authedRequest(t, userID, http.MethodPost, "/api/journal/track-action",
		`{"action":"Practice two minutes of slow breathing before your next meeting"}`))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.TrackActionHandler(rec, authedRequest(t, userID, http.MethodPost, "/api/journal/track-action", `{"action":""}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank action status = %d, want 400", rec.Code)
	}
}
