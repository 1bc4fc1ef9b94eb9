package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"zenwork.app/wellness-server/internal/auth"
	"zenwork.app/wellness-server/internal/core"
	"zenwork.app/wellness-server/internal/store"
)

type APIHandler struct {
	chatService    *core.ChatService
	journalService *core.JournalService
}

func NewAPIHandler(cs *core.ChatService, js *core.JournalService) *APIHandler {
	return &APIHandler{
		chatService:    cs,
		journalService: js,
	}
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		externalUserID, err := auth.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		user, err := h.chatService.GetUserByExternalID(externalUserID)
		if err != nil {
			log.Printf("Error in JWTAuthMiddleware for user %s: %v", externalUserID, err)
			http.Error(w, "Failed to process user identity", http.StatusInternalServerError)
			return
		}

		if user == nil {
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), "userID", user.ID)
		ctx = context.WithValue(ctx, "externalUserID", user.ExternalUserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type SignupRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.UserID == "" || req.Password == "" {
		http.Error(w, "User ID and password are required", http.StatusBadRequest)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password for user %s: %v", req.UserID, err)
		http.Error(w, "Failed to process password", http.StatusInternalServerError)
		return
	}

	user, err := h.chatService.CreateUser(req.UserID, hashedPassword)
	if err != nil {
		log.Printf("Error creating user %s: %v", req.UserID, err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.UserID == "" || req.Password == "" {
		http.Error(w, "User ID and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.chatService.GetUserByExternalID(req.UserID)
	if err != nil {
		log.Printf("Error getting user %s: %v", req.UserID, err)
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWT(req.UserID)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", req.UserID, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Message        string   `json:"message"`
	SentimentScore float64  `json:"sentiment_score"`
	SentimentLabel string   `json:"sentiment_label"`
	Tags           []string `json:"tags"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	turn, err := h.chatService.AppendTurn(userID, req.Message)
	if err != nil {
		var depErr *core.DependencyError
		switch {
		case errors.Is(err, core.ErrEmptyMessage):
			http.Error(w, "No message provided", http.StatusBadRequest)
		case errors.As(err, &depErr):
			log.Printf("Generative dependency failed for user %d: %v", userID, depErr.Err)
			http.Error(w, depErr.Fallback, http.StatusBadGateway)
		default:
			log.Printf("Error appending turn for user %d: %v", userID, err)
			http.Error(w, "Failed to process chatbot request", http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(ChatResponse{
		Message:        turn.BotResponse,
		SentimentScore: turn.SentimentScore,
		SentimentLabel: turn.SentimentLabel,
		Tags:           turn.Tags,
	})
}

type ChatHistoryResponse struct {
	Messages []store.ConversationTurn `json:"messages"`
}

func (h *APIHandler) ChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	turns, err := h.chatService.History(userID)
	if err != nil {
		log.Printf("Error fetching history for user %d: %v", userID, err)
		http.Error(w, "Failed to fetch conversation history", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(ChatHistoryResponse{Messages: turns})
}

type AnalyzeJournalRequest struct {
	Entry string `json:"entry"`
}

func (h *APIHandler) AnalyzeJournalHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req AnalyzeJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.journalService.CreateEntry(userID, req.Entry)
	if err != nil {
		if errors.Is(err, core.ErrEmptyEntry) {
			http.Error(w, "Journal entry cannot be empty", http.StatusBadRequest)
			return
		}
		log.Printf("Error creating journal entry for user %d: %v", userID, err)
		http.Error(w, "Failed to analyze journal entry", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

type JournalEntriesResponse struct {
	Entries  []store.JournalEntry `json:"entries"`
	Insights core.Insights        `json:"insights"`
}

func (h *APIHandler) ListJournalEntriesHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	entries, insights, err := h.journalService.Overview(userID)
	if err != nil {
		log.Printf("Error listing journal entries for user %d: %v", userID, err)
		http.Error(w, "Failed to fetch journal entries", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(JournalEntriesResponse{Entries: entries, Insights: insights})
}

type TrackActionRequest struct {
	Action string `json:"action"`
}

func (h *APIHandler) TrackActionHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req TrackActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.journalService.CompleteAction(userID, req.Action); err != nil {
		if errors.Is(err, core.ErrEmptyAction) {
			http.Error(w, "Action is required", http.StatusBadRequest)
			return
		}
		log.Printf("Error tracking action for user %d: %v", userID, err)
		http.Error(w, "Failed to track action", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
