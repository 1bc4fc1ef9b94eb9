package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"zenwork.app/wellness-server/internal/config"
	"zenwork.app/wellness-server/internal/store"
)

const (
	defaultChatModelName = "gemini-2.0-flash"

	// Number of past turns sent along as conversation history.
	promptHistoryTurns = 6

	wellnessSystemInstruction = "You are a workplace wellness coach specializing in Neuro-Linguistic Programming (NLP). " +
		"Respond to workplace concerns using these NLP techniques:\n" +
		"1. RAPPORT BUILDING: match the user's language style, use \"we\" statements for collaboration, mirror their concerns with validation.\n" +
		"2. LANGUAGE PATTERNS: apply Milton Model language (artfully vague), use positive presuppositions, employ embedded commands.\n" +
		"3. NLP INTERVENTIONS: reframing perspectives, anchoring positive states, submodality shifts, timeline therapy concepts.\n" +
		"4. PRACTICAL OUTPUT: provide 1 NLP exercise they can do now, suggest 1 language pattern to use in their situation, offer 1 workplace reframe.\n" +
		"Structure your response with: a) emotional validation (rapport), b) NLP analysis of their language patterns, " +
		"c) 3 specific NLP techniques to apply, d) actionable workplace adaptation."

	fallbackBotResponse = "I'm having trouble responding. Please try again later."
)

// ResponseGenerator is the generative-response collaborator: latency is
// unbounded, it may fail, and nothing beyond "text" is assumed about the
// reply.
type ResponseGenerator interface {
	GenerateWellnessReply(userMessage string, history []store.ConversationTurn) (string, error)
}

type LLMService struct {
	client *genai.Client
}

func NewLLMService() *LLMService {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &LLMService{
		client: client,
	}
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

// GenerateWellnessReply asks the coach model to respond to the user's
// message, with up to promptHistoryTurns of prior exchanges as context.
func (s *LLMService) GenerateWellnessReply(userMessage string, history []store.ConversationTurn) (string, error) {
	ctx := context.Background()
	model := s.client.GenerativeModel(defaultChatModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(wellnessSystemInstruction)},
	}

	temp := float32(0.6)
	topP := float32(0.9)
	topK := int32(40)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: &temp,
		TopP:        &topP,
		TopK:        &topK,
	}

	if len(history) > promptHistoryTurns {
		history = history[len(history)-promptHistoryTurns:]
	}

	var geminiHistory []*genai.Content
	for _, turn := range history {
		geminiHistory = append(geminiHistory,
			&genai.Content{Role: "user", Parts: []genai.Part{genai.Text(turn.UserMessage)}},
			&genai.Content{Role: "model", Parts: []genai.Part{genai.Text(turn.BotResponse)}},
		)
	}

	chatSession := model.StartChat()
	chatSession.History = geminiHistory

	prompt := fmt.Sprintf("Current workplace concern: %q", userMessage)
	resp, err := chatSession.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("Gemini response was empty or had no valid candidates/parts.")
		return fallbackBotResponse, nil
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if responseText.Len() == 0 {
		log.Println("Gemini response part was not text or was empty after processing.")
		return fallbackBotResponse, nil
	}

	return strings.TrimSpace(responseText.String()), nil
}
