package models

import (
	"time"
)

// ChatTurn is one prior exchange in a pasted client conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnalysisRequest is a sanitized conversation-analysis request.
type AnalysisRequest struct {
	Message             string     `json:"message"`
	Image               string     `json:"image,omitempty"`
	Language            string     `json:"language,omitempty"`
	Persona             string     `json:"persona,omitempty"`
	CustomInstructions  string     `json:"customInstructions,omitempty"`
	LatestInfo          string     `json:"latestInfo,omitempty"`
	ConversationHistory []ChatTurn `json:"conversationHistory,omitempty"`
}

// LiveScreenRequest is a sanitized live-screen-analysis request.
type LiveScreenRequest struct {
	Screenshot         string `json:"screenshot"`
	CustomInstructions string `json:"customInstructions,omitempty"`
	LatestInfo         string `json:"latestInfo,omitempty"`
	ManualInstruction  string `json:"manualInstruction,omitempty"`
}

// SuggestedReplies holds the three tone variants of a suggested reply.
type SuggestedReplies struct {
	Professional string `json:"professional"`
	Friendly     string `json:"friendly"`
	Confident    string `json:"confident"`
}

// AnalysisResult is the structured outcome of conversation analysis.
// Fields are best-effort: the model is asked for this exact shape but
// responses with missing fields are passed through, not rejected.
type AnalysisResult struct {
	Sentiment            string           `json:"sentiment"`
	KeyPoints            []string         `json:"keyPoints"`
	SuggestedReplies     SuggestedReplies `json:"suggestedReplies"`
	FollowUpSuggestions  []string         `json:"followUpSuggestions,omitempty"`
	ConversationInsights string           `json:"conversationInsights,omitempty"`
}

// ReplySuggestion is one live-screen reply candidate with its rationale.
type ReplySuggestion struct {
	Content  string `json:"content"`
	Strategy string `json:"strategy"`
}

// FlowEntry attributes one screenshot message to a side of the conversation.
type FlowEntry struct {
	Side    string `json:"side"`
	Content string `json:"content"`
}

// LiveAnalysisResult is the structured outcome of live-screen analysis.
type LiveAnalysisResult struct {
	NeedsResponse     bool              `json:"needsResponse"`
	ClientStatus      string            `json:"clientStatus"`
	Emotion           string            `json:"emotion"`
	Stage             string            `json:"stage"`
	LastClientMessage string            `json:"lastClientMessage,omitempty"`
	ConversationFlow  []FlowEntry       `json:"conversationFlow,omitempty"`
	Objections        []string          `json:"objections"`
	BuyingSignals     []string          `json:"buyingSignals,omitempty"`
	Suggestions       []ReplySuggestion `json:"suggestions"`
	Insights          string            `json:"insights"`
}

// CacheEntry is a cached response body for a recently analyzed request.
type CacheEntry struct {
	Body      []byte
	CreatedAt time.Time
}
