package sanitize

import (
	"encoding/json"
	"strings"

	"github.com/sales-assist-go/internal/config"
	"github.com/sales-assist-go/internal/models"
	"github.com/sales-assist-go/internal/pipeline"
)

const imageDataPrefix = "data:image/"

// Limits holds the per-field clamping bounds.
type Limits struct {
	MaxMessageChars           int
	MaxInstructionChars       int
	MaxLatestInfoChars        int
	MaxManualInstructionChars int
	MaxHistoryTurns           int
	MaxImageEncodedBytes      int
}

// LimitsFromConfig converts the configured bounds. The image bound is
// expressed in decoded megabytes; base64 inflates by 4/3, so the encoded
// budget is adjusted accordingly.
func LimitsFromConfig(cfg *config.LimitsConfig) Limits {
	decoded := cfg.MaxImageMB << 20
	return Limits{
		MaxMessageChars:           cfg.MaxMessageChars,
		MaxInstructionChars:       cfg.MaxInstructionChars,
		MaxLatestInfoChars:        cfg.MaxLatestInfoChars,
		MaxManualInstructionChars: cfg.MaxManualInstructionChars,
		MaxHistoryTurns:           cfg.MaxHistoryTurns,
		MaxImageEncodedBytes:      decoded / 3 * 4,
	}
}

// rawAnalysis defers field decoding so that a single mistyped field
// degrades to its zero value instead of failing the whole request.
type rawAnalysis struct {
	Message             json.RawMessage `json:"message"`
	Image               json.RawMessage `json:"image"`
	Language            json.RawMessage `json:"language"`
	Persona             json.RawMessage `json:"persona"`
	CustomInstructions  json.RawMessage `json:"customInstructions"`
	LatestInfo          json.RawMessage `json:"latestInfo"`
	ConversationHistory json.RawMessage `json:"conversationHistory"`
}

type rawLiveScreen struct {
	Screenshot         json.RawMessage `json:"screenshot"`
	CustomInstructions json.RawMessage `json:"customInstructions"`
	LatestInfo         json.RawMessage `json:"latestInfo"`
	ManualInstruction  json.RawMessage `json:"manualInstruction"`
}

// AnalysisRequest decodes and sanitizes a conversation-analysis body.
// It fails only when the body is not a JSON object or when neither a
// message nor a usable image survives sanitization.
func AnalysisRequest(body []byte, lim Limits) (*models.AnalysisRequest, error) {
	var raw rawAnalysis
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, pipeline.WrapError(pipeline.KindInvalidRequest, err, "request body is not a JSON object")
	}

	req := &models.AnalysisRequest{
		Message:             CleanText(asString(raw.Message), lim.MaxMessageChars),
		Image:               Image(asString(raw.Image), lim.MaxImageEncodedBytes),
		Language:            asString(raw.Language),
		Persona:             asString(raw.Persona),
		CustomInstructions:  CleanText(asString(raw.CustomInstructions), lim.MaxInstructionChars),
		LatestInfo:          CleanText(asString(raw.LatestInfo), lim.MaxLatestInfoChars),
		ConversationHistory: history(raw.ConversationHistory, lim),
	}

	if req.Message == "" && req.Image == "" {
		return nil, pipeline.NewError(pipeline.KindInvalidRequest, "request has neither message text nor a usable image")
	}
	return req, nil
}

// LiveScreenRequest decodes and sanitizes a live-screen-analysis body.
func LiveScreenRequest(body []byte, lim Limits) (*models.LiveScreenRequest, error) {
	var raw rawLiveScreen
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, pipeline.WrapError(pipeline.KindInvalidRequest, err, "request body is not a JSON object")
	}

	req := &models.LiveScreenRequest{
		Screenshot:         Image(asString(raw.Screenshot), lim.MaxImageEncodedBytes),
		CustomInstructions: CleanText(asString(raw.CustomInstructions), lim.MaxInstructionChars),
		LatestInfo:         CleanText(asString(raw.LatestInfo), lim.MaxLatestInfoChars),
		ManualInstruction:  CleanText(asString(raw.ManualInstruction), lim.MaxManualInstructionChars),
	}

	if req.Screenshot == "" {
		return nil, pipeline.NewError(pipeline.KindInvalidRequest, "request has no usable screenshot")
	}
	return req, nil
}

// CleanText truncates s to max runes and strips angle brackets so that
// model output built from it cannot smuggle markup into a rendering client.
func CleanText(s string, max int) string {
	if max > 0 {
		runes := []rune(s)
		if len(runes) > max {
			s = string(runes[:max])
		}
	}
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	return strings.TrimSpace(s)
}

// Image validates an inline image. Anything that is not a data URI with an
// image media type, or that exceeds the encoded size budget, resolves to
// empty rather than failing the request.
func Image(s string, maxEncodedBytes int) string {
	if !strings.HasPrefix(s, imageDataPrefix) {
		return ""
	}
	if maxEncodedBytes > 0 && len(s) > maxEncodedBytes {
		return ""
	}
	return s
}

func asString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func history(raw json.RawMessage, lim Limits) []models.ChatTurn {
	if len(raw) == 0 {
		return nil
	}
	var turns []models.ChatTurn
	if err := json.Unmarshal(raw, &turns); err != nil {
		// Non-array history is treated as absent.
		return nil
	}
	if lim.MaxHistoryTurns > 0 && len(turns) > lim.MaxHistoryTurns {
		turns = turns[:lim.MaxHistoryTurns]
	}
	for i := range turns {
		turns[i].Role = CleanText(turns[i].Role, 50)
		turns[i].Content = CleanText(turns[i].Content, lim.MaxMessageChars)
	}
	if len(turns) == 0 {
		return nil
	}
	return turns
}
