// Package normalize turns raw gateway replies into typed results.
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/sales-assist-go/internal/models"
	"github.com/sales-assist-go/internal/pipeline"
	"github.com/sales-assist-go/pkg/markdown"
)

// The upstream model sometimes wraps its reply in a markdown code fence
// despite being asked for pure JSON.
var (
	fenceOpen  = regexp.MustCompile(`(?i)^` + "```" + `json\s*`)
	fenceClose = regexp.MustCompile("```" + `\s*$`)
)

// StripFence removes a leading ```json and trailing ``` wrapper, if present.
// Stripping is idempotent.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Analysis parses a conversation-analysis reply. withHistory reflects
// whether the request carried conversation turns; without them the
// follow-up fields are not part of the contract and are dropped even if
// the model volunteered them.
func Analysis(raw string, withHistory bool) (*models.AnalysisResult, error) {
	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(StripFence(raw)), &result); err != nil {
		return nil, pipeline.WrapError(pipeline.KindMalformedResponse, err, "gateway reply is not valid JSON")
	}

	if !withHistory {
		result.FollowUpSuggestions = nil
		result.ConversationInsights = ""
	}

	result.SuggestedReplies.Professional = markdown.ToPlainText(result.SuggestedReplies.Professional)
	result.SuggestedReplies.Friendly = markdown.ToPlainText(result.SuggestedReplies.Friendly)
	result.SuggestedReplies.Confident = markdown.ToPlainText(result.SuggestedReplies.Confident)

	return &result, nil
}

// LiveScreen parses a live-screen-analysis reply.
func LiveScreen(raw string) (*models.LiveAnalysisResult, error) {
	var result models.LiveAnalysisResult
	if err := json.Unmarshal([]byte(StripFence(raw)), &result); err != nil {
		return nil, pipeline.WrapError(pipeline.KindMalformedResponse, err, "gateway reply is not valid JSON")
	}

	for i := range result.Suggestions {
		result.Suggestions[i].Content = markdown.ToPlainText(result.Suggestions[i].Content)
	}

	return &result, nil
}
