package normalize

import (
	"reflect"
	"testing"

	"github.com/sales-assist-go/internal/pipeline"
)

const analysisReply = `{
	"sentiment": "negative",
	"keyPoints": ["price objection"],
	"suggestedReplies": {
		"professional": "I understand the concern.",
		"friendly": "Totally get it!",
		"confident": "Value beats price here."
	}
}`

func TestStripFenceIdempotent(t *testing.T) {
	fenced := "```json\n" + analysisReply + "\n```"
	once := StripFence(fenced)
	twice := StripFence(once)
	if once != twice {
		t.Errorf("stripping is not idempotent:\nonce  %q\ntwice %q", once, twice)
	}
	if once != analysisReply {
		t.Errorf("fence not removed:\n%q", once)
	}
}

func TestAnalysisFencedEqualsBare(t *testing.T) {
	bare, err := Analysis(analysisReply, false)
	if err != nil {
		t.Fatalf("bare parse: %v", err)
	}
	fenced, err := Analysis("```json\n"+analysisReply+"\n```", false)
	if err != nil {
		t.Fatalf("fenced parse: %v", err)
	}
	if !reflect.DeepEqual(bare, fenced) {
		t.Errorf("fenced and bare parses differ:\n%+v\n%+v", bare, fenced)
	}
}

func TestAnalysisMalformed(t *testing.T) {
	_, err := Analysis("I am not JSON at all", false)
	if err == nil {
		t.Fatal("expected error")
	}
	if pipeline.KindOf(err) != pipeline.KindMalformedResponse {
		t.Errorf("expected malformed response, got %v", err)
	}
}

func TestAnalysisDropsFollowUpWithoutHistory(t *testing.T) {
	reply := `{
		"sentiment": "neutral",
		"keyPoints": [],
		"suggestedReplies": {"professional": "ok", "friendly": "ok", "confident": "ok"},
		"followUpSuggestions": ["check back tomorrow"],
		"conversationInsights": "going fine"
	}`

	result, err := Analysis(reply, false)
	if err != nil {
		t.Fatalf("Analysis error: %v", err)
	}
	if result.FollowUpSuggestions != nil || result.ConversationInsights != "" {
		t.Errorf("follow-up fields must be dropped without history: %+v", result)
	}

	withHistory, err := Analysis(reply, true)
	if err != nil {
		t.Fatalf("Analysis error: %v", err)
	}
	if len(withHistory.FollowUpSuggestions) != 1 || withHistory.ConversationInsights == "" {
		t.Errorf("follow-up fields must survive with history: %+v", withHistory)
	}
}

func TestAnalysisStripsReplyMarkdown(t *testing.T) {
	reply := `{
		"sentiment": "positive",
		"keyPoints": [],
		"suggestedReplies": {
			"professional": "**Great** choice, let us proceed.",
			"friendly": "ok",
			"confident": "ok"
		}
	}`
	result, err := Analysis(reply, false)
	if err != nil {
		t.Fatalf("Analysis error: %v", err)
	}
	if result.SuggestedReplies.Professional != "Great choice, let us proceed." {
		t.Errorf("markdown not stripped: %q", result.SuggestedReplies.Professional)
	}
}

func TestLiveScreen(t *testing.T) {
	reply := "```json\n" + `{
		"needsResponse": true,
		"clientStatus": "在等报价",
		"emotion": "犹豫",
		"stage": "解疑",
		"lastClientMessage": "太贵了",
		"objections": ["价格太高"],
		"suggestions": [{"content": "可以分期", "strategy": "降低门槛"}],
		"insights": "客户在比价"
	}` + "\n```"

	result, err := LiveScreen(reply)
	if err != nil {
		t.Fatalf("LiveScreen error: %v", err)
	}
	if !result.NeedsResponse || result.Emotion != "犹豫" || result.Stage != "解疑" {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0].Strategy != "降低门槛" {
		t.Errorf("unexpected suggestions: %+v", result.Suggestions)
	}
}

func TestLiveScreenMalformed(t *testing.T) {
	_, err := LiveScreen("```json\nnope\n```")
	if pipeline.KindOf(err) != pipeline.KindMalformedResponse {
		t.Errorf("expected malformed response, got %v", err)
	}
}
