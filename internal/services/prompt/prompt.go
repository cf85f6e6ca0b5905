// Package prompt assembles the system instruction and user payload sent to
// the model gateway. Composition is pure: no network calls, no state.
package prompt

import (
	"fmt"
	"strings"

	"github.com/sales-assist-go/internal/models"
)

// UserContent is the user-side payload of a gateway call: plain text,
// optionally accompanied by an inline image data URI.
type UserContent struct {
	Text  string
	Image string
}

// ComposeAnalysis builds the prompt pair for conversation analysis.
func ComposeAnalysis(req *models.AnalysisRequest) (string, UserContent) {
	var b strings.Builder

	b.WriteString(roleDirective(req.CustomInstructions, req.Persona))

	if req.LatestInfo != "" {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, latestInfoTemplate, req.LatestInfo)
	}

	b.WriteString("\n\n")
	b.WriteString(languageDirective(req.Language))

	withHistory := len(req.ConversationHistory) > 0
	if withHistory {
		b.WriteString("\n\n")
		b.WriteString(historyInstruction)
	}

	b.WriteString("\n\n")
	b.WriteString(analysisTask)
	b.WriteString("\n\n")
	if withHistory {
		b.WriteString(analysisSchemaWithHistory)
	} else {
		b.WriteString(analysisSchema)
	}

	return b.String(), analysisUserContent(req)
}

// ComposeLiveScreen builds the prompt pair for live-screen analysis. The
// bubble side convention comes before any other analysis instruction.
func ComposeLiveScreen(req *models.LiveScreenRequest) (string, UserContent) {
	var b strings.Builder

	b.WriteString(liveScreenIntro)
	b.WriteString("\n\n")
	b.WriteString(roleDirective(req.CustomInstructions, defaultPersona))

	if req.LatestInfo != "" {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, latestInfoTemplate, req.LatestInfo)
	}

	if req.ManualInstruction != "" {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, manualInstructionTemplate, req.ManualInstruction)
	}

	b.WriteString("\n\n")
	b.WriteString(bubbleRules)
	b.WriteString("\n\n")
	b.WriteString(liveScreenTask)

	text := liveScreenUserBare
	if req.ManualInstruction != "" {
		text = fmt.Sprintf(liveScreenUserWithInstruction, req.ManualInstruction)
	}

	return b.String(), UserContent{Text: text, Image: req.Screenshot}
}

func roleDirective(customInstructions, persona string) string {
	if customInstructions != "" {
		return "YOUR ROLE: " + customInstructions
	}
	if directive, ok := personaDirectives[persona]; ok {
		return directive
	}
	return personaDirectives[defaultPersona]
}

func languageDirective(language string) string {
	if directive, ok := languageDirectives[language]; ok {
		return directive
	}
	return languageDirectives[defaultLanguage]
}

func analysisUserContent(req *models.AnalysisRequest) UserContent {
	if req.Image != "" {
		text := analyzeImageBare
		if req.Message != "" {
			text = fmt.Sprintf(analyzeImageWithContext, req.Message)
		}
		return UserContent{Text: text, Image: req.Image}
	}

	if len(req.ConversationHistory) > 0 {
		var b strings.Builder
		b.WriteString("Previous conversation:\n")
		for _, turn := range req.ConversationHistory {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, analyzeLatestTemplate, req.Message)
		return UserContent{Text: b.String()}
	}

	return UserContent{Text: fmt.Sprintf(analyzeTextTemplate, req.Message)}
}
