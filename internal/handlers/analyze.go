package handlers

import (
	"encoding/json"

	"github.com/sales-assist-go/internal/i18n"
	"github.com/sales-assist-go/internal/middleware"
	"github.com/sales-assist-go/internal/services/cache"
	"github.com/sales-assist-go/internal/services/normalize"
	"github.com/sales-assist-go/internal/services/prompt"
	"github.com/sales-assist-go/internal/services/sanitize"
	"github.com/sirupsen/logrus"
)

// NewAnalyzeHandler builds the conversation-analysis pipeline: free text
// and/or a pasted screenshot, persona and language directives, optional
// prior turns.
func NewAnalyzeHandler(
	limits sanitize.Limits,
	limiter *middleware.RateLimiter,
	cacheService cache.Service,
	gw Gateway,
	metrics *middleware.Metrics,
	localizer *i18n.Localizer,
	logger *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		name:      "analyze_message",
		limiter:   limiter,
		cache:     cacheService,
		gateway:   gw,
		metrics:   metrics,
		localizer: localizer,
		logger:    logger,
		prepare: func(body []byte) (*prepared, error) {
			req, err := sanitize.AnalysisRequest(body, limits)
			if err != nil {
				return nil, err
			}

			system, user := prompt.ComposeAnalysis(req)
			withHistory := len(req.ConversationHistory) > 0

			// The sanitized request is the full set of salient fields.
			keyFields, err := json.Marshal(req)
			if err != nil {
				return nil, err
			}

			return &prepared{
				cacheKey: cache.Key("analyze-message", string(keyFields)),
				language: req.Language,
				system:   system,
				user:     user,
				normalize: func(raw string) (interface{}, error) {
					return normalize.Analysis(raw, withHistory)
				},
			}, nil
		},
	}
}
