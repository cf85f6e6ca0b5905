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

// NewLiveScreenHandler builds the live-screen pipeline: screenshot-only
// analysis with the bubble-side attribution rules.
func NewLiveScreenHandler(
	limits sanitize.Limits,
	limiter *middleware.RateLimiter,
	cacheService cache.Service,
	gw Gateway,
	metrics *middleware.Metrics,
	localizer *i18n.Localizer,
	logger *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		name:      "live_screen_analysis",
		limiter:   limiter,
		cache:     cacheService,
		gateway:   gw,
		metrics:   metrics,
		localizer: localizer,
		logger:    logger,
		prepare: func(body []byte) (*prepared, error) {
			req, err := sanitize.LiveScreenRequest(body, limits)
			if err != nil {
				return nil, err
			}

			system, user := prompt.ComposeLiveScreen(req)

			keyFields, err := json.Marshal(req)
			if err != nil {
				return nil, err
			}

			return &prepared{
				cacheKey: cache.Key("live-screen-analysis", string(keyFields)),
				system:   system,
				user:     user,
				normalize: func(raw string) (interface{}, error) {
					return normalize.LiveScreen(raw)
				},
			}, nil
		},
	}
}
