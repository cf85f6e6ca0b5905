package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/sales-assist-go/internal/i18n"
	"github.com/sales-assist-go/internal/middleware"
	"github.com/sales-assist-go/internal/pipeline"
	"github.com/sales-assist-go/internal/services/cache"
	"github.com/sales-assist-go/internal/services/prompt"
	"github.com/sales-assist-go/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Request bodies may carry a ~10MB image inflated by base64 plus the
// surrounding fields.
const maxBodyBytes = 16 << 20

// Gateway abstracts the model gateway so tests can stub the upstream.
type Gateway interface {
	Complete(ctx context.Context, systemPrompt string, user prompt.UserContent) (string, error)
	Model() string
}

// prepared is a request after sanitization and prompt composition.
type prepared struct {
	cacheKey  string
	language  string
	system    string
	user      prompt.UserContent
	normalize func(raw string) (interface{}, error)
}

// prepareFunc sanitizes a raw body and composes its prompt. It is the only
// piece that differs between the two pipeline variants.
type prepareFunc func(body []byte) (*prepared, error)

// Pipeline runs sanitize -> rate limit -> cache -> compose -> gateway ->
// normalize for one endpoint variant.
type Pipeline struct {
	name      string
	prepare   prepareFunc
	limiter   *middleware.RateLimiter
	cache     cache.Service
	gateway   Gateway
	metrics   *middleware.Metrics
	localizer *i18n.Localizer
	logger    *logrus.Logger
}

func (p *Pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	reqLog := logger.WithPipeline(p.logger, p.name, middleware.BearerKey(r))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		p.fail(w, reqLog, start, "", pipeline.WrapError(pipeline.KindInvalidRequest, err, "failed to read request body"))
		return
	}

	// Sanitization runs first: an invalid request must not consume quota
	// or reach the gateway.
	prep, err := p.prepare(body)
	if err != nil {
		p.fail(w, reqLog, start, "", err)
		return
	}

	if !p.limiter.Allow(ctx, r) {
		p.metrics.RecordRateLimitExceeded(p.name)
		p.fail(w, reqLog, start, prep.language, pipeline.NewError(pipeline.KindRateLimited, "caller quota exhausted"))
		return
	}

	if cached, ok := p.cache.Get(prep.cacheKey); ok {
		p.metrics.RecordCacheHit()
		p.respond(w, http.StatusOK, cached)
		p.metrics.RecordRequest(p.name, "success", time.Since(start))
		reqLog.WithField("duration", time.Since(start)).Debug("Served from cache")
		return
	}
	p.metrics.RecordCacheMiss()

	gwStart := time.Now()
	raw, err := p.gateway.Complete(ctx, prep.system, prep.user)
	if err != nil {
		p.metrics.RecordGatewayRequest(p.gateway.Model(), "error", time.Since(gwStart))
		p.fail(w, reqLog, start, prep.language, err)
		return
	}
	p.metrics.RecordGatewayRequest(p.gateway.Model(), "success", time.Since(gwStart))

	result, err := prep.normalize(raw)
	if err != nil {
		p.fail(w, reqLog, start, prep.language, err)
		return
	}

	respBody, err := json.Marshal(result)
	if err != nil {
		p.fail(w, reqLog, start, prep.language, pipeline.WrapError(pipeline.KindMalformedResponse, err, "failed to encode result"))
		return
	}

	p.cache.Set(prep.cacheKey, respBody)
	p.respond(w, http.StatusOK, respBody)
	p.metrics.RecordRequest(p.name, "success", time.Since(start))
	reqLog.WithField("duration", time.Since(start)).Debug("Analysis request completed")
}

// fail converts any pipeline failure into the generic JSON error shape.
// Internal detail goes to the log, never to the caller.
func (p *Pipeline) fail(w http.ResponseWriter, reqLog *logrus.Entry, start time.Time, language string, err error) {
	kind := pipeline.KindOf(err)

	reqLog.WithField("kind", kind.MessageID()).WithError(err).Error("Analysis request failed")

	errBody, _ := json.Marshal(map[string]string{
		"error": p.localizer.Get(language, kind.MessageID()),
	})
	p.respond(w, kind.HTTPStatus(), errBody)
	p.metrics.RecordRequest(p.name, kind.MessageID(), time.Since(start))
}

func (p *Pipeline) respond(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		p.logger.WithError(err).Error("Failed to write response")
	}
}
